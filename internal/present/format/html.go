package format

import (
	"html/template"
	"io"
	"strings"
)

// WriteHTML writes a rendered fragment, ensuring it ends with a newline
// unless it is empty.
func WriteHTML(w io.Writer, fragment string) error {
	if fragment != "" && !strings.HasSuffix(fragment, "\n") {
		fragment += "\n"
	}
	_, err := io.WriteString(w, fragment)
	return err
}

// Page is the data for a standalone preview document.
type Page struct {
	Title string
	Body  template.HTML
	// LiveReload adds a script that refreshes the body from the server's
	// event stream.
	LiveReload bool
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { max-width: 46rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.5; }
pre, code { background: #f4f4f4; }
pre { padding: .75rem; overflow-x: auto; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: .25rem .5rem; }
</style>
</head>
<body>
<main id="notebook">
{{.Body}}</main>
{{- if .LiveReload}}
<script>
const main = document.getElementById("notebook");
const events = new EventSource("/api/events");
events.addEventListener("change", async () => {
  const res = await fetch("/api/preview");
  if (res.ok) main.innerHTML = await res.text();
});
</script>
{{- end}}
</body>
</html>
`))

// WritePage writes a full HTML document around an already rendered body.
// The body is inserted verbatim; sanitize it first if it is untrusted.
func WritePage(w io.Writer, p Page) error {
	if p.Title == "" {
		p.Title = "notebook"
	}
	return pageTmpl.Execute(w, p)
}
