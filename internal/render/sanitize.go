package render

import "github.com/microcosm-cc/bluemonday"

// Sanitizer strips unsafe markup from rendered HTML before it is inserted
// into a page. Converters never sanitize; callers that display untrusted
// notes wrap them with Sanitized.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer uses bluemonday's user-generated-content policy.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.UGCPolicy()}
}

func (s *Sanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}

// Sanitized returns a Converter that sanitizes conv's output.
func Sanitized(conv Converter, s *Sanitizer) Converter {
	return ConverterFunc(func(source string) (string, error) {
		out, err := conv.Convert(source)
		if err != nil {
			return "", err
		}
		return s.Sanitize(out), nil
	})
}
