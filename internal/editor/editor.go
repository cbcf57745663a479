package editor

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mithrel/notebook/internal/notebook"
)

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// PathForNote returns a scratch file path for editing a note called name.
func PathForNote(name string) (string, error) {
	file := sanitizeName(name) + ".notebook.md"
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "notebook", file), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "notebook", "edit", file), nil
}

func sanitizeName(name string) string {
	name = strings.TrimSuffix(filepath.Base(strings.TrimSpace(name)), filepath.Ext(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "scratch"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// PrepareAt writes the initial content to path with 0600 perms, creating
// the directory with 0700.
func PrepareAt(path string, initial []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, initial, fs.FileMode(0o600))
}

// Command builds the process that opens path in the user's editor without
// wiring stdio. VISUAL/EDITOR may carry flags, so they run via sh.
func Command(ctx context.Context, path string) (*exec.Cmd, error) {
	ed := os.Getenv("VISUAL")
	if ed == "" {
		ed = os.Getenv("EDITOR")
	}
	if strings.TrimSpace(ed) != "" {
		cmd := exec.CommandContext(ctx, "sh", "-c", "$EDITORCMD \"$FILEPATH\"")
		cmd.Env = append(os.Environ(), "EDITORCMD="+ed, "FILEPATH="+path)
		return cmd, nil
	}
	prog, err := PreferredEditor()
	if err != nil {
		return nil, err
	}
	return exec.CommandContext(ctx, prog, path), nil
}

// OpenAt opens the editor at path with initial content and returns the
// final bytes and whether they changed.
func OpenAt(ctx context.Context, path string, initial []byte) (final []byte, changed bool, err error) {
	if err := PrepareAt(path, initial); err != nil {
		return nil, false, err
	}
	cmd, err := Command(ctx, path)
	if err != nil {
		return nil, false, err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, false, err
	}
	return ReadBack(path, initial)
}

// ReadBack reads the edited file and compares it with initial.
func ReadBack(path string, initial []byte) (final []byte, changed bool, err error) {
	out, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(out, initial), nil
}

// Edit round-trips the notebook's content through the user's editor and
// stores the result when it changed.
func Edit(ctx context.Context, nb *notebook.Notebook, path string) (changed bool, err error) {
	final, changed, err := OpenAt(ctx, path, []byte(nb.Content()))
	if err != nil {
		return false, err
	}
	if changed {
		nb.SetContent(string(final))
	}
	return changed, nil
}
