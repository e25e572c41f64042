package mail

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates is a compiled, read-only set of pongo2 templates addressed by
// file name without extension.
type Templates struct {
	byName map[string]*pongo2.Template
}

// LoadTemplates compiles every *.html file of the embedded template set.
func LoadTemplates() (*Templates, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	return ParseTemplates(sub)
}

// ParseTemplates compiles every *.html file at the root of fsys.
func ParseTemplates(fsys fs.FS) (*Templates, error) {
	names, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, err
	}

	t := &Templates{byName: make(map[string]*pongo2.Template, len(names))}
	for _, name := range names {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		tpl, err := pongo2.FromBytes(src)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		t.byName[strings.TrimSuffix(name, path.Ext(name))] = tpl
	}
	return t, nil
}

// Render executes the named template with data.
func (t *Templates) Render(name string, data map[string]any) (string, error) {
	tpl, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return tpl.Execute(pongo2.Context(data))
}
