package templater

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"unicode"
	"unicode/utf8"

	"github.com/danielledeleo/ayatembed/quran"
	"github.com/danielledeleo/ayatembed/render"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates
var templatesFS embed.FS

// Templater ecapsulates the map to prevent direct access. See RenderTemplate
type Templater struct {
	templates map[string]*template.Template
	funcs     template.FuncMap
}

func New() *Templater {
	return &Templater{}
}

// LoadEmbedded loads the templates compiled into the binary.
func (t *Templater) LoadEmbedded() error {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return err
	}
	return t.Load(sub, "layouts/*.html", "*.html")
}

// Load loads or reloads template files from fsys. Here, baseGlob refers to
// base templates (the document wrappers) and mainGlob refers to the
// templates that fill them. Globs are of the fs.Glob format, i.e. *.html
func (t *Templater) Load(fsys fs.FS, baseGlob, mainGlob string) error {
	templates := make(map[string]*template.Template)
	pages, err := fs.Glob(fsys, mainGlob)
	if err != nil {
		return err
	}

	base, err := fs.Glob(fsys, baseGlob)
	if err != nil {
		return err
	}

	titler := cases.Title(language.English)

	t.funcs = template.FuncMap{
		"title":       titler.String,
		"capitalize":  capitalize,
		"pathEscape":  url.PathEscape,
		"queryEscape": url.QueryEscape,
		"statusText":  http.StatusText,
		"digits":      render.LocalizeDigits,
		"t":           func(lang quran.Language, key string) string { return lang.T(key) },
		"embedPath":   embedPath,
		"builderURL":  builderURL,
		"randomURL":   randomURL,
	}

	for _, page := range pages {
		files := append(append([]string{}, base...), page)
		name := path.Base(page)
		tmpl, err := template.New(name).Funcs(t.funcs).ParseFS(fsys, files...)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	t.templates = templates
	return nil
}

// RenderTemplate makes sure templates exist and renders them. Don't mix up name and base!
func (t *Templater) RenderTemplate(w io.Writer, name string, base string, data map[string]any) error {
	tmpl, ok := t.templates[name]
	if !ok {
		return fmt.Errorf("content template %s does not exist", name)
	}

	if tmpl.Lookup(base) == nil {
		return fmt.Errorf("base template %s does not exist", base)
	}

	if _, ok := data["Lang"]; !ok {
		data["Lang"] = quran.English
	}
	if _, ok := data["Nav"]; !ok {
		data["Nav"] = ""
	}

	return tmpl.ExecuteTemplate(w, base, data)
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + s[size:]
}
