// Package embedded serves the read-only documentation pages compiled into
// the binary.
package embedded

import (
	"embed"
	"html/template"
	"io/fs"
	"sort"
	"strings"
)

//go:embed docs/*.md
var docsFS embed.FS

// Page is a rendered documentation page.
type Page struct {
	Slug     string
	Title    string
	Markdown string
	HTML     template.HTML
	TOC      []TOCEntry
}

// RenderFunc renders markdown to trusted HTML and its table of contents.
type RenderFunc func(markdown string) (string, []TOCEntry, error)

// Pages holds pre-rendered documentation pages keyed by slug.
type Pages struct {
	pages map[string]*Page
}

// New loads and renders every markdown file at the root of fsys. The slug
// is the file name without extension.
func New(fsys fs.FS, render RenderFunc) (*Pages, error) {
	p := &Pages{pages: make(map[string]*Page)}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, err
		}

		html, toc, err := render(string(content))
		if err != nil {
			return nil, err
		}

		slug := strings.TrimSuffix(entry.Name(), ".md")
		p.pages[slug] = &Page{
			Slug:     slug,
			Title:    titleOf(string(content), slug),
			Markdown: string(content),
			HTML:     template.HTML(html),
			TOC:      toc,
		}
	}

	return p, nil
}

// Load renders the pages compiled into the binary.
func Load() (*Pages, error) {
	sub, err := fs.Sub(docsFS, "docs")
	if err != nil {
		return nil, err
	}
	return New(sub, NewMarkdownRenderer().Render)
}

// titleOf returns the first level-one heading, or the slug.
func titleOf(markdown, slug string) string {
	for _, line := range strings.Split(markdown, "\n") {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(title)
		}
	}
	return slug
}

// Get returns a page by slug, or nil if not found.
func (p *Pages) Get(slug string) *Page {
	return p.pages[slug]
}

// List returns all slugs in sorted order.
func (p *Pages) List() []string {
	slugs := make([]string, 0, len(p.pages))
	for slug := range p.pages {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
