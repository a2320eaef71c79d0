package embedded

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TOCEntry represents a heading in the table of contents.
type TOCEntry struct {
	ID       string
	Text     string
	Children []TOCEntry
}

var tocTmpl = template.Must(template.New("toc").Parse(`<nav id="toc" class="ae-toc">
<strong>Contents</strong>
{{template "entries" .}}
</nav>
{{define "entries"}}<ol>
{{range .}}<li><a href="#{{.ID}}">{{.Text}}</a>{{if .Children}}{{template "entries" .Children}}{{end}}</li>
{{end}}</ol>{{end}}`))

// buildTOCTree constructs a nested TOC from a flat list of heading nodes.
// h2 is top-level, h3 nests under h2. Headings without a parent of the
// expected level are dropped.
func buildTOCTree(nodes []*html.Node) []TOCEntry {
	var root []TOCEntry

	for _, n := range nodes {
		entry := TOCEntry{
			ID:   getAttr(n, "id"),
			Text: strings.TrimSpace(textContent(n)),
		}

		switch n.DataAtom {
		case atom.H2:
			root = append(root, entry)
		case atom.H3:
			if len(root) > 0 {
				root[len(root)-1].Children = append(root[len(root)-1].Children, entry)
			}
		}
	}

	return root
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

// MarkdownRenderer converts documentation markdown to sanitized HTML with
// a table of contents inserted before the first h2.
type MarkdownRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewMarkdownRenderer creates a renderer with GitHub-flavored tables,
// footnotes and slugified heading ids.
func NewMarkdownRenderer() *MarkdownRenderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").Matching(regexp.MustCompile(`^[a-z0-9:_-]+$`)).OnElements("h1", "h2", "h3", "h4", "li", "sup")
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-z0-9 -]+$`)).Globally()

	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				&headingAnchors{},
			),
		),
		policy: policy,
	}
}

// Render returns the page HTML and its TOC entries.
func (r *MarkdownRenderer) Render(md string) (string, []TOCEntry, error) {
	buf := &bytes.Buffer{}
	if err := r.md.Convert([]byte(md), buf); err != nil {
		return "", nil, fmt.Errorf("failed to Convert: %w", err)
	}

	root, err := html.Parse(bytes.NewReader(r.policy.SanitizeBytes(buf.Bytes())))
	if err != nil {
		return "", nil, err
	}
	document := goquery.NewDocumentFromNode(root)

	var nodes []*html.Node
	document.Find("h2, h3").Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, s.Nodes[0])
	})
	toc := buildTOCTree(nodes)

	if len(toc) > 0 {
		if err := insertTOC(document, toc); err != nil {
			return "", nil, err
		}
	}

	body, err := document.Find("body").Html()
	if err != nil {
		return "", nil, err
	}
	return body, toc, nil
}

func insertTOC(document *goquery.Document, toc []TOCEntry) error {
	out := &bytes.Buffer{}
	if err := tocTmpl.Execute(out, toc); err != nil {
		return err
	}

	fakeBody := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	newnodes, err := html.ParseFragment(out, fakeBody)
	if err != nil {
		return err
	}

	var tocNode *html.Node
	for _, n := range newnodes {
		if n.Type == html.ElementNode {
			tocNode = n
			break
		}
	}
	if tocNode == nil {
		return nil
	}

	firstH2 := document.Find("h2").Nodes[0]
	firstH2.Parent.InsertBefore(tocNode, firstH2)
	return nil
}
