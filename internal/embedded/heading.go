package embedded

import (
	"fmt"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// headingAnchors is a goldmark extension that gives every heading a
// lowercase, hyphenated id so doc links like /docs#height-protocol stay
// stable when headings gain punctuation.
type headingAnchors struct{}

func (e *headingAnchors) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithAutoHeadingID(),
		parser.WithASTTransformers(
			util.Prioritized(&headingAnchorTransformer{}, 500),
		),
	)
}

type headingAnchorTransformer struct{}

func (t *headingAnchorTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	used := map[string]bool{}

	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		var raw []byte
		for i := 0; i < heading.Lines().Len(); i++ {
			line := heading.Lines().At(i)
			raw = append(raw, line.Value(reader.Source())...)
		}

		heading.SetAttribute([]byte("id"), []byte(headingAnchor(string(raw), used)))
		return ast.WalkContinue, nil
	})
}

// headingAnchor slugifies text, suffixing repeats with -1, -2 and so on.
func headingAnchor(text string, used map[string]bool) string {
	id := slug.Make(text)
	if id == "" {
		id = "section"
	}

	if !used[id] {
		used[id] = true
		return id
	}
	for i := 1; ; i++ {
		deduped := fmt.Sprintf("%s-%d", id, i)
		if !used[deduped] {
			used[deduped] = true
			return deduped
		}
	}
}
