package preview

import (
	"context"

	"github.com/danielledeleo/ayatembed/internal/fetchqueue"
	"github.com/danielledeleo/ayatembed/quran/service"
	"github.com/danielledeleo/ayatembed/render"
	"github.com/danielledeleo/ayatembed/snippet"
)

// NewLoader returns a LoadFunc that fetches through content at background
// priority and renders both export formats.
func NewLoader(content service.ContentService, baseURL string) LoadFunc {
	return func(ctx context.Context, req Request) (*Preview, error) {
		if req.Err != nil {
			return nil, req.Err
		}
		passage, err := content.Passage(ctx, req.Selection, fetchqueue.TierBackground)
		if err != nil {
			return nil, err
		}

		frag := render.GenerateMarkup(passage.Verses, passage.Chapter, req.Style, req.Language)
		snip, err := snippet.Generate(baseURL, passage.Selection, req.Style, req.Language)
		if err != nil {
			return nil, err
		}

		return &Preview{
			Selection: passage.Selection.String(),
			Markup:    frag.String(),
			Iframe:    snip.HTML,
			Height:    snip.Height,
		}, nil
	}
}
