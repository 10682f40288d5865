package svglaser

import (
	"context"
	"image"
	"log/slog"

	"github.com/benoitkugler/lasersvg/svgtree"
)

// Rasterizer renders a document to a gray bitmap on a white
// background, covering the document page at the given resolution.
type Rasterizer interface {
	Rasterize(ctx context.Context, doc *svgtree.Document, dpi float64) (*image.Gray, error)
}

// TextConverter returns an equivalent document where text
// elements have been replaced by their outlines.
type TextConverter interface {
	TextToPath(ctx context.Context, doc *svgtree.Document) (*svgtree.Document, error)
}

// Option configures a Reader.
//
// Example:
//
//	r := svglaser.NewReader(cfg,
//		svglaser.WithLogger(slog.Default()),
//		svglaser.WithRasterizer(svgraster.Rasterizer{}))
type Option func(*Reader)

// WithLogger sets the logger used to report skipped elements and
// degraded precision. By default, nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRasterizer sets the collaborator producing the raster background.
// Without rasterizer (or with Config.Rasterize false),
// the background is blank.
func WithRasterizer(rz Rasterizer) Option {
	return func(r *Reader) {
		r.rasterizer = rz
	}
}

// WithTextConverter sets the collaborator used when Config.TextToPaths is true.
func WithTextConverter(tc TextConverter) Option {
	return func(r *Reader) {
		r.textConverter = tc
	}
}
