// Package svglaser extracts laser cutter data from SVG documents.
//
// Shapes stroked in red (cut) or blue (engrave) are converted to straight
// segments, in millimeters, while the rest of the drawing is rendered
// as a gray raster background. The stroke of the vector shapes is
// neutralized in the document so that it does not show in the raster.
package svglaser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/benoitkugler/lasersvg/svgpath"
	"github.com/benoitkugler/lasersvg/svgtree"
)

// DefaultDPI is the default resolution of the raster background.
const DefaultDPI = 1000

// Config controls the extraction.
type Config struct {
	// Flatness is the maximum distance, in millimeters, between a curve
	// and the segments approximating it.
	Flatness float64
	// ImageDPI is the resolution of the raster background.
	ImageDPI float64
	// Rasterize enables the raster background. When false, the background
	// is a blank page.
	Rasterize bool
	// TextToPaths converts the text elements to paths before processing.
	TextToPaths bool
	// Layers restricts the extraction to the given layers (labels
	// with spaces replaced by underscores). Empty means every layer.
	Layers []string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Flatness:  svgpath.DefaultFlatness,
		ImageDPI:  DefaultDPI,
		Rasterize: true,
	}
}

// Reader converts documents according to its configuration.
// A Reader may be reused but should not be used concurrently.
type Reader struct {
	cfg           Config
	logger        *slog.Logger
	rasterizer    Rasterizer
	textConverter TextConverter
}

// NewReader returns a reader. Zero Flatness and ImageDPI are
// replaced by their defaults.
func NewReader(cfg Config, opts ...Option) *Reader {
	if cfg.Flatness <= 0 {
		cfg.Flatness = svgpath.DefaultFlatness
	}
	if cfg.ImageDPI <= 0 {
		cfg.ImageDPI = DefaultDPI
	}
	r := &Reader{cfg: cfg, logger: newNopLogger()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read extracts the laser data of doc. The document is modified in place:
// class attributes are merged into styles and the stroke of vector shapes is
// neutralized. Callers wanting to retry (see IsRecoverableText) should pass
// a copy (see svgtree.Document.Clone).
func (r *Reader) Read(ctx context.Context, doc *svgtree.Document) (*Result, error) {
	if r.cfg.TextToPaths {
		if r.textConverter == nil {
			return nil, errors.New("text conversion requested without converter")
		}
		converted, err := r.textConverter.TextToPath(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("converting text to paths: %w", err)
		}
		doc = converted
	}

	pg, err := PageOf(doc)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("document size", "width", pg.Width, "height", pg.Height, "viewBox", pg.ViewBox.String())

	layers := collectLayers(doc)
	w := newWalker(doc, r.cfg, r.logger, layers)
	root := frame{matrix: pg.matrix(), layer: DefaultLayer}
	if err := w.group(doc.Root, root); err != nil {
		return nil, err
	}
	for _, l := range r.cfg.Layers {
		if !w.known[layerName(l)] {
			r.logger.Warn("selected layer not found", "layer", l)
		}
	}

	res := &Result{
		Segments: w.segments,
		Actions:  w.actions,
		DPI:      r.cfg.ImageDPI,
		Layers:   layers,
	}
	if r.cfg.Rasterize && r.rasterizer != nil {
		res.Raster, err = r.rasterizer.Rasterize(ctx, doc, r.cfg.ImageDPI)
		if err != nil {
			return nil, fmt.Errorf("making raster data: %w", err)
		}
	} else {
		res.Raster = BlankRaster(pg.Width, pg.Height, r.cfg.ImageDPI)
	}

	res.normalize(pg.Width, pg.Height)
	r.logger.Info("document processed", "segments", len(res.Segments), "width", res.Width, "height", res.Height)
	return res, nil
}
