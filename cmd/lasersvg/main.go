// Command lasersvg extracts the laser data of an SVG file:
// the cut and engrave lines, and the raster background.
//
//	lasersvg [-o dir] [-pdf] file.svg
//
// The settings are read from the LASERSVG_* environment variables.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/benoitkugler/lasersvg/config"
	"github.com/benoitkugler/lasersvg/svglaser"
	"github.com/benoitkugler/lasersvg/svgpdf"
	"github.com/benoitkugler/lasersvg/svgraster"
	"github.com/benoitkugler/lasersvg/svgtree"
)

func main() {
	outDir := flag.String("o", ".", "output directory")
	withPDF := flag.Bool("pdf", false, "also write a PDF preview")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: lasersvg [-o dir] [-pdf] file.svg")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	res, err := process(context.Background(), cfg, flag.Arg(0), logger)
	if err != nil {
		slog.Error("failed to process file", "file", flag.Arg(0), "error", err, "hint", hint(err))
		os.Exit(1)
	}
	if err = writeOutputs(*outDir, res, *withPDF); err != nil {
		slog.Error("failed to write outputs", "error", err)
		os.Exit(1)
	}
	slog.Info("done", "width_mm", res.Width, "height_mm", res.Height,
		"cut", len(res.CutLines()), "engrave", len(res.EngraveLines()), "output", *outDir)
}

// process reads the file, retrying with a physical size when
// PixelsPerInch is configured, and with text converted to paths when
// colored text is found.
func process(ctx context.Context, cfg *config.Config, filename string, logger *slog.Logger) (*svglaser.Result, error) {
	doc, err := svgtree.ParseFile(filename)
	if err != nil {
		return nil, err
	}

	runner := cfg.Runner(logger)
	opts := []svglaser.Option{svglaser.WithLogger(logger), svglaser.WithTextConverter(runner)}
	if cfg.Renderer == config.RendererInkscape {
		opts = append(opts, svglaser.WithRasterizer(runner))
	} else {
		opts = append(opts, svglaser.WithRasterizer(svgraster.Rasterizer{}))
	}

	rc := cfg.ReaderConfig()
	// Read modifies its input: always work on a copy
	read := func() (*svglaser.Result, error) {
		return svglaser.NewReader(rc, opts...).Read(ctx, doc.Clone())
	}

	res, err := read()
	if errors.Is(err, svglaser.ErrUnsupportedSize) && cfg.PixelsPerInch > 0 {
		logger.Warn("document size not set, using pixels per inch", "pxpi", cfg.PixelsPerInch)
		if err = svglaser.SetPhysicalSize(doc, cfg.PixelsPerInch); err != nil {
			return nil, err
		}
		res, err = read()
	}
	if svglaser.IsRecoverableText(err) {
		logger.Warn("converting text to paths", "reason", err)
		rc.TextToPaths = true
		res, err = read()
	}
	return res, err
}

// hint returns the manual fix of a document rejected by the reader.
func hint(err error) string {
	var te *svglaser.TextError
	switch {
	case errors.As(err, &te):
		return te.Hint()
	case errors.Is(err, svglaser.ErrNonUniformScale):
		return `in Inkscape, adjust "Scale x" in "File" - "Document Properties"`
	case errors.Is(err, svglaser.ErrUnsupportedSize):
		return "set the width and height in physical units, or LASERSVG_PXPI"
	}
	return ""
}

func writeJSON(filename string, lines [][4]float64) error {
	if lines == nil {
		lines = [][4]float64{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

func writeOutputs(dir string, res *svglaser.Result, withPDF bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "cut.json"), res.CutLines()); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "engrave.json"), res.EngraveLines()); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, "raster.png"))
	if err != nil {
		return err
	}
	if err = png.Encode(f, res.Raster); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}

	if !withPDF {
		return nil
	}
	f, err = os.Create(filepath.Join(dir, "preview.pdf"))
	if err != nil {
		return err
	}
	if err = svgpdf.Write(f, res); err != nil {
		f.Close()
		return fmt.Errorf("writing preview: %w", err)
	}
	return f.Close()
}
