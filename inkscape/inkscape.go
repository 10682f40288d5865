// Package inkscape delegates rasterization and text outlining
// to the Inkscape command line, falling back on ImageMagick
// for rasterization when Inkscape is not installed.
package inkscape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/benoitkugler/lasersvg/svglaser"
	"github.com/benoitkugler/lasersvg/svgtree"
	"golang.org/x/image/draw"
)

const (
	DefaultInkscape = "inkscape"
	DefaultConvert  = "/usr/bin/convert"
	DefaultTimeout  = 180 * time.Second
)

var (
	_ svglaser.Rasterizer    = (*Runner)(nil)
	_ svglaser.TextConverter = (*Runner)(nil)
)

// ToolError is returned when an external program is missing,
// fails or exceeds its timeout.
type ToolError struct {
	Tool   string
	Err    error
	Stderr string
}

func (e *ToolError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Tool, e.Err, e.Stderr)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Runner invokes the external programs. Its zero value is not usable,
// see New.
type Runner struct {
	InkscapePath string
	ConvertPath  string
	// Timeout bounds every invocation. Zero means no timeout.
	Timeout time.Duration

	logger *slog.Logger
}

// New returns a runner using the given executables. Empty values
// are replaced by the defaults. A nil logger discards the messages.
func New(inkscapePath, convertPath string, timeout time.Duration, logger *slog.Logger) *Runner {
	if inkscapePath == "" {
		inkscapePath = DefaultInkscape
	}
	if convertPath == "" {
		convertPath = DefaultConvert
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{InkscapePath: inkscapePath, ConvertPath: convertPath, Timeout: timeout, logger: logger}
}

func (r *Runner) run(ctx context.Context, tool string, args ...string) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, tool, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running external tool", "tool", tool, "args", args)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &ToolError{Tool: tool, Err: err, Stderr: string(bytes.TrimSpace(stderr.Bytes()))}
	}
	return stdout.Bytes(), nil
}

var reVersion = regexp.MustCompile(`Inkscape\s+(\d+)\.`)

// parseVersion returns the major version from the output of inkscape -V.
func parseVersion(out []byte) (int, error) {
	m := reVersion.FindSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("unexpected version string %q", bytes.TrimSpace(out))
	}
	return strconv.Atoi(string(m[1]))
}

// Version returns the major version of the installed Inkscape.
func (r *Runner) Version(ctx context.Context) (int, error) {
	out, err := r.run(ctx, r.InkscapePath, "-V")
	if err != nil {
		return 0, err
	}
	major, err := parseVersion(out)
	if err != nil {
		return 0, &ToolError{Tool: r.InkscapePath, Err: err}
	}
	return major, nil
}

func formatDPI(dpi float64) string { return strconv.FormatFloat(dpi, 'f', -1, 64) }

// pngArgs returns the arguments exporting input to a PNG file,
// for the given major version.
func pngArgs(major int, dpi float64, input, output string) []string {
	if major >= 1 {
		return []string{
			"--export-type=png",
			"--export-filename=" + output,
			"--export-dpi=" + formatDPI(dpi),
			"--export-background=white",
			"--export-background-opacity=1",
			input,
		}
	}
	return []string{
		"--without-gui",
		"--export-png=" + output,
		"--export-dpi=" + formatDPI(dpi),
		"--export-background=white",
		"--export-background-opacity=1",
		input,
	}
}

// convertArgs returns the ImageMagick arguments for the same export.
func convertArgs(dpi float64, input, output string) []string {
	return []string{"-density", formatDPI(dpi), "-background", "white", "-flatten", input, output}
}

// textArgs returns the arguments writing a plain SVG copy of input
// with text converted to paths.
func textArgs(major int, input, output string) []string {
	if major >= 1 {
		return []string{
			"--export-text-to-path",
			"--export-plain-svg",
			"--export-filename=" + output,
			input,
		}
	}
	return []string{
		"--without-gui",
		"--export-text-to-path",
		"--export-plain-svg=" + output,
		input,
	}
}

// withFiles writes doc into a temporary directory, calls fn with
// the input and output paths, and returns the content of the output.
func withFiles(doc *svgtree.Document, outName string, fn func(input, output string) error) ([]byte, error) {
	dir, err := os.MkdirTemp("", "lasersvg-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	input, output := filepath.Join(dir, "input.svg"), filepath.Join(dir, outName)
	if err = doc.WriteFile(input); err != nil {
		return nil, err
	}
	if err = fn(input, output); err != nil {
		return nil, err
	}
	return os.ReadFile(output)
}

// Rasterize implements svglaser.Rasterizer. When Inkscape is not found,
// ImageMagick is used instead.
func (r *Runner) Rasterize(ctx context.Context, doc *svgtree.Document, dpi float64) (*image.Gray, error) {
	major, err := r.Version(ctx)
	useConvert := errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
	if err != nil && !useConvert {
		return nil, err
	}
	if useConvert {
		r.logger.Warn("inkscape not found, using ImageMagick", "path", r.ConvertPath)
	}

	data, err := withFiles(doc, "output.png", func(input, output string) error {
		if useConvert {
			_, err := r.run(ctx, r.ConvertPath, convertArgs(dpi, input, output)...)
			return err
		}
		_, err := r.run(ctx, r.InkscapePath, pngArgs(major, dpi, input, output)...)
		return err
	})
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid exported image: %w", err)
	}
	return toGray(img), nil
}

// TextToPath implements svglaser.TextConverter.
func (r *Runner) TextToPath(ctx context.Context, doc *svgtree.Document) (*svgtree.Document, error) {
	major, err := r.Version(ctx)
	if err != nil {
		return nil, err
	}
	data, err := withFiles(doc, "output.svg", func(input, output string) error {
		_, err := r.run(ctx, r.InkscapePath, textArgs(major, input, output)...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return svgtree.Parse(bytes.NewReader(data))
}

// toGray flattens img on a white background, with bounds starting at (0, 0).
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}
