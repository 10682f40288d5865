package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/lasersvg/config"
	"github.com/benoitkugler/lasersvg/svglaser"
)

func writeSVG(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "input.svg")
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg.ImageDPI = 254
	return cfg
}

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

func TestProcess(t *testing.T) {
	input := writeSVG(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10mm" height="10mm" viewBox="0 0 10 10">
		<rect x="0" y="0" width="10" height="10" fill="none" stroke="#ff0000"/>
		<path d="M 2 2 L 8 8" stroke="#0000ff"/>
		<circle cx="5" cy="5" r="1" fill="black"/>
	</svg>`)
	res, err := process(context.Background(), loadConfig(t), input, logger)
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != 10 || res.Height != 10 {
		t.Errorf("unexpected size %v x %v", res.Width, res.Height)
	}

	dir := filepath.Join(t.TempDir(), "out")
	if err = writeOutputs(dir, res, true); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "cut.json"))
	if err != nil {
		t.Fatal(err)
	}
	var cut [][4]float64
	if err = json.Unmarshal(data, &cut); err != nil {
		t.Fatal(err)
	}
	if len(cut) != 4 {
		t.Errorf("expected 4 cut lines, got %v", cut)
	}
	data, err = os.ReadFile(filepath.Join(dir, "engrave.json"))
	if err != nil {
		t.Fatal(err)
	}
	exp := `[[2,8,8,2]]`
	if string(data) != exp {
		t.Errorf("expected %s, got %s", exp, data)
	}
	pdf, err := os.ReadFile(filepath.Join(dir, "preview.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("invalid preview")
	}
	if _, err = os.Stat(filepath.Join(dir, "raster.png")); err != nil {
		t.Error(err)
	}
}

func TestEmptyOutputs(t *testing.T) {
	input := writeSVG(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10mm" height="10mm" viewBox="0 0 10 10"/>`)
	res, err := process(context.Background(), loadConfig(t), input, logger)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err = writeOutputs(dir, res, false); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "cut.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("expected empty array, got %s", data)
	}
	if _, err = os.Stat(filepath.Join(dir, "preview.pdf")); err == nil {
		t.Error("preview should not be written")
	}
}

func TestPixelsPerInch(t *testing.T) {
	input := writeSVG(t, `<svg xmlns="http://www.w3.org/2000/svg" width="96" height="48">
		<path d="M 0 0 L 96 0" stroke="#ff0000"/>
	</svg>`)
	cfg := loadConfig(t)
	if _, err := process(context.Background(), cfg, input, logger); !errors.Is(err, svglaser.ErrUnsupportedSize) {
		t.Fatalf("expected size error, got %v", err)
	}

	cfg.PixelsPerInch = 96
	res, err := process(context.Background(), cfg, input, logger)
	if err != nil {
		t.Fatal(err)
	}
	cut := res.CutLines()
	if len(cut) != 1 {
		t.Fatalf("unexpected cut lines %v", cut)
	}
	if l := cut[0][2] - cut[0][0]; l < 25.39 || l > 25.41 {
		t.Errorf("expected one inch line, got %v", cut[0])
	}
}

func TestHint(t *testing.T) {
	for _, test := range []struct {
		err  error
		want string
	}{
		{&svglaser.TextError{ID: "t"}, "Object to Path"},
		{fmt.Errorf("reading: %w", svglaser.ErrNonUniformScale), "Document Properties"},
		{svglaser.ErrUnsupportedSize, "LASERSVG_PXPI"},
	} {
		if got := hint(test.err); !strings.Contains(got, test.want) {
			t.Errorf("unexpected hint %q for %v", got, test.err)
		}
	}
	if got := hint(errors.New("disk full")); got != "" {
		t.Errorf("unexpected hint %q", got)
	}
}

func TestTextRetry(t *testing.T) {
	if _, err := exec.LookPath("inkscape"); err != nil {
		t.Skip("inkscape not installed")
	}
	input := writeSVG(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20mm" height="10mm" viewBox="0 0 20 10">
		<text x="1" y="8" style="font-size:8px;stroke:#0000ff">A</text>
	</svg>`)
	res, err := process(context.Background(), loadConfig(t), input, logger)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.EngraveLines()) == 0 {
		t.Error("expected engrave lines from the text outlines")
	}
}
