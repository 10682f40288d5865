package config

import (
	"log/slog"
	"reflect"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Flatness != 0.01 || cfg.ImageDPI != 1000 || !cfg.Rasterize || cfg.TextToPaths {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Renderer != RendererBuiltin || cfg.ToolTimeout != 180*time.Second || cfg.ConvertPath != "/usr/bin/convert" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if l, _ := cfg.Level(); l != slog.LevelInfo {
		t.Errorf("unexpected level %v", l)
	}
}

func TestEnv(t *testing.T) {
	t.Setenv("LASERSVG_FLATNESS", "0.1")
	t.Setenv("LASERSVG_IMAGE_DPI", "300")
	t.Setenv("LASERSVG_RASTERIZE", "false")
	t.Setenv("LASERSVG_LAYERS", "cut,Layer_2, ")
	t.Setenv("LASERSVG_RENDERER", "inkscape")
	t.Setenv("LASERSVG_TOOL_TIMEOUT", "5s")
	t.Setenv("LASERSVG_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	rc := cfg.ReaderConfig()
	if rc.Flatness != 0.1 || rc.ImageDPI != 300 || rc.Rasterize {
		t.Errorf("unexpected reader config %+v", rc)
	}
	if !reflect.DeepEqual(rc.Layers, []string{"cut", "Layer_2"}) {
		t.Errorf("unexpected layers %v", rc.Layers)
	}
	if r := cfg.Runner(nil); r.Timeout != 5*time.Second || r.InkscapePath != "inkscape" {
		t.Errorf("unexpected runner %+v", r)
	}
	if l, _ := cfg.Level(); l != slog.LevelDebug {
		t.Errorf("unexpected level %v", l)
	}
}

func TestInvalid(t *testing.T) {
	for _, test := range []struct{ key, value string }{
		{"LASERSVG_RENDERER", "cairo"},
		{"LASERSVG_FLATNESS", "0"},
		{"LASERSVG_IMAGE_DPI", "-3"},
		{"LASERSVG_PXPI", "-96"},
		{"LASERSVG_LOG_LEVEL", "verbose"},
		{"LASERSVG_TOOL_TIMEOUT", "soon"},
	} {
		t.Run(test.key, func(t *testing.T) {
			t.Setenv(test.key, test.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", test.key, test.value)
			}
		})
	}
}
