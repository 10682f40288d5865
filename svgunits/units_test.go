package svgunits

import (
	"math"
	"testing"
)

func TestToMM(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"10mm", 10, true},
		{"1in", 25.4, true},
		{" 2 cm ", 20, true},
		{"1.5m", 1500, true},
		{"0.001km", 1000, true},
		{"72pt", 25.4, true},
		{"6pc", 25.4, true},
		{"1ft", 304.8, true},
		{"1yd", 914.4, true},
		{".5in", 12.7, true},
		{"-3mm", -3, true},
		{"1e1mm", 10, true},
		{"100", 0, false},
		{"100px", 0, false},
		{"mm", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ToMM(tt.in)
			if ok != tt.ok {
				t.Fatalf("ToMM(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ToMM(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestToPx(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"100", 100, true},
		{"100px", 100, true},
		{" 12.5 px", 12.5, true},
		{"10mm", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ToPx(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ToPx(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
