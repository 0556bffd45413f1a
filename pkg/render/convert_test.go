package render

import (
	"context"
	"errors"
	"testing"
)

func TestMissingConverter(t *testing.T) {
	orig := Converter
	Converter = "termmap-no-such-converter"
	defer func() { Converter = orig }()

	if Available() {
		t.Fatal("Available() = true for a missing binary")
	}
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"/>`)
	if _, err := ToPDF(context.Background(), svg); !errors.Is(err, ErrNoConverter) {
		t.Errorf("ToPDF error = %v, want ErrNoConverter", err)
	}
	if _, err := ToPNG(context.Background(), svg, 2); !errors.Is(err, ErrNoConverter) {
		t.Errorf("ToPNG error = %v, want ErrNoConverter", err)
	}
}

func TestToPNG(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4"><rect width="4" height="4"/></svg>`)
	png, err := ToPNG(context.Background(), svg, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("output is not a PNG: % x", png[:min(8, len(png))])
	}
}
