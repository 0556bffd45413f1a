package pipeline

import (
	"strings"
	"testing"

	terrors "github.com/matzehuels/termmap/pkg/errors"
	"github.com/matzehuels/termmap/pkg/lambda"
	"github.com/matzehuels/termmap/pkg/reduction"
	"github.com/matzehuels/termmap/pkg/termmap"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !terrors.Is(err, terrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, terrors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateVizType(t *testing.T) {
	tests := []struct {
		vizType string
		wantErr bool
	}{
		{"map", false},
		{"reduction", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateVizType(tt.vizType)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVizType(%q) error = %v, wantErr %v", tt.vizType, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateForParse(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"term", Options{Source: `\x. x`}, false},
		{"free names", Options{Source: "x y", Free: []string{"x", "y"}}, false},
		{"empty source", Options{Source: "  "}, true},
		{"oversized source", Options{Source: strings.Repeat("x ", terrors.MaxTermLength)}, true},
		{"bad free name", Options{Source: "x", Free: []string{"1x"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForParse()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForParse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.opts.Logger == nil {
				t.Error("logger not defaulted")
			}
		})
	}
}

func TestSetBuildDefaults(t *testing.T) {
	opts := Options{MaxLevel: -3}
	opts.SetBuildDefaults()

	if opts.VizType != DefaultVizType {
		t.Errorf("VizType should be %s, got %s", DefaultVizType, opts.VizType)
	}
	if opts.DistanceX != termmap.DefaultDistanceX || opts.DistanceY != termmap.DefaultDistanceY {
		t.Errorf("distances = %v/%v", opts.DistanceX, opts.DistanceY)
	}
	if opts.MaxVertices != reduction.DefaultMaxVertices || opts.MaxEdges != reduction.DefaultMaxEdges {
		t.Errorf("budgets = %d/%d", opts.MaxVertices, opts.MaxEdges)
	}
	if opts.MaxLevel != 0 {
		t.Errorf("MaxLevel should clamp to 0, got %d", opts.MaxLevel)
	}
	if opts.MaxPaths != reduction.DefaultMaxPaths {
		t.Errorf("MaxPaths = %d", opts.MaxPaths)
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats should be [json], got %v", opts.Formats)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Source: `(\x. x) y`, VizType: VizTypeReduction}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	before := opts.MaxVertices
	opts.Formats = append(opts.Formats, FormatDOT)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.MaxVertices != before || len(opts.Formats) != 2 {
		t.Error("second call changed options")
	}
}

func TestOptionsRejectsUnknownVizType(t *testing.T) {
	opts := Options{Source: "x", VizType: "tower"}
	if err := opts.ValidateAndSetDefaults(); !terrors.Is(err, terrors.ErrCodeInvalidVizType) {
		t.Errorf("err = %v, want INVALID_VIZ_TYPE", err)
	}
}

func TestOptionsIsReduction(t *testing.T) {
	opts := Options{}
	if opts.IsReduction() {
		t.Error("empty VizType should not be reduction")
	}
	opts.VizType = VizTypeReduction
	if !opts.IsReduction() {
		t.Error("reduction VizType should be reduction")
	}
}

func TestLayoutKeyDependsOnOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := Options{Source: `\x. x`}
	opts.SetBuildDefaults()
	term, lctx, err := Parse(t.Context(), opts)
	if err != nil {
		t.Fatal(err)
	}

	mapKey := opts.LayoutKey(r.Keyer, term, lctx)
	wide := opts
	wide.DistanceX = 60
	if wide.LayoutKey(r.Keyer, term, lctx) == mapKey {
		t.Error("distance should change the map key")
	}
	red := opts
	red.VizType = VizTypeReduction
	if red.LayoutKey(r.Keyer, term, lctx) == mapKey {
		t.Error("viz type should change the key")
	}
	renamed := lambda.L("q", lambda.V(0))
	if opts.LayoutKey(r.Keyer, renamed, lctx) == mapKey {
		t.Error("binder labels should change the key")
	}
	if opts.LayoutKey(r.Keyer, term, lambda.NewContext("z")) == mapKey {
		t.Error("free variable names should change the key")
	}
	if a, b := opts.ArtifactKeyOpts("svg"), (&Options{Highlight: []string{"beta-0"}}).ArtifactKeyOpts("svg"); a == b {
		t.Error("highlight should change the artifact key")
	}
}
