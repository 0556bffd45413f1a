package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/termmap/pkg/pipeline"
)

// defaultBase is the output base name when no --output is given.
const defaultBase = "term"

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	output    string
	cacheHit  bool
}

// textFormats are written to stdout when no output path is given.
var textFormats = map[string]bool{pipeline.FormatJSON: true, pipeline.FormatDOT: true}

// toStdout reports whether a single text format without --output is
// requested.
func (p artifactWriteParams) toStdout() bool {
	return len(p.formats) == 1 && p.output == "" && textFormats[p.formats[0]]
}

// writeArtifacts writes one file per format, or the single text artifact to
// stdout.
func writeArtifacts(p artifactWriteParams) error {
	if p.toStdout() {
		_, err := os.Stdout.Write(p.artifacts[p.formats[0]])
		return err
	}

	base := basePath(p.output)
	for _, format := range p.formats {
		path := base + "." + format
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// basePath derives the base output path. If output has a format extension
// (.svg, .pdf, ...), it strips that extension.
func basePath(output string) string {
	if output == "" {
		return defaultBase
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
