package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug records.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetMapHooks(h)
	SetReductionHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnParseStart(_ context.Context, sourceLen int) {
	h.logger.Debug("parse started", "bytes", sourceLen)
}

func (h *LogHooks) OnParseComplete(_ context.Context, termSize int, d time.Duration, err error) {
	h.done("parse", d, err, "size", termSize)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render", d, err, "formats", formats)
}

func (h *LogHooks) OnMapStart(_ context.Context, termSize int) {
	h.logger.Debug("map started", "size", termSize)
}

func (h *LogHooks) OnMapComplete(_ context.Context, nodes, edges, redexes int, d time.Duration, err error) {
	h.done("map", d, err, "nodes", nodes, "edges", edges, "redexes", redexes)
}

func (h *LogHooks) OnReductionStart(_ context.Context, termSize int) {
	h.logger.Debug("reduction started", "size", termSize)
}

func (h *LogHooks) OnReductionComplete(_ context.Context, vertices, edges int, d time.Duration, err error) {
	h.done("reduction", d, err, "vertices", vertices, "edges", edges)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "size", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "took", d)
}

func (h *LogHooks) done(stage string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "took", d)
	if err != nil {
		h.logger.Warn(stage+" failed", append(kv, "err", err)...)
		return
	}
	h.logger.Debug(stage+" complete", kv...)
}
