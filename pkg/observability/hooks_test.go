package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnParseStart(ctx, 12)
	p.OnParseComplete(ctx, 5, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Map and reduction hooks
	m := NoopMapHooks{}
	m.OnMapStart(ctx, 5)
	m.OnMapComplete(ctx, 9, 8, 1, time.Second, nil)
	r := NoopReductionHooks{}
	r.OnReductionStart(ctx, 5)
	r.OnReductionComplete(ctx, 2, 1, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "reduction")
	c.OnCacheMiss(ctx, "reduction")
	c.OnCacheSet(ctx, "reduction", 2)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/api/map")
	h.OnResponse(ctx, "POST", "/api/map", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Map().(NoopMapHooks); !ok {
		t.Error("Map() should return NoopMapHooks by default")
	}
	if _, ok := Reduction().(NoopReductionHooks); !ok {
		t.Error("Reduction() should return NoopReductionHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customReduction := &testReductionHooks{}
	SetReductionHooks(customReduction)
	if Reduction() != customReduction {
		t.Error("SetReductionHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Reduction().(NoopReductionHooks); !ok {
		t.Error("Reset() should restore NoopReductionHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testReductionHooks{}
	SetReductionHooks(custom)
	SetReductionHooks(nil)

	if Reduction() != custom {
		t.Error("SetReductionHooks(nil) should be ignored")
	}

	Reset()
}

func TestLogHooks(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	NewLogHooks(logger).Install()

	ctx := context.Background()
	Reduction().OnReductionComplete(ctx, 2, 1, time.Millisecond, nil)
	Map().OnMapComplete(ctx, 9, 8, 1, time.Millisecond, errors.New("boom"))

	out := buf.String()
	if !strings.Contains(out, "reduction complete") {
		t.Errorf("missing reduction record in %q", out)
	}
	if !strings.Contains(out, "map failed") || !strings.Contains(out, "boom") {
		t.Errorf("missing map failure in %q", out)
	}
}

func TestHooksConcurrentAccess(t *testing.T) {
	defer Reset()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetCacheHooks(&testCacheHooks{})
		}()
		go func() {
			defer wg.Done()
			Cache().OnCacheHit(context.Background(), "reduction")
		}()
	}
	wg.Wait()

	if _, ok := Cache().(*testCacheHooks); !ok {
		t.Errorf("Cache() = %T, want *testCacheHooks", Cache())
	}
}

type testReductionHooks struct{ NoopReductionHooks }
type testCacheHooks struct{ NoopCacheHooks }
