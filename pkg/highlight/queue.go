package highlight

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// DefaultDelay separates two drain steps.
const DefaultDelay = 250 * time.Millisecond

// ErrClosed is returned for requests made after [Queue.Close].
var ErrClosed = errors.New("highlight queue closed")

// Options configures a [Queue].
type Options struct {
	Delay   time.Duration // Pause after each step; 0 selects DefaultDelay
	Palette []Colour      // Colours cycled per redex; nil selects DefaultPalette
	Manual  bool          // Never start a drain loop; use Step
}

// Queue serializes highlight requests against a Sink.
type Queue struct {
	source  Source
	sink    Sink
	delay   time.Duration
	palette []Colour
	manual  bool

	mu          sync.Mutex
	highlight   string   // Pending highlight, "" for none
	unhighlight []string // Pending unhighlights in request order
	applied     string   // Redex currently shown
	colours     map[string]Colour
	running     bool
	closed      bool
	idle        chan struct{} // Closed when the queue next becomes idle
	done        chan struct{}
}

// New returns a queue resolving elements through source and applying
// changes to sink.
func New(source Source, sink Sink, opts Options) *Queue {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if len(opts.Palette) == 0 {
		opts.Palette = DefaultPalette
	}
	return &Queue{
		source:  source,
		sink:    sink,
		delay:   opts.Delay,
		palette: opts.Palette,
		manual:  opts.Manual,
		colours: make(map[string]Colour),
		done:    make(chan struct{}),
	}
}

// Highlight requests that redex be shown. It replaces any pending
// highlight.
func (q *Queue) Highlight(redex string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.highlight = redex
	q.kick()
	return nil
}

// Unhighlight requests that redex be cleared. A pending highlight of the same
// redex is cancelled; the clear is still queued when redex is shown.
func (q *Queue) Unhighlight(redex string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	if q.highlight == redex {
		q.highlight = ""
		if redex != q.applied {
			return nil
		}
	}
	if !slices.Contains(q.unhighlight, redex) {
		q.unhighlight = append(q.unhighlight, redex)
	}
	q.kick()
	return nil
}

// Applied returns the redex currently shown, or "".
func (q *Queue) Applied() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.applied
}

// Pending reports whether any request awaits a step.
func (q *Queue) Pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending()
}

// Colour returns the colour assigned to redex, assigning the next palette
// colour on first use.
func (q *Queue) Colour(redex string) Colour {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.colour(redex)
}

// Step performs one drain step: the oldest pending unhighlight, then the
// pending highlight. It reports whether requests remain.
func (q *Queue) Step() bool {
	q.mu.Lock()
	var events []Event
	if len(q.unhighlight) > 0 {
		redex := q.unhighlight[0]
		q.unhighlight = q.unhighlight[1:]
		if redex == q.applied {
			events = append(events, q.event(redex, false))
			q.applied = ""
		}
	}
	if redex := q.highlight; redex != "" {
		q.highlight = ""
		if redex != q.applied {
			if q.applied != "" {
				events = append(events, q.event(q.applied, false))
			}
			events = append(events, q.event(redex, true))
			q.applied = redex
		}
	}
	more := q.pending()
	q.mu.Unlock()

	for _, e := range events {
		q.sink.Apply(e)
	}
	return more
}

// Wait blocks until no request is pending and no step is running.
func (q *Queue) Wait(ctx context.Context) error {
	for {
		q.mu.Lock()
		if !q.running && (!q.pending() || q.manual || q.closed) {
			q.mu.Unlock()
			return nil
		}
		if q.idle == nil {
			q.idle = make(chan struct{})
		}
		idle := q.idle
		q.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close drops pending requests and stops the drain loop. The applied
// highlight is left in place.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.highlight = ""
	q.unhighlight = nil
	close(q.done)
	q.mu.Unlock()

	_ = q.Wait(context.Background())
}

// kick starts the drain loop if the queue is idle. q.mu must be held.
func (q *Queue) kick() {
	if q.manual || q.running || !q.pending() {
		return
	}
	q.running = true
	go q.drain()
}

func (q *Queue) drain() {
	for {
		q.Step()
		select {
		case <-time.After(q.delay):
		case <-q.done:
		}

		q.mu.Lock()
		if q.closed || !q.pending() {
			q.running = false
			if q.idle != nil {
				close(q.idle)
				q.idle = nil
			}
			q.mu.Unlock()
			return
		}
		q.mu.Unlock()
	}
}

func (q *Queue) pending() bool {
	return q.highlight != "" || len(q.unhighlight) > 0
}

func (q *Queue) event(redex string, active bool) Event {
	var elements []string
	if q.source != nil {
		elements = q.source.ElementsOf(redex)
	}
	return Event{Redex: redex, Elements: elements, Colour: q.colour(redex), Active: active}
}

func (q *Queue) colour(redex string) Colour {
	c, ok := q.colours[redex]
	if !ok {
		c = q.palette[len(q.colours)%len(q.palette)]
		q.colours[redex] = c
	}
	return c
}
