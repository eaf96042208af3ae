package memory

import (
	"fmt"
	"math"
	"sync"

	"github.com/aretw0/tweak/pkg/domain"
	"github.com/aretw0/tweak/pkg/ports"
)

// Context implements ports.Context in memory.
// It records what every window rendered, and replays scripted drags into the
// matching controls on the next frame. Safe for concurrent use.
type Context struct {
	mu        sync.Mutex
	seq       uint64
	windows   map[string]*domain.Window
	order     []string
	drawn     map[string]bool
	closed    map[string]bool
	pending   map[target]float64
	last      *domain.Frame
	listeners map[int]func(*domain.FrameDiff)
	nextID    int
}

type target struct {
	title string
	label string
}

var _ ports.Context = (*Context)(nil)

// New creates an empty in-memory host.
func New() *Context {
	return &Context{
		windows:   make(map[string]*domain.Window),
		drawn:     make(map[string]bool),
		closed:    make(map[string]bool),
		pending:   make(map[target]float64),
		listeners: make(map[int]func(*domain.FrameDiff)),
	}
}

// Window records the rows body renders. Windows are deduplicated by title:
// rendering the same title twice in a frame merges the rows.
// body is skipped while the window is closed.
func (c *Context) Window(title string, body func(ports.UI)) {
	c.mu.Lock()
	open := !c.closed[title]
	c.mu.Unlock()

	rec := &recorder{host: c, title: title}
	if open {
		body(rec)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.windows[title]
	if !ok {
		w = &domain.Window{Title: title}
		c.windows[title] = w
		c.order = append(c.order, title)
	}
	w.Open = open
	if !open {
		return
	}
	if !c.drawn[title] {
		w.Rows = nil
		c.drawn[title] = true
	}
	for _, row := range rec.rows {
		w.Rows = mergeRow(w.Rows, row)
	}
}

func mergeRow(rows []domain.Row, row domain.Row) []domain.Row {
	for i := range rows {
		if rows[i].Label == row.Label {
			rows[i] = row
			return rows
		}
	}
	return append(rows, row)
}

// Drag queues a value for the control labelled label in window title.
// It is applied the next time that control is rendered.
func (c *Context) Drag(title, label string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("drag %s/%s: value must be finite", title, label)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.windows[title]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrWindowNotFound, title)
	}
	if _, ok := w.Row(label); !ok {
		return fmt.Errorf("%w: %q in window %q", domain.ErrLabelNotFound, label, title)
	}
	c.pending[target{title: title, label: label}] = value
	return nil
}

// Pending returns the number of queued drags not yet applied.
func (c *Context) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Context) take(title, label string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := target{title: title, label: label}
	v, ok := c.pending[t]
	if ok {
		delete(c.pending, t)
	}
	return v, ok
}

// SetOpen opens or closes a window. A closed window keeps its last rows but
// its body does not run, so its controls cannot edit anything.
func (c *Context) SetOpen(title string, open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if open {
		delete(c.closed, title)
	} else {
		c.closed[title] = true
	}
}

// Frame returns a snapshot of every window rendered so far.
func (c *Context) Frame() domain.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameLocked()
}

func (c *Context) frameLocked() domain.Frame {
	f := domain.Frame{Seq: c.seq, Windows: make([]domain.Window, 0, len(c.order))}
	for _, title := range c.order {
		w := *c.windows[title]
		w.Rows = append([]domain.Row(nil), w.Rows...)
		f.Windows = append(f.Windows, w)
	}
	return f
}

// EndFrame closes the current frame and returns what changed since the
// previous one (nil if nothing did). Listeners are notified with non-nil diffs.
func (c *Context) EndFrame() *domain.FrameDiff {
	c.mu.Lock()
	c.seq++
	cur := c.frameLocked()
	diff := domain.Diff(c.last, &cur)
	c.last = &cur
	c.drawn = make(map[string]bool)

	listeners := make([]func(*domain.FrameDiff), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	if diff != nil {
		for _, fn := range listeners {
			fn(diff)
		}
	}
	return diff
}

// Listen registers fn to receive frame diffs. The returned func unregisters it.
func (c *Context) Listen(fn func(*domain.FrameDiff)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// recorder implements ports.UI for one window or one horizontal row.
type recorder struct {
	host  *Context
	title string
	label string
	rows  []domain.Row
}

func (r *recorder) Horizontal(fn func(ports.UI)) {
	row := &recorder{host: r.host, title: r.title}
	fn(row)
	r.rows = append(r.rows, row.rows...)
}

func (r *recorder) Label(text string) {
	r.label = text
}

func (r *recorder) DragValue(v ports.Value) bool {
	label := r.label
	if label == "" {
		label = fmt.Sprintf("#%d", len(r.rows))
	}
	r.label = ""

	old := v.Float64()
	if x, ok := r.host.take(r.title, label); ok {
		v.SetFloat64(x)
	}
	now := v.Float64()

	r.rows = append(r.rows, domain.Row{Label: label, Kind: v.Kind(), Value: now})
	return now != old
}
