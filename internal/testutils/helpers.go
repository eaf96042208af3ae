// Package testutils provides fake hosts for tests that drive the registry
// without the memory adapter.
package testutils

import (
	"github.com/aretw0/tweak/pkg/domain"
	"github.com/aretw0/tweak/pkg/ports"
	"github.com/stretchr/testify/mock"
)

// Incrementer is a host whose every control adds Step (1 if zero) to its value.
type Incrementer struct {
	Step float64
}

var (
	_ ports.Context = Incrementer{}
	_ ports.UI      = Incrementer{}
)

func (h Incrementer) Window(_ string, body func(ports.UI)) { body(h) }
func (h Incrementer) Horizontal(fn func(ports.UI))         { fn(h) }
func (Incrementer) Label(string)                           {}

func (h Incrementer) DragValue(v ports.Value) bool {
	step := h.Step
	if step == 0 {
		step = 1
	}
	v.SetFloat64(v.Float64() + step)
	return true
}

// Gate blocks inside Window until Release is closed, after closing Entered.
// It renders like an Incrementer. A Gate serves one window call.
type Gate struct {
	Entered chan struct{}
	Release chan struct{}
}

// NewGate creates a Gate with fresh channels.
func NewGate() Gate {
	return Gate{Entered: make(chan struct{}), Release: make(chan struct{})}
}

func (g Gate) Window(title string, body func(ports.UI)) {
	close(g.Entered)
	<-g.Release
	Incrementer{}.Window(title, body)
}

// Panicky panics with Value as soon as a window opens.
type Panicky struct {
	Value any
}

func (p Panicky) Window(string, func(ports.UI)) { panic(p.Value) }

// MockContext records the titles of the windows it opens and renders their
// bodies into UI.
type MockContext struct {
	mock.Mock
	UI *MockUI
}

func (m *MockContext) Window(title string, body func(ports.UI)) {
	m.Called(title)
	if m.UI != nil {
		body(m.UI)
	}
}

// MockUI records widget calls. DragValue is matched on (kind, current value)
// and returns (changed bool, new value float64); the new value is stored
// only when changed is true.
type MockUI struct {
	mock.Mock
}

func (m *MockUI) Horizontal(fn func(ports.UI)) {
	m.Called()
	fn(m)
}

func (m *MockUI) Label(text string) {
	m.Called(text)
}

func (m *MockUI) DragValue(v ports.Value) bool {
	args := m.Called(v.Kind(), v.Float64())
	if !args.Bool(0) {
		return false
	}
	v.SetFloat64(args.Get(1).(float64))
	return true
}

// ExpectRow sets up the calls of one row whose control is left untouched.
func (m *MockUI) ExpectRow(label string, kind domain.Kind, value float64) {
	m.On("Horizontal").Once()
	m.On("Label", label).Once()
	m.On("DragValue", kind, value).Return(false, value).Once()
}
