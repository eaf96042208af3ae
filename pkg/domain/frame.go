package domain

// Row is one rendered control: a label followed by a drag value.
type Row struct {
	Label string  `json:"label"`
	Kind  Kind    `json:"kind"`
	Value float64 `json:"value"`
}

// Window is the last rendering of a titled window.
type Window struct {
	Title string `json:"title"`
	Open  bool   `json:"open"`
	Rows  []Row  `json:"rows"`
}

// Row returns the row with the given label.
func (w *Window) Row(label string) (Row, bool) {
	for _, r := range w.Rows {
		if r.Label == label {
			return r, true
		}
	}
	return Row{}, false
}

// Frame is a snapshot of every window a host has rendered.
type Frame struct {
	Seq     uint64   `json:"seq"`
	Windows []Window `json:"windows"`
}

// Window returns the window with the given title.
func (f *Frame) Window(title string) (Window, bool) {
	for _, w := range f.Windows {
		if w.Title == title {
			return w, true
		}
	}
	return Window{}, false
}

// Variable is the current value of one tweak variable held by a registry.
type Variable struct {
	Key   string  `json:"key"`
	Name  string  `json:"name"`
	Kind  Kind    `json:"kind"`
	Value float64 `json:"value"`
}
