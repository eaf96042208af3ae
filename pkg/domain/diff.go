package domain

// FrameDiff represents the changes between two frames.
// It is designed to be serialized to JSON for partial updates on remote panels.
type FrameDiff struct {
	Seq uint64 `json:"seq"`

	// Changes lists rows whose value changed or that appeared.
	Changes []ValueChange `json:"changes,omitempty"`

	// Opened and Closed list windows whose visibility changed.
	Opened []string `json:"opened,omitempty"`
	Closed []string `json:"closed,omitempty"`
}

// ValueChange is one row update. Old is nil for rows that did not exist before.
type ValueChange struct {
	Window string   `json:"window"`
	Label  string   `json:"label"`
	Old    *float64 `json:"old,omitempty"`
	New    float64  `json:"new"`
}

// Diff calculates the difference between oldFrame and newFrame.
// If oldFrame is nil, every row of newFrame is reported (initial load).
// Returns nil when nothing changed.
func Diff(oldFrame, newFrame *Frame) *FrameDiff {
	if newFrame == nil {
		return nil
	}

	diff := &FrameDiff{Seq: newFrame.Seq}

	for _, w := range newFrame.Windows {
		var prev *Window
		if oldFrame != nil {
			if pw, ok := oldFrame.Window(w.Title); ok {
				prev = &pw
			}
		}

		if prev == nil || prev.Open != w.Open {
			if w.Open {
				diff.Opened = append(diff.Opened, w.Title)
			} else if prev != nil {
				diff.Closed = append(diff.Closed, w.Title)
			}
		}

		for _, r := range w.Rows {
			change := ValueChange{Window: w.Title, Label: r.Label, New: r.Value}
			if prev != nil {
				if pr, ok := prev.Row(r.Label); ok {
					if pr.Value == r.Value {
						continue
					}
					old := pr.Value
					change.Old = &old
				}
			}
			diff.Changes = append(diff.Changes, change)
		}
	}

	if len(diff.Changes) == 0 && len(diff.Opened) == 0 && len(diff.Closed) == 0 {
		return nil
	}
	return diff
}
