package timer

import "io"

// BellNotifier rings the terminal bell on break transitions. Alerts are
// best effort; a write failure is ignored.
type BellNotifier struct {
	Out     io.Writer
	Enabled bool
}

func (n BellNotifier) ring() {
	if !n.Enabled || n.Out == nil {
		return
	}
	_, _ = n.Out.Write([]byte{'\a'})
}

func (n BellNotifier) BreakStarted() { n.ring() }
func (n BellNotifier) BreakEnded()   { n.ring() }
