package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// statusLine redraws one spinner line on an interactive stderr.
type statusLine struct {
	w       io.Writer
	enabled bool
	spinner int
	lastLen int
}

func newStatusLine(w io.Writer, machineOutput bool) *statusLine {
	enabled := false
	if f, ok := w.(*os.File); ok && !machineOutput {
		stat, err := f.Stat()
		enabled = err == nil && (stat.Mode()&os.ModeCharDevice) != 0
	}
	return &statusLine{w: w, enabled: enabled}
}

func (s *statusLine) Update(format string, args ...any) {
	if !s.enabled {
		return
	}
	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[s.spinner%len(frames)]
	s.spinner++

	status := frame + " " + fmt.Sprintf(format, args...)
	if len(status) > 100 {
		status = status[:97] + "..."
	}
	if s.lastLen > len(status) {
		status = status + strings.Repeat(" ", s.lastLen-len(status))
	}
	s.lastLen = len(status)
	fmt.Fprintf(s.w, "\r%s", status)
}

// Clear erases the line before regular output is printed.
func (s *statusLine) Clear() {
	if !s.enabled || s.lastLen == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.lastLen))
	s.lastLen = 0
}
