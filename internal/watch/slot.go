package watch

import "time"

// Slot owns at most one Trigger. A crawl installs a fresh trigger for its
// root and drops the previous one; triggers are never merged.
type Slot struct {
	opts    Options
	current *Trigger
}

// NewSlot creates an empty slot whose triggers use opts.
func NewSlot(opts Options) *Slot {
	return &Slot{opts: opts}
}

// Replace closes the current trigger, if any, and watches root instead.
func (s *Slot) Replace(root string) error {
	if s.current != nil {
		_ = s.current.Close()
		s.current = nil
	}
	t, err := New(root, s.opts)
	if err != nil {
		return err
	}
	s.current = t
	return nil
}

// Poll forwards to the current trigger.
func (s *Slot) Poll(now time.Time) bool {
	if s.current == nil {
		return false
	}
	return s.current.Poll(now)
}

// Root returns the watched root, or "" when idle.
func (s *Slot) Root() string {
	if s.current == nil {
		return ""
	}
	return s.current.Root()
}

// Close stops the current trigger.
func (s *Slot) Close() error {
	if s.current == nil {
		return nil
	}
	err := s.current.Close()
	s.current = nil
	return err
}
