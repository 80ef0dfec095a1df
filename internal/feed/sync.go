package feed

import "time"

// Syncer gates the periodic refresh. Each Arm starts a new generation; ticks
// carry the generation they were scheduled under and Accept drops any tick
// that is not from the live one, so at most one refresh chain is ever active.
type Syncer struct {
	interval time.Duration
	gen      uint64
	armed    bool
}

func NewSyncer(interval time.Duration) *Syncer {
	return &Syncer{interval: interval}
}

func (s *Syncer) Interval() time.Duration {
	return s.interval
}

// Arm cancels any previous chain and returns the generation for the new one.
func (s *Syncer) Arm() uint64 {
	s.gen++
	s.armed = true
	return s.gen
}

func (s *Syncer) Disarm() {
	if !s.armed {
		return
	}
	s.gen++
	s.armed = false
}

func (s *Syncer) Armed() bool {
	return s.armed
}

func (s *Syncer) Accept(gen uint64) bool {
	return s.armed && gen == s.gen
}
