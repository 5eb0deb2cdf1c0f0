package collection

import "sync"

// Sequencer orders overlapping fetches. Each fetch takes a ticket with Next;
// only the response to the most recently issued ticket is accepted, so a
// slow response can never overwrite a newer one.
type Sequencer struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

// Next issues a new ticket, superseding all earlier ones.
func (s *Sequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Accept reports whether the response to ticket should be applied and, when
// it should, records it as applied.
func (s *Sequencer) Accept(ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.issued || ticket <= s.applied {
		return false
	}
	s.applied = ticket
	return true
}

// Pending reports whether the latest ticket has not been applied yet.
func (s *Sequencer) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issued > s.applied
}

// Issued is the most recently issued ticket.
func (s *Sequencer) Issued() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issued
}
