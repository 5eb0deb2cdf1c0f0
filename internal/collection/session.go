package collection

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/leadops/leadctl/internal/grid"
	"github.com/leadops/leadctl/internal/log"
)

// Status is the load status of a session.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Request is an issued fetch.
type Request struct {
	Ticket uint64
	Params Params
}

// Response is the outcome of a Request.
type Response struct {
	Ticket uint64
	Result Result
	Err    error
}

// Session holds the view state and the loaded records of one table. It is
// not safe for concurrent use: the owner mutates it from a single goroutine
// and only Fetch may run elsewhere.
//
// The session is in server mode once a response carried pagination metadata.
// In server mode page, page size, search and filter changes need a new
// fetch; in client mode the full record set is held and they are applied
// locally.
type Session struct {
	table   *grid.Table[Record]
	fetcher Fetcher
	logger  *slog.Logger
	seq     Sequencer

	state   grid.State
	records []Record
	server  *grid.ServerPage
	loaded  bool
	err     error
}

// NewSession returns an idle session. Nothing is fetched until Begin.
func NewSession(table *grid.Table[Record], fetcher Fetcher, state grid.State, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if state.Selection == nil {
		state = grid.Reduce(state, grid.ClearSelection{}, nil)
	}
	return &Session{
		table:   table,
		fetcher: fetcher,
		logger:  logger,
		state:   state,
	}
}

func (s *Session) Table() *grid.Table[Record] { return s.table }

func (s *Session) State() grid.State { return s.state }

// ServerMode reports whether the server paginates the records.
func (s *Session) ServerMode() bool { return s.server != nil }

// Loaded reports whether a response was applied successfully at least once.
func (s *Session) Loaded() bool { return s.loaded }

// Err is the error of the last applied response.
func (s *Session) Err() error { return s.err }

// Records are the records held: the full set in client mode, the current
// page in server mode.
func (s *Session) Records() []Record { return s.records }

// Status reports the load status.
func (s *Session) Status() Status {
	switch {
	case s.seq.Pending():
		return StatusLoading
	case s.err != nil:
		return StatusFailed
	case !s.loaded:
		return StatusIdle
	case s.Frame().Empty():
		return StatusEmpty
	default:
		return StatusReady
	}
}

// Frame derives the visible page.
func (s *Session) Frame() grid.Frame[Record] {
	return s.table.Derive(s.state, s.records, s.server)
}

// Options lists the distinct values of a column among the held records.
func (s *Session) Options(key string) []string {
	return s.table.Options(key, s.records)
}

// Dispatch applies a to the view state and reports whether the new state
// must be fetched.
func (s *Session) Dispatch(a grid.Action) bool {
	prev := s.state
	s.state = s.table.Reduce(prev, a)
	if !grid.NeedsFetch(prev, s.state) {
		return false
	}
	return s.server != nil || !s.loaded
}

// Begin issues a fetch for the current state, superseding any fetch in
// flight.
func (s *Session) Begin() Request {
	return Request{Ticket: s.seq.Next(), Params: ParamsFromState(s.state)}
}

// Fetch performs req. It reads no session state and may run on any
// goroutine.
func (s *Session) Fetch(ctx context.Context, req Request) Response {
	ctx = log.WithHTTPLogContext(ctx, log.HTTPLogContext{Ticket: strconv.FormatUint(req.Ticket, 10)})
	res, err := s.fetcher.Fetch(ctx, req.Params)
	return Response{Ticket: req.Ticket, Result: res, Err: err}
}

// Apply installs resp unless a newer fetch was issued after it. It reports
// whether resp was applied and whether the state changed in a way that
// needs another fetch, which happens when a server clamps the page.
func (s *Session) Apply(resp Response) (applied, refetch bool) {
	if !s.seq.Accept(resp.Ticket) {
		s.logger.Debug("discarding stale response",
			slog.Uint64("ticket", resp.Ticket),
			slog.Uint64("latest", s.seq.Issued()))
		return false, false
	}
	if resp.Err != nil {
		s.err = resp.Err
		return true, false
	}

	s.err = nil
	s.loaded = true
	s.records = resp.Result.Items
	s.server = resp.Result.Pagination.ServerPage()

	p := s.Frame().Pagination
	if !p.Clamped() {
		return true, false
	}
	prev := s.state
	s.state = s.table.Reduce(prev, grid.ClampPage{TotalPages: p.TotalPages})
	s.logger.Debug("clamped page",
		slog.Int("requested", prev.Page),
		slog.Int("page", s.state.Page))
	return true, s.server != nil && grid.NeedsFetch(prev, s.state)
}

// Load fetches synchronously until the state settles.
func (s *Session) Load(ctx context.Context) error {
	for range 3 {
		_, refetch := s.Apply(s.Fetch(ctx, s.Begin()))
		if s.err != nil {
			return s.err
		}
		if !refetch {
			return nil
		}
	}
	return nil
}
