package grid

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Placement is where a floating panel renders relative to its trigger.
type Placement string

const (
	PlacementAuto   Placement = "auto"
	PlacementTop    Placement = "top"
	PlacementBottom Placement = "bottom"
)

// ParsePlacement accepts auto, top or bottom. An empty value means auto.
func ParsePlacement(s string) (Placement, error) {
	switch p := Placement(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PlacementAuto, nil
	case PlacementAuto, PlacementTop, PlacementBottom:
		return p, nil
	default:
		return "", fmt.Errorf("invalid placement %q, must be one of [auto top bottom]", s)
	}
}

// Rect is a bounding rectangle in viewport coordinates, y growing downwards.
type Rect struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// Contains reports whether the point lies inside r, edges included.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// PanelMetrics estimates the height of a panel listing items.
type PanelMetrics struct {
	MaxHeight int
	RowHeight int
	Padding   int
}

// DefaultPanelMetrics are pixel metrics: 36px rows, 8px padding, capped at
// 300px.
var DefaultPanelMetrics = PanelMetrics{MaxHeight: 300, RowHeight: 36, Padding: 8}

// CellPanelMetrics are terminal metrics where one row is one cell high and
// the border takes two.
var CellPanelMetrics = PanelMetrics{MaxHeight: 12, RowHeight: 1, Padding: 2}

// Needed is the estimated panel height for itemCount rows.
func (m PanelMetrics) Needed(itemCount int) int {
	return min(m.MaxHeight, max(itemCount, 0)*m.RowHeight+m.Padding)
}

// ResolvePlacement decides where a panel renders. Pinned placements are used
// verbatim. Auto renders below when the estimated panel fits below the
// trigger or when there is at least as much room below as above.
func ResolvePlacement(requested Placement, trigger Rect, viewportHeight, itemCount int, m PanelMetrics) Placement {
	switch requested {
	case PlacementTop, PlacementBottom:
		return requested
	}
	spaceBelow := viewportHeight - trigger.Bottom
	spaceAbove := trigger.Top
	needed := m.Needed(itemCount)
	if spaceBelow >= needed || spaceBelow >= spaceAbove {
		return PlacementBottom
	}
	return PlacementTop
}

// EventKind identifies the viewport events an open overlay reacts to.
type EventKind int

const (
	EventResize EventKind = iota
	EventScroll
	EventMouseDown
)

func (k EventKind) String() string {
	switch k {
	case EventResize:
		return "resize"
	case EventScroll:
		return "scroll"
	case EventMouseDown:
		return "mousedown"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a viewport event. Origin names the element the event was raised
// on; the empty origin is the viewport itself.
type Event struct {
	Kind   EventKind
	Origin string
	X      int
	Y      int
}

// Listener handles an event.
type Listener func(Event)

// EventSource registers listeners. With capture set a listener receives
// events raised on any element, otherwise only events raised on the
// viewport. The returned func releases the registration and is safe to call
// more than once.
type EventSource interface {
	Listen(kind EventKind, capture bool, fn Listener) (release func())
}

type registration struct {
	id      int
	kind    EventKind
	capture bool
	fn      Listener
}

// Dispatcher is an in-process EventSource.
type Dispatcher struct {
	mu        sync.Mutex
	nextID    int
	listeners []registration
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Listen(kind EventKind, capture bool, fn Listener) func() {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.listeners = append(d.listeners, registration{id: id, kind: kind, capture: capture, fn: fn})
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.listeners = slices.DeleteFunc(d.listeners, func(r registration) bool { return r.id == id })
		})
	}
}

// Dispatch delivers e to the listeners registered for its kind, capturing
// listeners first. Listeners released by an earlier listener during the same
// dispatch are skipped.
func (d *Dispatcher) Dispatch(e Event) {
	d.mu.Lock()
	var targets []registration
	for _, capture := range []bool{true, false} {
		for _, r := range d.listeners {
			if r.kind != e.Kind || r.capture != capture {
				continue
			}
			if !capture && e.Origin != "" {
				continue
			}
			targets = append(targets, r)
		}
	}
	d.mu.Unlock()

	for _, r := range targets {
		if !d.registered(r.id) {
			continue
		}
		r.fn(e)
	}
}

// Count returns the number of live registrations.
func (d *Dispatcher) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

func (d *Dispatcher) registered(id int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.ContainsFunc(d.listeners, func(r registration) bool { return r.id == id })
}

// Anchor measures the trigger of an overlay and hit-tests events against the
// trigger and its panel.
type Anchor interface {
	TriggerRect() Rect
	ViewportHeight() int
	Contains(e Event) bool
}

// OverlayState is a snapshot of an overlay.
type OverlayState struct {
	Open      bool      `json:"open"`
	Requested Placement `json:"requestedPlacement"`
	Resolved  Placement `json:"resolvedPlacement"`
}

// Overlay is the open/close state machine of a floating panel. While open it
// holds resize, scroll and mousedown listeners and recomputes its placement
// on every resize and scroll; the listeners are released on every close.
type Overlay struct {
	events    EventSource
	anchor    Anchor
	metrics   PanelMetrics
	requested Placement
	resolved  Placement
	itemCount int
	open      bool
	releases  []func()
	onClose   func()
}

// OverlayOption configures an Overlay.
type OverlayOption func(*Overlay)

// WithPlacement pins or frees the placement.
func WithPlacement(p Placement) OverlayOption {
	return func(o *Overlay) {
		if p == "" {
			p = PlacementAuto
		}
		o.requested = p
	}
}

// WithPanelMetrics sets the panel height estimate.
func WithPanelMetrics(m PanelMetrics) OverlayOption {
	return func(o *Overlay) { o.metrics = m }
}

// WithItemCount sets the number of rows the panel lists.
func WithItemCount(n int) OverlayOption {
	return func(o *Overlay) { o.itemCount = n }
}

// WithOnClose registers a callback run after every close.
func WithOnClose(fn func()) OverlayOption {
	return func(o *Overlay) { o.onClose = fn }
}

// NewOverlay returns a closed overlay.
func NewOverlay(events EventSource, anchor Anchor, opts ...OverlayOption) *Overlay {
	o := &Overlay{
		events:    events,
		anchor:    anchor,
		metrics:   DefaultPanelMetrics,
		requested: PlacementAuto,
		resolved:  PlacementBottom,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// IsOpen reports whether the panel is shown.
func (o *Overlay) IsOpen() bool { return o.open }

// Placement is the resolved placement.
func (o *Overlay) Placement() Placement { return o.resolved }

// State returns a snapshot of the overlay.
func (o *Overlay) State() OverlayState {
	return OverlayState{Open: o.open, Requested: o.requested, Resolved: o.resolved}
}

// SetItemCount updates the number of listed rows and re-resolves an open
// panel.
func (o *Overlay) SetItemCount(n int) {
	o.itemCount = n
	if o.open {
		o.reposition()
	}
}

// Toggle handles a click on the trigger.
func (o *Overlay) Toggle() {
	if o.open {
		o.Close()
		return
	}
	o.Open()
}

// Open shows the panel, resolves its placement and starts listening.
func (o *Overlay) Open() {
	if o.open {
		return
	}
	o.open = true
	o.reposition()
	if o.events == nil {
		return
	}
	o.releases = append(o.releases,
		o.events.Listen(EventResize, false, func(Event) { o.reposition() }),
		o.events.Listen(EventScroll, true, func(Event) { o.reposition() }),
		o.events.Listen(EventMouseDown, true, o.handleMouseDown),
	)
}

// Close hides the panel and releases every listener.
func (o *Overlay) Close() {
	if !o.open {
		return
	}
	o.open = false
	o.release()
	if o.onClose != nil {
		o.onClose()
	}
}

// Unmount closes the panel and resets it to its initial state.
func (o *Overlay) Unmount() {
	o.Close()
	o.release()
	o.resolved = PlacementBottom
}

func (o *Overlay) release() {
	for i := len(o.releases) - 1; i >= 0; i-- {
		o.releases[i]()
	}
	o.releases = nil
}

func (o *Overlay) handleMouseDown(e Event) {
	if o.anchor != nil && o.anchor.Contains(e) {
		return
	}
	o.Close()
}

func (o *Overlay) reposition() {
	switch {
	case o.requested == PlacementTop || o.requested == PlacementBottom:
		o.resolved = o.requested
	case o.anchor == nil:
		o.resolved = PlacementBottom
	default:
		o.resolved = ResolvePlacement(o.requested, o.anchor.TriggerRect(), o.anchor.ViewportHeight(),
			o.itemCount, o.metrics)
	}
}
