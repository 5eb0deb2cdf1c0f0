package grid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeAnchor struct {
	rect     Rect
	viewport int
	inside   func(Event) bool
}

func (a *fakeAnchor) TriggerRect() Rect     { return a.rect }
func (a *fakeAnchor) ViewportHeight() int   { return a.viewport }
func (a *fakeAnchor) Contains(e Event) bool { return a.inside != nil && a.inside(e) }

func TestParsePlacement(t *testing.T) {
	for in, want := range map[string]Placement{"": PlacementAuto, "TOP": PlacementTop, "bottom": PlacementBottom} {
		got, err := ParsePlacement(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParsePlacement("left")
	require.Error(t, err)
}

func TestResolvePlacement(t *testing.T) {
	const vh = 800
	tests := []struct {
		name      string
		requested Placement
		trigger   Rect
		items     int
		want      Placement
	}{
		{
			name:      "flips up near the bottom edge",
			requested: PlacementAuto,
			trigger:   Rect{Top: vh - 80, Bottom: vh - 50},
			items:     10,
			want:      PlacementTop,
		},
		{
			name:      "fits below",
			requested: PlacementAuto,
			trigger:   Rect{Top: 100, Bottom: 130},
			items:     10,
			want:      PlacementBottom,
		},
		{
			name:      "long list is capped and fits below",
			requested: PlacementAuto,
			trigger:   Rect{Top: 100, Bottom: 130},
			items:     100,
			want:      PlacementBottom,
		},
		{
			name:      "small list fits below even near the edge",
			requested: PlacementAuto,
			trigger:   Rect{Top: vh - 80, Bottom: vh - 50},
			items:     1,
			want:      PlacementBottom,
		},
		{
			name:      "pinned bottom is honored",
			requested: PlacementBottom,
			trigger:   Rect{Top: vh - 80, Bottom: vh - 50},
			items:     10,
			want:      PlacementBottom,
		},
		{
			name:      "pinned top is honored",
			requested: PlacementTop,
			trigger:   Rect{Top: 0, Bottom: 30},
			items:     10,
			want:      PlacementTop,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePlacement(tt.requested, tt.trigger, vh, tt.items, DefaultPanelMetrics)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPanelMetrics_Needed(t *testing.T) {
	require.Equal(t, 8+3*36, DefaultPanelMetrics.Needed(3))
	require.Equal(t, 300, DefaultPanelMetrics.Needed(50))
	require.Equal(t, 2, CellPanelMetrics.Needed(-1))
}

func TestDispatcher_CaptureAndOrigin(t *testing.T) {
	d := NewDispatcher()
	var got []string
	d.Listen(EventScroll, false, func(Event) { got = append(got, "bubble") })
	d.Listen(EventScroll, true, func(Event) { got = append(got, "capture") })

	d.Dispatch(Event{Kind: EventScroll})
	require.Equal(t, []string{"capture", "bubble"}, got)

	got = nil
	d.Dispatch(Event{Kind: EventScroll, Origin: "table-body"})
	require.Equal(t, []string{"capture"}, got)

	got = nil
	d.Dispatch(Event{Kind: EventResize})
	require.Empty(t, got)
}

func TestDispatcher_ReleaseIsIdempotent(t *testing.T) {
	d := NewDispatcher()
	release := d.Listen(EventResize, false, func(Event) {})
	require.Equal(t, 1, d.Count())
	release()
	release()
	require.Zero(t, d.Count())
}

func TestDispatcher_ReleasedDuringDispatchIsSkipped(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	var second func()
	d.Listen(EventMouseDown, true, func(Event) { second() })
	second = d.Listen(EventMouseDown, true, func(Event) { calls++ })

	d.Dispatch(Event{Kind: EventMouseDown})
	require.Zero(t, calls)
}

func TestOverlay_OpenCloseReleasesListeners(t *testing.T) {
	d := NewDispatcher()
	anchor := &fakeAnchor{rect: Rect{Top: 100, Bottom: 130}, viewport: 800}
	closed := 0
	o := NewOverlay(d, anchor, WithItemCount(10), WithOnClose(func() { closed++ }))

	require.False(t, o.IsOpen())
	require.Equal(t, PlacementBottom, o.Placement())

	for range 3 {
		o.Toggle()
		require.True(t, o.IsOpen())
		require.Equal(t, 3, d.Count())
		o.Toggle()
		require.False(t, o.IsOpen())
		require.Zero(t, d.Count())
	}
	require.Equal(t, 3, closed)
}

func TestOverlay_OutsidePressCloses(t *testing.T) {
	d := NewDispatcher()
	panel := Rect{Top: 130, Bottom: 200, Left: 0, Right: 40}
	anchor := &fakeAnchor{
		rect:     Rect{Top: 100, Bottom: 130, Left: 0, Right: 40},
		viewport: 800,
		inside:   func(e Event) bool { return panel.Contains(e.X, e.Y) || e.Y == 100 },
	}
	o := NewOverlay(d, anchor)
	o.Open()

	d.Dispatch(Event{Kind: EventMouseDown, X: 10, Y: 150})
	require.True(t, o.IsOpen())

	d.Dispatch(Event{Kind: EventMouseDown, Origin: "footer", X: 70, Y: 500})
	require.False(t, o.IsOpen())
	require.Zero(t, d.Count())
}

func TestOverlay_RepositionsOnResizeAndScroll(t *testing.T) {
	d := NewDispatcher()
	anchor := &fakeAnchor{rect: Rect{Top: 100, Bottom: 130}, viewport: 800}
	o := NewOverlay(d, anchor, WithItemCount(10))
	o.Open()
	require.Equal(t, PlacementBottom, o.Placement())

	anchor.rect = Rect{Top: 720, Bottom: 750}
	d.Dispatch(Event{Kind: EventScroll, Origin: "table-body"})
	require.Equal(t, PlacementTop, o.Placement())

	anchor.viewport = 2000
	d.Dispatch(Event{Kind: EventResize})
	require.Equal(t, PlacementBottom, o.Placement())

	o.Close()
	anchor.viewport = 800
	d.Dispatch(Event{Kind: EventResize})
	require.Equal(t, PlacementBottom, o.Placement(), "closed overlays do not track the viewport")
}

func TestOverlay_PinnedPlacement(t *testing.T) {
	anchor := &fakeAnchor{rect: Rect{Top: 0, Bottom: 30}, viewport: 800}
	o := NewOverlay(NewDispatcher(), anchor, WithPlacement(PlacementTop), WithItemCount(10))
	o.Open()
	require.Equal(t, PlacementTop, o.Placement())
	require.Equal(t, OverlayState{Open: true, Requested: PlacementTop, Resolved: PlacementTop}, o.State())
}

func TestOverlay_UnmountResets(t *testing.T) {
	d := NewDispatcher()
	anchor := &fakeAnchor{rect: Rect{Top: 720, Bottom: 750}, viewport: 800}
	o := NewOverlay(d, anchor, WithItemCount(10))
	o.Open()
	require.Equal(t, PlacementTop, o.Placement())

	o.Unmount()
	require.False(t, o.IsOpen())
	require.Zero(t, d.Count())
	require.Equal(t, PlacementBottom, o.Placement())
}

func TestOverlay_SetItemCountRepositions(t *testing.T) {
	anchor := &fakeAnchor{rect: Rect{Top: 720, Bottom: 750}, viewport: 800}
	o := NewOverlay(NewDispatcher(), anchor, WithItemCount(1))
	o.Open()
	require.Equal(t, PlacementBottom, o.Placement())
	o.SetItemCount(10)
	require.Equal(t, PlacementTop, o.Placement())
}
