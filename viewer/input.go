package viewer

import (
	"math"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const defaultDragDeadZone = 4.0 // pixels

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle

	numMouseButtons
)

// KeyModifiers is a bitmask of held modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Snapshot is the raw input of one tick.
type Snapshot struct {
	// Keys lists every key held this tick.
	Keys    []ebiten.Key
	Buttons [numMouseButtons]bool
	// CursorX and CursorY are in window pixels.
	CursorX, CursorY float64
	// WheelX and WheelY are this tick's scroll offsets.
	WheelX, WheelY float64
	Mods           KeyModifiers
}

// ReadSnapshot polls ebiten for the current tick. It appends held keys to
// buf to avoid allocating every frame.
func ReadSnapshot(buf []ebiten.Key) Snapshot {
	mx, my := ebiten.CursorPosition()
	wx, wy := ebiten.Wheel()
	return Snapshot{
		Keys: inpututil.AppendPressedKeys(buf[:0]),
		Buttons: [numMouseButtons]bool{
			MouseLeft:   ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
			MouseRight:  ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
			MouseMiddle: ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
		},
		CursorX: float64(mx),
		CursorY: float64(my),
		WheelX:  wx,
		WheelY:  wy,
		Mods:    readModifiers(),
	}
}

func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// dragState tracks one button from press to release.
type dragState struct {
	down           bool
	startX, startY float64
	dragging       bool
	started        bool // dragging became true this tick
}

// InputState holds the current and previous snapshot so edges can be
// queried. The zero value is ready to use.
type InputState struct {
	cur, prev Snapshot
	drags     [numMouseButtons]dragState

	// DragDeadZone is how far a held button must move before Dragging
	// reports true. Zero selects 4 pixels.
	DragDeadZone float64

	// spare keeps the older key slice for reuse by Sample.
	spare []ebiten.Key
}

// Sample reads the next snapshot from ebiten and advances to it.
func (s *InputState) Sample() {
	s.Advance(ReadSnapshot(s.spare))
}

// Advance makes next the current snapshot. The previous current becomes the
// previous snapshot.
func (s *InputState) Advance(next Snapshot) {
	s.spare = s.prev.Keys
	s.prev = s.cur
	s.cur = next

	dead := s.DragDeadZone
	if dead <= 0 {
		dead = defaultDragDeadZone
	}
	for b := range s.drags {
		d := &s.drags[b]
		d.started = false
		pressed := s.cur.Buttons[b]
		switch {
		case pressed && !d.down:
			*d = dragState{down: true, startX: s.cur.CursorX, startY: s.cur.CursorY}
		case !pressed && d.down:
			*d = dragState{}
		case pressed && !d.dragging:
			dx := s.cur.CursorX - d.startX
			dy := s.cur.CursorY - d.startY
			if math.Hypot(dx, dy) > dead {
				d.dragging = true
				d.started = true
			}
		}
	}
}

// Current returns the latest snapshot.
func (s *InputState) Current() Snapshot { return s.cur }

// KeyDown reports whether k is held.
func (s *InputState) KeyDown(k ebiten.Key) bool {
	return slices.Contains(s.cur.Keys, k)
}

// KeyPressed reports whether k went down this tick.
func (s *InputState) KeyPressed(k ebiten.Key) bool {
	return s.KeyDown(k) && !slices.Contains(s.prev.Keys, k)
}

// KeyReleased reports whether k went up this tick.
func (s *InputState) KeyReleased(k ebiten.Key) bool {
	return !s.KeyDown(k) && slices.Contains(s.prev.Keys, k)
}

// MouseDown reports whether b is held.
func (s *InputState) MouseDown(b MouseButton) bool {
	return b < numMouseButtons && s.cur.Buttons[b]
}

// MousePressed reports whether b went down this tick.
func (s *InputState) MousePressed(b MouseButton) bool {
	return s.MouseDown(b) && !s.prev.Buttons[b]
}

// MouseReleased reports whether b went up this tick.
func (s *InputState) MouseReleased(b MouseButton) bool {
	return b < numMouseButtons && !s.cur.Buttons[b] && s.prev.Buttons[b]
}

// Dragging reports whether b is held and has left the drag dead zone since
// it was pressed.
func (s *InputState) Dragging(b MouseButton) bool {
	return b < numMouseButtons && s.drags[b].dragging
}

// DragDelta returns how far a drag of b moved the cursor this tick. On the
// tick the drag starts it covers the whole move since the press, so travel
// inside the dead zone is not lost. It is zero when b is not dragging.
func (s *InputState) DragDelta(b MouseButton) (dx, dy float64) {
	if !s.Dragging(b) {
		return 0, 0
	}
	if d := s.drags[b]; d.started {
		return s.cur.CursorX - d.startX, s.cur.CursorY - d.startY
	}
	return s.MouseDelta()
}

// Cursor returns the cursor position in window pixels.
func (s *InputState) Cursor() (x, y float64) {
	return s.cur.CursorX, s.cur.CursorY
}

// MouseDelta returns how far the cursor moved since the previous tick.
func (s *InputState) MouseDelta() (dx, dy float64) {
	return s.cur.CursorX - s.prev.CursorX, s.cur.CursorY - s.prev.CursorY
}

// WheelDelta returns this tick's vertical scroll.
func (s *InputState) WheelDelta() float64 {
	return s.cur.WheelY
}

// Mods returns the held modifier keys.
func (s *InputState) Mods() KeyModifiers {
	return s.cur.Mods
}
