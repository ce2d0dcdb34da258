package mapcanvas

import "strconv"

// DrawPriority is a paint-order level. Lower values are painted first.
type DrawPriority uint8

const (
	PriorityBackground DrawPriority = iota // sky, backdrops, parallax
	PriorityTerrain                        // platforms, collision and ground art
	PriorityEntities                       // spawns, items, moving platforms
	PriorityForeground                     // decorations drawn over entities
	PriorityOverlay                        // debug overlays and UI

	// NumPriorities is the number of priority levels.
	NumPriorities = int(PriorityOverlay) + 1
)

var priorityNames = [NumPriorities]string{
	"background",
	"terrain",
	"entities",
	"foreground",
	"overlay",
}

// String returns the lower-case level name.
func (p DrawPriority) String() string {
	if int(p) < NumPriorities {
		return priorityNames[p]
	}
	return "priority(" + strconv.Itoa(int(p)) + ")"
}

// Valid reports whether p is one of the defined levels.
func (p DrawPriority) Valid() bool {
	return int(p) < NumPriorities
}
