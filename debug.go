package mapcanvas

import (
	"context"
	"log/slog"
	"time"
)

// FrameStats holds per-frame counters for one FinalizeFrame.
// DrainTime is only measured when CanvasConfig.Debug is set.
type FrameStats struct {
	Frame     uint64
	Submitted [NumPriorities]int
	Executed  int
	Textures  int
	DrainTime time.Duration
}

// Total returns the number of commands submitted across all priorities.
func (s FrameStats) Total() int {
	n := 0
	for _, v := range s.Submitted {
		n += v
	}
	return n
}

// Stats returns the counters of the most recently finalized frame.
func (c *DeferredCanvas) Stats() FrameStats {
	return c.lastStats
}

// debugLog reports frame stats at debug level.
func (c *DeferredCanvas) debugLog(stats FrameStats) {
	l := Logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	attrs := make([]any, 0, 2*NumPriorities+8)
	attrs = append(attrs,
		"frame", stats.Frame,
		"commands", stats.Executed,
		"drain", stats.DrainTime,
		"textures", stats.Textures,
	)
	for p := 0; p < NumPriorities; p++ {
		attrs = append(attrs, DrawPriority(p).String(), stats.Submitted[p])
	}
	l.Debug("frame finalized", attrs...)
}
