// Package mapcanvas is a deferred, priority-ordered 2D draw pipeline for
// viewing game maps.
//
// A scene walks its own data once per frame and issues draw calls on a
// [Canvas]. Nothing is drawn immediately: every call bakes its geometry,
// captures the caller's [Transform] by value and queues one command at a
// [DrawPriority]. [DeferredCanvas.FinalizeFrame] then paints the queue in
// priority order, lowest first, keeping submission order within a priority.
// Stacking therefore follows the priority, not the order of traversal.
//
// # Quick start
//
// Pick a [Backend] (package ebitenbackend for a window, package ggbackend
// for a CPU raster), create a canvas and draw:
//
//	b := ggbackend.New(640, 480)
//	c := mapcanvas.NewCanvas(b, mapcanvas.CanvasConfig{AssetRoot: "mapArt"})
//
//	root := mapcanvas.Translate(320, 240).Mul(cam.Transform())
//	c.DrawCircle(mapcanvas.Vec2{}, 40, red, root, mapcanvas.PriorityEntities)
//	c.DrawRect(mapcanvas.Vec2{X: -100, Y: 50}, mapcanvas.Vec2{X: 200, Y: 20}, true, grey, root, mapcanvas.PriorityTerrain)
//	c.FinalizeFrame()
//
// Package viewer wraps this loop in an ebiten window with a pan/zoom camera.
//
// # Transforms
//
// [Transform] is a 2D affine matrix. A.Mul(B) applies B first, so
// parent.Mul(local) maps local coordinates into the parent's space. The
// camera contributes Scale(zoom) * Translate(x, y); see [Camera].
//
// # Priorities
//
// Five named priorities are provided, from [PriorityBackground] to
// [PriorityOverlay]. Queuing at any other value is a programmer error and
// panics with [ErrPriorityOutOfRange].
//
// # Textures
//
// [DeferredCanvas.LoadTexture] resolves a path against the asset root and
// caches the result by resolved path. A file that fails to load yields an
// empty texture, which draws nothing, together with a [*LoadError]; the
// failure is remembered until [DeferredCanvas.ClearTextureCache].
// Clearing mid-frame is safe: images still referenced by queued commands
// are released after the drain.
//
// # Logging
//
// mapcanvas logs through [log/slog] and is silent by default. Call
// [SetLogger] to see texture failures, and set [CanvasConfig.Debug] for
// per-frame stats at debug level.
package mapcanvas
