package mapcanvas

// CommandKind identifies the primitive a DrawCommand paints.
type CommandKind uint8

const (
	CommandTriangles CommandKind = iota // filled indexed triangles (circles)
	CommandLineStrip                    // hairline polyline (lines, rect outlines)
	CommandFillRect                     // scaled unit-pixel sprite
	CommandImage                        // texture blit
	CommandString                       // text, when the backend supports it
)

var commandKindNames = [...]string{
	CommandTriangles: "triangles",
	CommandLineStrip: "line-strip",
	CommandFillRect:  "fill-rect",
	CommandImage:     "image",
	CommandString:    "string",
}

func (k CommandKind) String() string {
	if int(k) < len(commandKindNames) {
		return commandKindNames[k]
	}
	return "unknown"
}

// DrawCommand is a single deferred draw. All geometry and color data is
// resolved at enqueue time; executing it performs no further lookups. A
// command is consumed exactly once, by the drain of the frame it was
// submitted in.
type DrawCommand struct {
	Kind      CommandKind
	Priority  DrawPriority
	Transform Transform
	Color     Color

	// Triangles and line strips.
	Vertices []Vec2
	Indices  []uint16

	// Rects, images and strings.
	Origin Vec2
	Size   Vec2

	Texture  *Texture
	Text     string
	FontSize float64
}

// execute replays the command against b.
func (cmd *DrawCommand) execute(b Backend) {
	switch cmd.Kind {
	case CommandTriangles:
		b.DrawTriangles(cmd.Vertices, cmd.Indices, cmd.Color, cmd.Transform)
	case CommandLineStrip:
		b.DrawLineStrip(cmd.Vertices, cmd.Color, cmd.Transform)
	case CommandFillRect:
		b.FillRect(cmd.Origin, cmd.Size, cmd.Color, cmd.Transform)
	case CommandImage:
		if cmd.Texture.Empty() {
			return
		}
		b.DrawImage(cmd.Texture.image, cmd.Origin, cmd.Size, cmd.Transform)
	case CommandString:
		b.DrawString(cmd.Origin, cmd.Text, cmd.FontSize, cmd.Color, cmd.Transform)
	}
}
