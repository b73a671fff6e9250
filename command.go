package canvas

import (
	"image"

	"github.com/gogpu/canvas/text"
)

// CommandType identifies the type of a command.
// Each command type corresponds to one drawing operation of Context.
type CommandType uint8

const (
	// Marker commands
	CmdPush CommandType = iota // Save: start of a state scope
	CmdPop                     // Restore: end of a state scope

	// Drawing commands
	CmdClear          // Fill the surface with a color
	CmdRect           // Fill or stroke a rectangle
	CmdCircle         // Fill or stroke a circle
	CmdPath           // Fill or stroke a path
	CmdImage          // Draw an image region
	CmdLinearGradient // Fill a rectangle with a linear gradient
	CmdRadialGradient // Fill a rectangle with a radial gradient
	CmdText           // Draw a run of text
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdPush:           "Push",
	CmdPop:            "Pop",
	CmdClear:          "Clear",
	CmdRect:           "Rect",
	CmdCircle:         "Circle",
	CmdPath:           "Path",
	CmdImage:          "Image",
	CmdLinearGradient: "LinearGradient",
	CmdRadialGradient: "RadialGradient",
	CmdText:           "Text",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
// Geometry in a command is in user space; the transform that maps it to
// the surface is recorded on the DisplayItem.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// PushCommand marks a Save. It paints nothing.
type PushCommand struct{}

// Type implements Command.
func (PushCommand) Type() CommandType { return CmdPush }

// PopCommand marks a Restore. It paints nothing.
type PopCommand struct{}

// Type implements Command.
func (PopCommand) Type() CommandType { return CmdPop }

// ClearCommand replaces every pixel inside the clip with Color.
type ClearCommand struct {
	Color Color
}

// Type implements Command.
func (ClearCommand) Type() CommandType { return CmdClear }

// RectCommand fills or strokes an axis-aligned user-space rectangle.
type RectCommand struct {
	Rect  Rect
	Paint Paint
}

// Type implements Command.
func (RectCommand) Type() CommandType { return CmdRect }

// CircleCommand fills or strokes a circle.
type CircleCommand struct {
	Center Point
	Radius float64
	Paint  Paint
}

// Type implements Command.
func (CircleCommand) Type() CommandType { return CmdCircle }

// PathCommand fills (odd-even) or strokes a path. Path is a private copy
// taken at record time.
type PathCommand struct {
	Path  *Path
	Paint Paint
}

// Type implements Command.
func (PathCommand) Type() CommandType { return CmdPath }

// ImageCommand draws the Src region of Image scaled into Dst.
type ImageCommand struct {
	Image *Image
	Src   image.Rectangle
	Dst   Rect
}

// Type implements Command.
func (ImageCommand) Type() CommandType { return CmdImage }

// LinearGradientCommand fills Rect with a gradient along Start to End.
// Stops are sorted.
type LinearGradientCommand struct {
	Rect       Rect
	Start, End Point
	Stops      []ColorStop
}

// Type implements Command.
func (LinearGradientCommand) Type() CommandType { return CmdLinearGradient }

// RadialGradientCommand fills Rect with a gradient from Center outward
// to Radius. Stops are sorted.
type RadialGradientCommand struct {
	Rect   Rect
	Center Point
	Radius float64
	Stops  []ColorStop
}

// Type implements Command.
func (RadialGradientCommand) Type() CommandType { return CmdRadialGradient }

// TextCommand draws Text with its baseline starting at Origin.
type TextCommand struct {
	Text   string
	Origin Point
	Font   text.Font
	Color  Color
}

// Type implements Command.
func (TextCommand) Type() CommandType { return CmdText }
