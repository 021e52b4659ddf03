package session

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/soocke/crop-annotator/domain/annotation"
	"github.com/soocke/crop-annotator/domain/document"
)

// ErrClosed is returned for commands issued after a successful quit.
var ErrClosed = errors.New("session: closed")

// ErrNoLabels is returned when a session is started without labels.
var ErrNoLabels = errors.New("session: label set is empty")

// FlushError reports a failed write of the current image's annotations.
// The session stays on the image so no work is lost.
type FlushError struct {
	Image string
	Err   error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("save annotations for %s: %v", e.Image, e.Err)
}

func (e *FlushError) Unwrap() error { return e.Err }

// CommandKind enumerates the user commands a session accepts.
type CommandKind int

const (
	CmdAddPoint CommandKind = iota + 1
	CmdDragBox
	CmdNewCrop
	CmdUndo
	CmdNextImage
	CmdPrevImage
	CmdNextCrop
	CmdPrevCrop
	CmdSetLabel
	CmdSave
	CmdQuit
)

func (k CommandKind) String() string {
	switch k {
	case CmdAddPoint:
		return "add_point"
	case CmdDragBox:
		return "drag_box"
	case CmdNewCrop:
		return "new_crop"
	case CmdUndo:
		return "undo"
	case CmdNextImage:
		return "next_image"
	case CmdPrevImage:
		return "prev_image"
	case CmdNextCrop:
		return "next_crop_focus"
	case CmdPrevCrop:
		return "prev_crop_focus"
	case CmdSetLabel:
		return "set_label"
	case CmdSave:
		return "save"
	case CmdQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command is one user intent. Point is used by CmdAddPoint, Rect by
// CmdDragBox and Label (1-based) by CmdSetLabel.
type Command struct {
	Kind  CommandKind
	Point annotation.Point
	Rect  image.Rectangle
	Label int
}

func AddPoint(p annotation.Point) Command { return Command{Kind: CmdAddPoint, Point: p} }
func DragBox(r image.Rectangle) Command   { return Command{Kind: CmdDragBox, Rect: r} }
func SetLabel(n int) Command              { return Command{Kind: CmdSetLabel, Label: n} }
func Simple(kind CommandKind) Command     { return Command{Kind: kind} }

// RenderState is a snapshot of everything the view draws.
type RenderState struct {
	SessionID    string
	ImagePath    string
	ImageName    string
	ImageIndex   int
	ImageCount   int
	Labels       []string
	ActiveLabel  int // 0-based index into Labels
	Crops        []annotation.Record
	Focus        int
	FocusVirtual bool
	UndoDepth    int
	LastSaved    time.Time
	Closed       bool
}

// Listener is called after every command that was applied.
type Listener func(RenderState)

// Store persists annotation documents.
type Store interface {
	Load(imagePath, defaultLabel string) (*annotation.Buffer, bool)
	Write(imagePath string, doc document.Document) error
}

// Controller is the contract presenters depend on.
type Controller interface {
	Dispatch(Command) error
	State() RenderState
	AppendImages(paths []string) int
	AddListener(Listener)
}

var _ Controller = (*Session)(nil)
