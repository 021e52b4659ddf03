// Package session owns the annotation workflow over an ordered image list.
package session

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/crop-annotator/domain/annotation"
	"github.com/soocke/crop-annotator/domain/catalog"
	"github.com/soocke/crop-annotator/domain/document"
)

// Session walks an image list, holding one buffer for the current image and
// flushing it on navigation, manual save and quit. It is not safe for
// concurrent use; all commands are expected from the UI thread.
type Session struct {
	id     string
	logger *slog.Logger
	store  Store

	images      []string
	labels      []string
	index       int
	activeLabel int
	buf         *annotation.Buffer
	lastSaved   time.Time
	persisted   bool // the current image has a document on disk
	closed      bool

	listeners []Listener
	now       func() time.Time
}

// New creates a session positioned on the first image with the first label active.
func New(images, labels []string, store Store, logger *slog.Logger) (*Session, error) {
	if len(images) == 0 {
		return nil, catalog.ErrNoImages
	}
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	s := &Session{
		id:     id,
		logger: logger.With("session_id", id),
		store:  store,
		images: append([]string(nil), images...),
		labels: append([]string(nil), labels...),
		now:    time.Now,
	}
	s.open(0)
	s.logger.Info("session started", "images", len(images), "labels", len(labels))
	return s, nil
}

// ID returns the session identifier attached to every log line.
func (s *Session) ID() string { return s.id }

// AddListener registers l for state changes.
func (s *Session) AddListener(l Listener) {
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

func (s *Session) notify() {
	if len(s.listeners) == 0 {
		return
	}
	st := s.State()
	for _, l := range s.listeners {
		l(st)
	}
}

// Dispatch applies cmd. Errors are either ErrClosed or a *FlushError; in the
// latter case the session is unchanged apart from trailing empty records.
func (s *Session) Dispatch(cmd Command) error {
	if s.closed {
		return ErrClosed
	}
	var err error
	switch cmd.Kind {
	case CmdAddPoint:
		i, kind := s.buf.AddPoint(cmd.Point)
		s.logger.Debug("point added", "crop", i, "kind", kind.String(), "point", cmd.Point.String())
	case CmdDragBox:
		box := annotation.BoxFromRect(cmd.Rect)
		if i, ok := s.buf.SetBox(box); ok {
			s.logger.Debug("box set", "crop", i, "box", box.String())
		} else {
			s.logger.Debug("degenerate box ignored", "box", box.String())
			return nil
		}
	case CmdNewCrop:
		s.buf.NewCrop()
	case CmdUndo:
		if !s.buf.Undo() {
			return nil
		}
	case CmdNextImage:
		err = s.step(1)
	case CmdPrevImage:
		err = s.step(-1)
	case CmdNextCrop:
		s.buf.CycleFocus(1)
	case CmdPrevCrop:
		s.buf.CycleFocus(-1)
	case CmdSetLabel:
		if !s.setLabel(cmd.Label) {
			return nil
		}
	case CmdSave:
		err = s.flush()
	case CmdQuit:
		err = s.quit()
	default:
		return fmt.Errorf("session: unknown command %d", cmd.Kind)
	}
	if err != nil {
		s.logger.Error("command failed", "command", cmd.Kind.String(), "error", err)
	}
	s.notify()
	return err
}

// State returns a snapshot for rendering.
func (s *Session) State() RenderState {
	path := s.images[s.index]
	return RenderState{
		SessionID:    s.id,
		ImagePath:    path,
		ImageName:    filepath.Base(path),
		ImageIndex:   s.index,
		ImageCount:   len(s.images),
		Labels:       append([]string(nil), s.labels...),
		ActiveLabel:  s.activeLabel,
		Crops:        s.buf.Records(),
		Focus:        s.buf.Focus(),
		FocusVirtual: s.buf.FocusVirtual(),
		UndoDepth:    s.buf.UndoDepth(),
		LastSaved:    s.lastSaved,
		Closed:       s.closed,
	}
}

// Closed reports whether the session was quit.
func (s *Session) Closed() bool { return s.closed }

// AppendImages adds images discovered after startup to the end of the list.
// Known paths are ignored. It returns how many were added.
func (s *Session) AppendImages(paths []string) int {
	if s.closed || len(paths) == 0 {
		return 0
	}
	known := make(map[string]struct{}, len(s.images))
	for _, p := range s.images {
		known[p] = struct{}{}
	}
	added := 0
	for _, p := range paths {
		if _, dup := known[p]; dup {
			continue
		}
		known[p] = struct{}{}
		s.images = append(s.images, p)
		added++
	}
	if added > 0 {
		s.logger.Info("images appended", "added", added, "total", len(s.images))
		s.notify()
	}
	return added
}

func (s *Session) setLabel(n int) bool {
	if n < 1 || n > len(s.labels) {
		s.logger.Debug("label index out of range", "index", n, "labels", len(s.labels))
		return false
	}
	s.activeLabel = n - 1
	s.buf.SetDefaultLabel(s.labels[s.activeLabel])
	s.logger.Debug("active label changed", "label", s.labels[s.activeLabel])
	return true
}

// open installs the buffer for image i. The caller flushes beforehand.
func (s *Session) open(i int) {
	s.index = i
	path := s.images[i]
	buf, loaded := s.store.Load(path, s.labels[s.activeLabel])
	buf.SetDefaultLabel(s.labels[s.activeLabel])
	s.buf = buf
	s.persisted = loaded
	s.logger.Info("image opened", "index", i, "image", path, "crops", buf.Len(), "annotated", loaded)
}

// step flushes then moves by delta. At either end of the list the flush
// still happens but the image does not change.
func (s *Session) step(delta int) error {
	if err := s.flush(); err != nil {
		return err
	}
	target := s.index + delta
	if target < 0 || target >= len(s.images) {
		s.logger.Debug("navigation at list boundary", "index", s.index, "delta", delta)
		return nil
	}
	s.open(target)
	return nil
}

// flush drops trailing empty records and writes the buffer. A buffer with
// no non-empty record is written only to replace a document already on disk.
func (s *Session) flush() error {
	s.buf.RemoveEmptyTrailing()
	if s.buf.NonEmpty() == 0 && !s.persisted {
		return nil
	}
	path := s.images[s.index]
	doc := document.Encode(filepath.Base(path), path, s.buf.Records())
	if err := s.store.Write(path, doc); err != nil {
		return &FlushError{Image: path, Err: err}
	}
	s.lastSaved = s.now()
	s.persisted = true
	s.logger.Info("annotations saved", "image", path, "crops", len(doc.Crops))
	return nil
}

func (s *Session) quit() error {
	if err := s.flush(); err != nil {
		return err
	}
	s.closed = true
	s.logger.Info("session closed")
	return nil
}
