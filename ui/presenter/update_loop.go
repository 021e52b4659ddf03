package presenter

import "time"

// ImageFeed yields images discovered since the previous call.
type ImageFeed interface{ Drain() []string }

// ImageAppender accepts newly discovered images.
type ImageAppender interface{ AppendImages(paths []string) int }

// Loop aggregates feature presenters and drives periodic updates.
//
// It forwards discovered images to the session, calls Tick on the
// sub-presenters and invokes a scheduler callback. The zero value is usable
// (methods are nil-safe).
type Loop struct {
	Annotation *AnnotationPresenter
	Status     *StatusPresenter
	Labels     *LabelPresenter
	Feed       ImageFeed
	Appender   ImageAppender
	Schedule   func()
}

func NewLoop(ann *AnnotationPresenter, status *StatusPresenter, labels *LabelPresenter, schedule func()) *Loop {
	return &Loop{Annotation: ann, Status: status, Labels: labels, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Feed != nil && l.Appender != nil {
		if paths := l.Feed.Drain(); len(paths) > 0 {
			l.Appender.AppendImages(paths)
		}
	}
	if l.Labels != nil {
		l.Labels.Tick(now)
	}
	if l.Status != nil {
		l.Status.Tick(now)
	}
	if l.Annotation != nil {
		l.Annotation.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
