package app

import (
	"fmt"
	"log/slog"

	"github.com/soocke/crop-annotator/config"
	"github.com/soocke/crop-annotator/domain/catalog"
	"github.com/soocke/crop-annotator/domain/document"
	"github.com/soocke/crop-annotator/domain/session"
	"github.com/soocke/crop-annotator/ui/images"
	"github.com/soocke/crop-annotator/ui/model"
	"github.com/soocke/crop-annotator/ui/presenter"
	"github.com/soocke/crop-annotator/ui/render"
	"github.com/soocke/crop-annotator/ui/view"
)

const (
	legendWidth  = 260
	chromeHeight = 60
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   *document.Store
	Session *session.Session
	Loader  *images.Loader
	Watcher *catalog.Watcher // nil unless Config.Watch
	Timer   *model.TimerModel

	RootView *view.RootView

	// Presenters
	Annotation *presenter.AnnotationPresenter
	Status     *presenter.StatusPresenter
	Labels     *presenter.LabelPresenter
	Loop       *presenter.Loop
}

// BuildContainer constructs all components. Side-effects limited to listing
// the image directory and starting the optional filesystem watcher.
func BuildContainer(cfg *config.Config, logger *slog.Logger) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, Logger: logger}

	imgs, err := catalog.List(cfg.ImageDir)
	if err != nil {
		return nil, err
	}
	c.Store = document.NewStore(cfg.SaveDir, logger)
	c.Session, err = session.New(imgs, cfg.Labels, c.Store, logger)
	if err != nil {
		return nil, err
	}
	c.Loader, err = images.NewLoader(cfg.ImageCacheSize, logger)
	if err != nil {
		return nil, fmt.Errorf("image cache: %w", err)
	}
	if cfg.Watch {
		if w, err := catalog.NewWatcher(cfg.ImageDir, imgs, logger); err != nil {
			logger.Warn("image watcher disabled", "dir", cfg.ImageDir, "error", err)
		} else {
			c.Watcher = w
		}
	}

	// View
	canvasW := max(cfg.WindowWidth-legendWidth, 160)
	canvasH := max(cfg.WindowHeight-chromeHeight, 120)
	c.RootView = view.NewRootView(canvasW, canvasH, logger)

	// Presenters
	c.Timer = model.NewTimerModel()
	c.Annotation = presenter.NewAnnotationPresenter(c.Session, c.Loader, c.RootView, render.DefaultStyle(cfg.MarkerRadius), canvasW, canvasH, logger)
	c.Annotation.SetLoupeView(c.RootView)
	c.Status = presenter.NewStatusPresenter(c.Timer, c.RootView)
	c.Labels = presenter.NewLabelPresenter(c.RootView)
	c.Session.AddListener(c.Annotation.OnState)
	c.Session.AddListener(c.Status.OnState)
	c.Session.AddListener(c.Labels.OnState)

	c.Loop = presenter.NewLoop(c.Annotation, c.Status, c.Labels, nil)
	if c.Watcher != nil {
		c.Loop.Feed = c.Watcher
		c.Loop.Appender = c.Session
	}
	return c, nil
}

// Close releases background resources.
func (c *AppContainer) Close() {
	if c == nil {
		return
	}
	if c.Watcher != nil {
		if err := c.Watcher.Close(); err != nil {
			c.Logger.Warn("closing image watcher", "error", err)
		}
	}
}
