package app

import (
	"context"
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	tk "modernc.org/tk9.0"

	"github.com/soocke/crop-annotator/debug"
	"github.com/soocke/crop-annotator/ui/theme"
	"github.com/soocke/crop-annotator/ui/view"
)

const (
	tick = 50 * time.Millisecond
)

// App runs the Tk main loop around a built container.
type App struct {
	c       *AppContainer
	title   string
	afterID string
	cancel  context.CancelFunc
}

func NewApp(title string, c *AppContainer) *App {
	return &App{c: c, title: title}
}

// Start builds the window and blocks until the session is quit.
func (a *App) Start(ctx context.Context) {
	c := a.c
	ctx, a.cancel = context.WithCancel(ctx)
	defer a.cancel()
	defer c.Close()

	theme.InitStyles()
	tk.App.WmTitle(a.title)
	tk.WmGeometry(tk.App, fmt.Sprintf("%dx%d+100+100", c.Config.WindowWidth, c.Config.WindowHeight))

	ann := c.Annotation
	c.RootView.Build(view.Handlers{
		Canvas: view.CanvasHandlers{
			DoubleClick: ann.DoubleClick,
			DragStart:   ann.DragStart,
			DragMove:    ann.DragMove,
			DragEnd:     ann.DragEnd,
			Motion:      ann.PointerMoved,
			Leave:       ann.PointerLeft,
		},
		Key:   ann.Key,
		Close: ann.Quit,
	})
	ann.SetExitHandler(a.exit)

	st := c.Session.State()
	ann.OnState(st)
	c.Status.OnState(st)
	c.Labels.OnState(st)

	if c.Watcher != nil {
		go c.Watcher.Run(ctx)
	}
	if c.Config.Debug {
		debug.StartMemLogger(ctx, 5*time.Second, c.Logger)
	}

	c.Loop.Schedule = a.scheduleUpdate
	a.scheduleUpdate()
	c.Logger.Info("window ready", "title", a.title, "session_id", c.Session.ID())
	tk.App.Wait()
}

func (a *App) exit() {
	if a.afterID != "" {
		tk.TclAfterCancel(a.afterID)
	}
	if a.cancel != nil {
		a.cancel()
	}
	tk.Destroy(tk.App)
}

func (a *App) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = tk.TclAfter(tick, func() { a.c.Loop.Tick() })
}
