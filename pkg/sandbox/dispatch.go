package sandbox

import (
	"context"
	"net/http"

	"github.com/go-kit/log/level"
	"go.uber.org/atomic"
)

// Display modes understood by the dispatcher.
const (
	ModeJSONGet  = "JSON GET"
	ModeHTTPPost = "HTTP POST"
	ModeJSONPost = "JSON POST"
	ModeHTTPPut  = "HTTP PUT"
	ModeToken    = "TOKEN"

	// ModeHTTPGet is only a name for the default branch: any tag that is
	// not one of the above runs Get.
	ModeHTTPGet = "HTTP GET"
)

// ModeInfo describes what a display mode does.
type ModeInfo struct {
	Mode   string `json:"mode"`
	Method string `json:"method"`
	Target string `json:"target"`
}

// Modes lists the display modes in dispatch order.
func Modes() []ModeInfo {
	return []ModeInfo{
		{Mode: ModeJSONGet, Method: http.MethodGet, Target: pathOpenTodos},
		{Mode: ModeHTTPPost, Method: http.MethodPost, Target: pathTodos},
		{Mode: ModeJSONPost, Method: http.MethodPost, Target: pathTodos},
		{Mode: ModeHTTPPut, Method: http.MethodPut, Target: pathTodo1},
		{Mode: ModeToken, Method: http.MethodGet, Target: "github repository + code search"},
		{Mode: ModeHTTPGet, Method: http.MethodGet, Target: pathTodo3},
	}
}

type HandlerFunc func(ctx context.Context, mode string) error

// Handler selects the handler for a display mode.
func (s *Service) Handler(mode string) HandlerFunc {
	switch mode {
	case ModeJSONGet:
		return s.GetFromJSON
	case ModeHTTPPost:
		return s.Post
	case ModeJSONPost:
		return s.PostJSON
	case ModeHTTPPut:
		return s.Put
	case ModeToken:
		return s.TokenWalkthrough
	default:
		return s.Get
	}
}

// Task is a handle on a dispatched handler.
type Task struct {
	Mode string

	done chan struct{}
	err  atomic.Error
}

// Done is closed once the handler returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the handler returned and reports its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err.Load()
}

// Err reports the handler error without blocking. It is nil while the
// task is running.
func (t *Task) Err() error {
	return t.err.Load()
}

// Dispatch starts the handler for mode on its own goroutine.
func (s *Service) Dispatch(ctx context.Context, mode string) *Task {
	t := &Task{
		Mode: mode,
		done: make(chan struct{}),
	}
	handler := s.Handler(mode)

	go func() {
		defer close(t.done)
		if err := handler(ctx, mode); err != nil {
			t.err.Store(err)
			s.metrics.taskFailures.WithLabelValues(metricMode(mode)).Inc()
			level.Error(s.logger).Log("msg", "sandbox task failed", "mode", mode, "err", err)
		}
	}()
	return t
}

// Run dispatches mode and waits for it.
func (s *Service) Run(ctx context.Context, mode string) error {
	return s.Dispatch(ctx, mode).Wait()
}

// metricMode folds unknown tags into the default mode to bound label
// cardinality.
func metricMode(mode string) string {
	switch mode {
	case ModeJSONGet, ModeHTTPPost, ModeJSONPost, ModeHTTPPut, ModeToken:
		return mode
	default:
		return ModeHTTPGet
	}
}
