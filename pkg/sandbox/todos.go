package sandbox

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/alside/httpsandbox/pkg/dto"
)

const (
	pathTodos        = "todos"
	pathTodo1        = "todos/1"
	pathTodo3        = "todos/3"
	pathOpenTodos    = "todos?userId=1&completed=false"
	defaultRespLimit = 1 << 20
)

var (
	postTodo = dto.Todo{
		UserID: 68,
		ID:     1,
		Title:  "YoungJ A Materials code sample",
	}
	postJSONTodo = dto.Todo{
		UserID: 68,
		ID:     99,
		Title:  "YoungJ A Materials Show extensions",
	}
	putTodo = dto.Todo{
		UserID: 1,
		ID:     1,
		Title:  "foo bar",
	}
)

// Get fetches todos/3 and imports the raw response.
func (s *Service) Get(ctx context.Context, mode string) error {
	return s.exchangeRaw(ctx, mode, http.MethodGet, pathTodo3, nil)
}

// Post creates a todo and imports the raw response.
func (s *Service) Post(ctx context.Context, mode string) error {
	return s.exchangeRaw(ctx, mode, http.MethodPost, pathTodos, postTodo)
}

// Put replaces todos/1 and imports the raw response.
func (s *Service) Put(ctx context.Context, mode string) error {
	return s.exchangeRaw(ctx, mode, http.MethodPut, pathTodo1, putTodo)
}

// PostJSON creates a todo, decodes the created todo and imports its
// display form.
func (s *Service) PostJSON(ctx context.Context, mode string) error {
	resp, err := s.do(ctx, http.MethodPost, pathTodos, postJSONTodo)
	if err != nil {
		return errors.Wrap(err, "post todo")
	}
	defer resp.Body.Close()

	line, err := ensureSuccess(resp)
	if err != nil {
		return err
	}

	raw, err := readBody(resp, defaultRespLimit)
	if err != nil {
		return err
	}
	var todo dto.Todo
	if err := json.Unmarshal(raw, &todo); err != nil {
		return errors.Wrap(err, "decode todo")
	}
	fmt.Fprintln(s.out, line)
	fmt.Fprintf(s.out, "%s\n\n", todo)

	return s.importAlwinData(ctx, mode, line, todo.String()+"\n")
}

// GetFromJSON lists the open todos of user 1 and imports every todo's
// display form.
func (s *Service) GetFromJSON(ctx context.Context, mode string) error {
	resp, err := s.do(ctx, http.MethodGet, pathOpenTodos, nil)
	if err != nil {
		return errors.Wrap(err, "list todos")
	}
	defer resp.Body.Close()

	line, err := ensureSuccess(resp)
	if err != nil {
		return err
	}

	raw, err := readBody(resp, defaultRespLimit)
	if err != nil {
		return err
	}
	var todos []dto.Todo
	if err := json.Unmarshal(raw, &todos); err != nil {
		return errors.Wrap(err, "decode todos")
	}

	fmt.Fprintln(s.out, line)
	for _, todo := range todos {
		fmt.Fprintln(s.out, todo)
	}
	fmt.Fprintln(s.out)

	for _, todo := range todos {
		if err := s.importer.ImportJSON(ctx, todo.String(), mode); err != nil {
			return errors.Wrapf(err, "import todo %d", todo.ID)
		}
	}
	return nil
}

// exchangeRaw sends one request and imports the response body as text.
func (s *Service) exchangeRaw(ctx context.Context, mode, method, ref string, body interface{}) error {
	resp, err := s.do(ctx, method, ref, body)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, ref)
	}
	defer resp.Body.Close()

	line, err := ensureSuccess(resp)
	if err != nil {
		return err
	}

	raw, err := readBody(resp, defaultRespLimit)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, line)
	fmt.Fprintf(s.out, "%s\n\n", raw)

	return s.importAlwinData(ctx, mode, line, string(raw))
}

func (s *Service) importAlwinData(ctx context.Context, mode, line, response string) error {
	data, err := s.importer.AlwinData(ctx)
	if err != nil {
		return errors.Wrap(err, "read device state")
	}
	data.HTTPCall = line
	data.JSONResponse = response

	return errors.Wrap(s.importer.ImportAlwinData(ctx, data, mode), "import response")
}
