package sandbox

import (
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// StatusError is returned when the placeholder API answers with a non-2xx
// status. Nothing is imported for such a response.
type StatusError struct {
	StatusCode  int
	Status      string
	RequestLine string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("response status code does not indicate success: %s (%s)", e.Status, e.RequestLine)
}

// ensureSuccess returns the request line of resp, or a *StatusError when
// the status is not 2xx.
func ensureSuccess(resp *http.Response) (string, error) {
	line := RequestLine(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		status := resp.Status
		if status == "" {
			status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return line, &StatusError{
			StatusCode:  resp.StatusCode,
			Status:      status,
			RequestLine: line,
		}
	}
	return line, nil
}

// ErrBodyTooLarge is returned when a response body exceeds the read limit.
var ErrBodyTooLarge = errors.New("response body too large")

// readBody reads at most limit bytes of resp's body. A longer body is an
// error rather than a silently truncated read.
func readBody(resp *http.Response, limit int64) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	if int64(len(raw)) > limit {
		return nil, errors.Wrapf(ErrBodyTooLarge, "response body exceeds %d bytes", limit)
	}
	return raw, nil
}
