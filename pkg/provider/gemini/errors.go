package gemini

import (
	"fmt"
	"io"

	"github.com/modelmux/modelmux/pkg/api"
)

const maxErrorBody = 4 * 1024

// httpError turns a non-2xx response into a transport error carrying the
// vendor status and body verbatim.
func httpError(status int, body io.Reader) error {
	raw, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	return api.NewTransportError("google", status, string(raw))
}

// networkError wraps a connection-level failure as a transport error without
// an HTTP status.
func networkError(err error) error {
	return api.NewTransportError("google", 0, fmt.Sprintf("request failed: %v", err))
}
