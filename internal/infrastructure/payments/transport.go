package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// transport executes a single HTTP round-trip against the gateway base URL.
// It owns no business logic and never retries: it reports the raw status code
// and body and leaves interpretation to the caller. Retry policy lives in the
// orchestration methods on Client.
type transport struct {
	baseURL string
	http    *http.Client
}

func newTransport(baseURL string, timeout time.Duration) *transport {
	return &transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do sends one request. body (when non-nil) is JSON-encoded; token (when
// non-empty) is sent as a bearer Authorization header. A non-2xx status is NOT
// an error at this layer. The returned error is always a *TransportError.
func (t *transport) do(ctx context.Context, method, path, token string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, &TransportError{Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return 0, nil, &TransportError{Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &TransportError{Err: err}
	}
	return resp.StatusCode, raw, nil
}
