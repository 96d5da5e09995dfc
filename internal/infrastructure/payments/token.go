package payments

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"
)

const (
	authTokensPath = "/api/auth/tokens"

	// Paymob bearer tokens live about an hour; keep a margin so a token
	// handed out near expiry still survives the call chain that uses it.
	tokenTTL = 45 * time.Minute
)

// tokenSource memoizes the short-lived bearer token behind a mutex so
// concurrent call chains don't each pay an auth round-trip. It is invalidated
// on expiry and whenever a downstream call is answered with 401.
type tokenSource struct {
	mu        sync.Mutex
	token     string
	fetchedAt time.Time
}

func (s *tokenSource) get(now time.Time) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || now.Sub(s.fetchedAt) >= tokenTTL {
		return "", false
	}
	return s.token, true
}

func (s *tokenSource) put(token string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.fetchedAt = now
}

func (s *tokenSource) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

// authenticate exchanges the static API key for a bearer token. The gateway
// reports the token under "token", "token_type" or "data.token" depending on
// environment; any of the three is accepted. Failure here is fatal to every
// downstream call in the same chain.
func (c *Client) authenticate(ctx context.Context) (string, error) {
	if token, ok := c.tokens.get(c.now()); ok {
		return token, nil
	}

	status, raw, err := c.t.do(ctx, http.MethodPost, authTokensPath, "", map[string]any{
		"api_key": c.cfg.APIKey,
	})
	if err != nil {
		log.Printf("[payment][gateway] auth transport failure err=%v", err)
		return "", &AuthError{Cause: err}
	}
	if status < 200 || status >= 300 {
		log.Printf("[payment][gateway] auth rejected status=%d body=%s", status, raw)
		return "", &AuthError{Cause: &RequestError{StatusCode: status, Body: string(raw)}}
	}

	doc, ok := parseDoc(raw)
	if !ok {
		log.Printf("[payment][gateway] auth response is not a json object body=%s", raw)
		return "", &AuthError{Cause: &ParseError{Field: "token"}}
	}

	token, ok := coerceString(doc["token"])
	if !ok {
		token, ok = coerceString(doc["token_type"])
	}
	if !ok {
		if data, found := nestedObject(doc, "data"); found {
			token, ok = coerceString(data["token"])
		}
	}
	if !ok {
		log.Printf("[payment][gateway] auth response carries no token body=%s", raw)
		return "", &AuthError{Cause: &ParseError{Field: "token"}}
	}

	c.tokens.put(token, c.now())
	return token, nil
}
