// internal/adapters/out/firebaseauth/identitytoolkit.go
package firebaseauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"techshop/internal/domain/identity"
)

const defaultIdentityToolkitBaseURL = "https://identitytoolkit.googleapis.com/v1"

// identityToolkitClient verifies email+password sign-ins through the Identity
// Toolkit REST API. The Admin SDK cannot check passwords; this is the same
// endpoint the hosted provider's own web clients call.
type identityToolkitClient struct {
	client  *http.Client
	baseURL string
	apiKey  string // Firebase Web API key
}

func newIdentityToolkitClient(baseURL, apiKey string) *identityToolkitClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultIdentityToolkitBaseURL
	}
	return &identityToolkitClient{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
	}
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
}

type signInErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// signInWithPassword returns the principal uid on success, or one of the
// identity sentinel errors on rejection.
func (c *identityToolkitClient) signInWithPassword(ctx context.Context, email, password string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("identitytoolkit: client not configured")
	}
	if c.apiKey == "" {
		return "", fmt.Errorf("identitytoolkit: web api key is empty")
	}

	body, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return "", fmt.Errorf("identitytoolkit: encode request: %w", err)
	}

	url := c.baseURL + "/accounts:signInWithPassword?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("identitytoolkit: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("identitytoolkit: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("identitytoolkit: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var er signInErrorResponse
		_ = json.Unmarshal(raw, &er)
		return "", classifySignInError(er.Error.Message, resp.StatusCode)
	}

	var ok signInResponse
	if err := json.Unmarshal(raw, &ok); err != nil {
		return "", fmt.Errorf("identitytoolkit: decode response: %w", err)
	}
	if strings.TrimSpace(ok.LocalID) == "" {
		return "", fmt.Errorf("identitytoolkit: empty localId in response")
	}
	return ok.LocalID, nil
}

// classifySignInError maps Identity Toolkit error codes onto the identity
// sentinels. Messages may carry a trailing detail ("TOO_MANY_ATTEMPTS_TRY_LATER : ...").
func classifySignInError(message string, status int) error {
	code := message
	if i := strings.IndexAny(code, " :"); i >= 0 {
		code = code[:i]
	}
	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return identity.ErrInvalidCredentials
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return identity.ErrTooManyAttempts
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return identity.ErrInvalidEmail
	}
	return fmt.Errorf("identitytoolkit: sign-in failed: status=%d message=%s", status, message)
}
