package firebaseauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techshop/internal/domain/identity"
)

func TestClassifySignInError(t *testing.T) {
	assert.ErrorIs(t, classifySignInError("EMAIL_NOT_FOUND", 400), identity.ErrInvalidCredentials)
	assert.ErrorIs(t, classifySignInError("INVALID_PASSWORD", 400), identity.ErrInvalidCredentials)
	assert.ErrorIs(t, classifySignInError("INVALID_LOGIN_CREDENTIALS", 400), identity.ErrInvalidCredentials)
	assert.ErrorIs(t, classifySignInError("TOO_MANY_ATTEMPTS_TRY_LATER : retry later", 400), identity.ErrTooManyAttempts)
	assert.ErrorIs(t, classifySignInError("INVALID_EMAIL", 400), identity.ErrInvalidEmail)

	err := classifySignInError("SOMETHING_ELSE", 500)
	assert.NotErrorIs(t, err, identity.ErrInvalidCredentials)
	assert.Error(t, err)
}

func TestSignInWithPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		switch req["email"] {
		case "ann@example.test":
			_ = json.NewEncoder(w).Encode(map[string]string{"localId": "u1", "email": "ann@example.test"})
		default:
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "INVALID_LOGIN_CREDENTIALS"},
			})
		}
	}))
	defer srv.Close()

	c := newIdentityToolkitClient(srv.URL, "test-key")

	uid, err := c.signInWithPassword(context.Background(), "ann@example.test", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)

	_, err = c.signInWithPassword(context.Background(), "bob@example.test", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestSignInWithPassword_NoKey(t *testing.T) {
	c := newIdentityToolkitClient("", "")
	_, err := c.signInWithPassword(context.Background(), "a@b.test", "x")
	assert.Error(t, err)
}
