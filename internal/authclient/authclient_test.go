// ABOUTME: Tests for the authenticated HTTP client
// ABOUTME: Covers bearer headers, 401 refresh-and-retry, and expiry handling

package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "visitor-1",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(expiresIn).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tokens := NewMemoryTokenStore(signedToken(t, time.Hour), "refresh-token")
	client := New(server.URL, tokens)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/me", nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer "+tokens.AccessToken(), gotAuth)
}

func TestDo_RefreshesOnceOn401(t *testing.T) {
	var refreshCalls atomic.Int32
	fresh := signedToken(t, time.Hour)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh/" {
			refreshCalls.Add(1)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "refresh-token", body["refresh"])

			json.NewEncoder(w).Encode(map[string]string{"access": fresh})
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+fresh {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tokens := NewMemoryTokenStore(signedToken(t, time.Hour), "refresh-token")
	client := New(server.URL, tokens)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/me", nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, fresh, tokens.AccessToken())
}

func TestDo_FailsWhenRetryStillUnauthorized(t *testing.T) {
	var expiredCalled atomic.Bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh/" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	tokens := NewMemoryTokenStore(signedToken(t, time.Hour), "refresh-token")
	client := New(server.URL, tokens,
		WithAuthExpiredHandler(func() { expiredCalled.Store(true) }))

	req, err := http.NewRequest(http.MethodGet, server.URL+"/me", nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthExpired)
	assert.True(t, expiredCalled.Load())
	assert.Empty(t, tokens.AccessToken())
}

func TestDo_SecondUnauthorizedAfterRefresh(t *testing.T) {
	var expiredCalled atomic.Bool
	fresh := signedToken(t, time.Hour)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh/" {
			json.NewEncoder(w).Encode(map[string]string{"access": fresh})
			return
		}
		// Server rejects even the refreshed token
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	tokens := NewMemoryTokenStore(signedToken(t, time.Hour), "refresh-token")
	client := New(server.URL, tokens,
		WithAuthExpiredHandler(func() { expiredCalled.Store(true) }))

	req, err := http.NewRequest(http.MethodGet, server.URL+"/me", nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthExpired)
	assert.True(t, expiredCalled.Load())
	assert.Empty(t, tokens.AccessToken())
}

func TestDo_NoRefreshTokenFailsFast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	tokens := NewMemoryTokenStore(signedToken(t, time.Hour), "")
	client := New(server.URL, tokens)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/me", nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthExpired)
}

func TestDo_ProactiveRefreshNearExpiry(t *testing.T) {
	var refreshCalls atomic.Int32
	fresh := signedToken(t, time.Hour)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh/" {
			refreshCalls.Add(1)
			json.NewEncoder(w).Encode(map[string]string{"access": fresh})
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// Token expires well within the refresh leeway
	tokens := NewMemoryTokenStore(signedToken(t, 5*time.Second), "refresh-token")
	client := New(server.URL, tokens)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/me", nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, fresh, tokens.AccessToken())
}

func TestDo_RetryReplaysPostBody(t *testing.T) {
	fresh := signedToken(t, time.Hour)
	var bodies []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh/" {
			json.NewEncoder(w).Encode(map[string]string{"access": fresh})
			return
		}

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body["message"])

		if r.Header.Get("Authorization") != "Bearer "+fresh {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tokens := NewMemoryTokenStore(signedToken(t, time.Hour), "refresh-token")
	client := New(server.URL, tokens)

	resp, err := client.PostJSON(context.Background(), "/messages/", map[string]string{"message": "Hello"})
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, bodies, 2)
	assert.Equal(t, "Hello", bodies[0])
	assert.Equal(t, "Hello", bodies[1])
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	tokens := NewMemoryTokenStore(signedToken(t, time.Hour), "refresh-token")
	client := New(server.URL, tokens)

	var out map[string]string
	require.NoError(t, client.GetJSON(context.Background(), "/health", &out))
	assert.Equal(t, "ok", out["status"])
}
