package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/forms"
)

// memTokens is an in-memory token store.
type memTokens struct {
	token string
	mu    sync.Mutex
}

func (m *memTokens) Get(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", common.ErrNoToken
	}
	return m.token, nil
}

func (m *memTokens) Set(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memTokens) Clear(_ context.Context) error {
	return m.Set(context.Background(), "")
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newTestClient(t *testing.T, handler http.Handler, tokens TokenGetter) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL + "/api/v1"}, tokens)
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantURL string
		wantErr bool
	}{
		{name: "defaults", config: Config{}, wantURL: DefaultBaseURL},
		{name: "adds trailing slash", config: Config{BaseURL: "http://localhost:8080/api/v1"}, wantURL: "http://localhost:8080/api/v1/"},
		{name: "rejects non-http scheme", config: Config{BaseURL: "ftp://example.com/"}, wantErr: true},
		{name: "rejects missing host", config: Config{BaseURL: "api/v1"}, wantErr: true},
		{name: "rejects negative timeout", config: Config{Timeout: -time.Second}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrInvalidConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, cfg.BaseURL)
			assert.Equal(t, DefaultTimeout, cfg.Timeout)
		})
	}
}

func TestExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	assert.True(t, exp.Equal(Expiry(signedToken(t, exp))))

	assert.True(t, Expiry("opaque-token").IsZero())

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"})
	raw, err := noExp.SignedString([]byte("k"))
	require.NoError(t, err)
	assert.True(t, Expiry(raw).IsZero())
}

func TestClient_LoginThenAuthenticatedCall(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	var gotAuth string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "budi@example.com", body["email"])
		assert.Equal(t, "secret", body["password"])

		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{"accessToken": token}})
	})
	mux.HandleFunc("/api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{
			"fullName": "Budi Santoso",
			"email":    "budi@example.com",
		}})
	})

	tokens := &memTokens{}
	client := newTestClient(t, mux, tokens)
	ctx := context.Background()

	got, err := client.Login(ctx, forms.LoginForm{Email: "budi@example.com", Password: "secret"})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	require.NoError(t, tokens.Set(ctx, got))

	profile, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", profile.FullName)
	assert.Equal(t, "Bearer "+token, gotAuth)
}

func TestClient_NoTokenFailsBeforeSend(t *testing.T) {
	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{}})
	})

	tokens := &memTokens{token: "stale-token"}
	client := newTestClient(t, handler, tokens)
	ctx := context.Background()

	require.NoError(t, tokens.Clear(ctx))

	_, err := client.ListTransactions(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNoToken))
	assert.Equal(t, common.KindUnauthenticated, common.Classify(err))
	assert.Equal(t, int32(0), hits.Load(), "request must not reach the server")
}

func TestClient_ExpiredTokenFailsBeforeSend(t *testing.T) {
	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	})

	client := newTestClient(t, handler, &memTokens{token: signedToken(t, time.Now().Add(-time.Minute))})

	_, err := client.Me(context.Background())
	assert.True(t, errors.Is(err, common.ErrTokenExpired))
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_LoginRejected(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "wrong password"})
	})
	client := newTestClient(t, handler, nil)

	_, err := client.Login(context.Background(), forms.LoginForm{Email: "a@b.co", Password: "x"})
	var authErr *common.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, MsgInvalidCredentials, authErr.Message)
	assert.Equal(t, common.KindAuth, common.Classify(err))
}

func TestClient_RegisterRejectedUsesServerMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/register-customer", r.URL.Path)
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Email already registered"})
	})
	client := newTestClient(t, handler, nil)

	err := client.Register(context.Background(), forms.RegisterForm{Email: "a@b.co"})
	var authErr *common.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "Email already registered", authErr.Message)
}

func TestClient_HTTPError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"boom"}`)
	})
	client := newTestClient(t, handler, &memTokens{token: "opaque"})

	_, err := client.GetTransaction(context.Background(), "trx-1")
	var httpErr *common.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Contains(t, httpErr.Body, "boom")
	assert.Equal(t, "transactions/trx-1", httpErr.Path)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client, err := NewClient(Config{BaseURL: srv.URL + "/api/v1/"}, &memTokens{token: "opaque"})
	require.NoError(t, err)
	srv.Close()

	_, err = client.ListTransactions(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNetwork))
	assert.Equal(t, common.KindNetwork, common.Classify(err))
}

func TestClient_CancelledContext(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{}})
	})
	client := newTestClient(t, handler, &memTokens{token: "opaque"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListTransactions(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_RequestDecodesRawBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pagination=false", r.URL.RawQuery)
		_, _ = io.WriteString(w, `{"data":[],"message":"ok"}`)
	})
	client := newTestClient(t, handler, &memTokens{token: "opaque"})

	var out struct {
		Message string `json:"message"`
	}
	err := client.Request(context.Background(), http.MethodGet, "/transactions/user?pagination=false", nil, true, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Message)
}

func TestClient_InvalidJSONIsSchemaError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"data": {"fullName": 42}}`)
	})
	client := newTestClient(t, handler, &memTokens{token: "opaque"})

	_, err := client.Me(context.Background())
	var schemaErr *common.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.True(t, strings.Contains(schemaErr.Reason, "fullName"))
}
