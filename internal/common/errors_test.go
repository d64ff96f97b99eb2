package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation", err: NewValidationError("email", "Email is required"), want: KindValidation},
		{name: "wrapped validation", err: fmt.Errorf("login: %w", NewValidationError("email", "x")), want: KindValidation},
		{name: "no token", err: fmt.Errorf("list: %w", ErrNoToken), want: KindUnauthenticated},
		{name: "expired token", err: ErrTokenExpired, want: KindUnauthenticated},
		{name: "auth", err: &AuthError{Message: "Invalid email or password!"}, want: KindAuth},
		{name: "http 500", err: &HTTPError{Status: 500}, want: KindHTTP},
		{name: "http 401", err: &HTTPError{Status: 401}, want: KindUnauthenticated},
		{name: "schema", err: &SchemaError{Field: "status", Reason: "bad"}, want: KindSchema},
		{name: "network", err: &NetworkError{Method: "GET", Path: "/x", Err: errors.New("dial tcp")}, want: KindNetwork},
		{name: "deadline", err: context.DeadlineExceeded, want: KindNetwork},
		{name: "unknown", err: errors.New("boom"), want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Invalid email or password!", UserMessage(&AuthError{Message: "Invalid email or password!"}))
	assert.Equal(t, "Please log in again.", UserMessage(ErrNoToken))
	assert.Equal(t, "Failed to fetch invoice data.", UserMessage(NewUserError("Failed to fetch invoice data.", errors.New("x"))))
	assert.Contains(t, UserMessage(&NetworkError{Err: errors.New("timeout")}), "Cannot reach the server")
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"password": "Password is required",
		"email":    "Invalid email format",
	}}

	assert.Equal(t, "validation failed: email: Invalid email format; password: Password is required", err.Error())
	assert.Equal(t, "Invalid email format", err.Field("email"))
	assert.Empty(t, err.Field("name"))
}

func TestHTTPError_TruncatesBody(t *testing.T) {
	body := make([]byte, 300)
	for i := range body {
		body[i] = 'a'
	}
	err := &HTTPError{Method: "GET", Path: "/auth/me", Status: 502, Body: string(body)}
	assert.Contains(t, err.Error(), "status 502")
	assert.Less(t, len(err.Error()), 260)
}

func TestNetworkError_IsErrNetwork(t *testing.T) {
	err := fmt.Errorf("fetch: %w", &NetworkError{Method: "GET", Path: "/x", Err: errors.New("refused")})
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestWithRetry(t *testing.T) {
	opts := RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

	t.Run("succeeds after transient failure", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 2 {
				return errors.New("transient")
			}
			return nil
		}, opts)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("stops on non-retryable", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return &RetryableError{Err: errors.New("bad request"), Retryable: false}
		}, opts)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return errors.New("down")
		}, opts)
		require.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorContains(t, err, "down")
		assert.Equal(t, 3, calls)
	})

	t.Run("honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := WithRetry(ctx, func() error { return errors.New("down") }, RetryOptions{MaxAttempts: 5, InitialDelay: time.Second})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRedactToken(t *testing.T) {
	assert.Equal(t, "<none>", RedactToken(""))
	assert.Equal(t, "<redacted>", RedactToken("short"))
	assert.Equal(t, "eyJh...wxyz", RedactToken("eyJhbGciOiJIUzI1NiJ9.payload.wxyz"))
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("hiker@hikesafe.id"))
	assert.False(t, IsEmail("hiker@"))
	assert.False(t, IsEmail("not an email"))
}
