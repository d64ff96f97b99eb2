package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// DefaultCallbackAddr is where the interactive flow listens for the
// redirect.
const DefaultCallbackAddr = "localhost:8080"

const defaultConsentTimeout = 5 * time.Minute

// ErrNoAuthCode is returned when Google redirects back without a code,
// usually because the user declined.
var ErrNoAuthCode = errors.New("no authorization code received")

// OAuth2Config drives the interactive consent flow and token refreshes.
type OAuth2Config struct {
	// Prompt receives the consent URL. Nil logs it instead.
	Prompt       io.Writer
	ClientID     string
	ClientSecret string
	// TokenFile is where obtained tokens are saved. Empty skips saving.
	TokenFile    string
	CallbackAddr string
	// Endpoint overrides Google's OAuth2 endpoints.
	Endpoint oauth2.Endpoint
	Timeout  time.Duration
}

func (c OAuth2Config) clientConfig(redirectURL string) *oauth2.Config {
	endpoint := c.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

func oauthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return OAuth2Config{ClientID: clientID, ClientSecret: clientSecret}.clientConfig(redirectURL)
}

const (
	callbackOK = `<html><body>
<h1>HikeSafe is authorised</h1>
<p>You can close this window and return to the terminal.</p>
</body></html>`
	callbackDenied = `<html><body>
<h1>Authorisation failed</h1>
<p>Google sent no authorization code. Run <code>hikesafe export auth</code> again.</p>
</body></html>`
)

// callbackResult is the outcome of the single redirect the flow waits for.
type callbackResult struct {
	err  error
	code string
}

// callbackHandler accepts the first redirect carrying state and ignores
// everything after it.
func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	deliver := func(res callbackResult) {
		select {
		case results <- res:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		code := q.Get("code")
		if code == "" {
			deliver(callbackResult{err: ErrNoAuthCode})
			_, _ = io.WriteString(w, callbackDenied)
			return
		}
		deliver(callbackResult{code: code})
		_, _ = io.WriteString(w, callbackOK)
	})
	return mux
}

// AuthenticateOAuth2Interactive runs the consent flow: it shows a consent
// URL, waits for Google to redirect to a local callback, then exchanges the
// code for a token and saves it to TokenFile.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	addr := config.CallbackAddr
	if addr == "" {
		addr = DefaultCallbackAddr
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultConsentTimeout
	}

	cfg := config.clientConfig("http://" + addr + "/callback")
	state := uuid.NewString()
	results := make(chan callbackResult, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	server := &http.Server{Handler: callbackHandler(state, results), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			select {
			case results <- callbackResult{err: fmt.Errorf("callback server failed: %w", err)}:
			default:
			}
		}
	}()
	defer func() {
		if err := server.Shutdown(context.Background()); err != nil {
			slog.Warn("Error shutting down callback server", "error", err)
		}
	}()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	if config.Prompt != nil {
		_, _ = fmt.Fprintf(config.Prompt, "Visit this URL to authorise Google Sheets access:\n\n  %s\n\n", authURL)
	} else {
		slog.Info("Google Sheets authorisation required", "url", authURL)
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var res callbackResult
	select {
	case res = <-results:
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("authentication timeout: no response received within %s", timeout)
	}
	if res.err != nil {
		return nil, res.err
	}

	token, err := cfg.Exchange(ctx, res.code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	config.persist(token)
	return token, nil
}

func (c OAuth2Config) persist(token *oauth2.Token) {
	if c.TokenFile == "" {
		return
	}
	if err := SaveToken(c.TokenFile, token); err != nil {
		slog.Warn("Failed to save token", "error", err, "file", c.TokenFile)
		return
	}
	slog.Debug("Token saved", "file", c.TokenFile)
}

// LoadToken reads a token saved by SaveToken.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", path, err)
	}
	return &token, nil
}

// SaveToken writes token to path with owner-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// RefreshTokenIfNeeded returns token unchanged while it is valid and
// otherwise trades its refresh token for a new one, saving the result.
func RefreshTokenIfNeeded(ctx context.Context, config OAuth2Config, token *oauth2.Token) (*oauth2.Token, error) {
	if token.Valid() {
		return token, nil
	}
	if token.RefreshToken == "" {
		return nil, errors.New("saved token has expired and has no refresh token")
	}

	fresh, err := config.clientConfig("").TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = token.RefreshToken
	}
	config.persist(fresh)
	return fresh, nil
}

// GetOrCreateToken reuses the token in TokenFile when it can still be used
// or refreshed, and falls back to the interactive flow otherwise.
func GetOrCreateToken(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	if config.TokenFile != "" {
		saved, err := LoadToken(config.TokenFile)
		if err == nil {
			token, refreshErr := RefreshTokenIfNeeded(ctx, config, saved)
			if refreshErr == nil {
				return token, nil
			}
			slog.Info("Saved token unusable, asking for consent again", "error", refreshErr)
		}
	}
	return AuthenticateOAuth2Interactive(ctx, config)
}
