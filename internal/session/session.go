// Package session holds the per-run dependencies the screens share: the
// token store, the API client and a logger. It replaces global state; every
// command and TUI screen receives a *Session explicitly.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/HikeSafe-Project/mobile/internal/aggregate"
	"github.com/HikeSafe-Project/mobile/internal/booking"
	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/forms"
	"github.com/HikeSafe-Project/mobile/internal/model"
)

// TokenStore persists the bearer token.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// API is the subset of api.Client the session uses.
type API interface {
	Login(ctx context.Context, form forms.LoginForm) (string, error)
	Register(ctx context.Context, form forms.RegisterForm) error
	Me(ctx context.Context) (model.Profile, error)
	ChangePassword(ctx context.Context, form forms.ChangePasswordForm) error
	UpdateProfile(ctx context.Context, form forms.ProfileForm) error
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	GetTransaction(ctx context.Context, id string) (model.Transaction, error)
	CreateTransaction(ctx context.Context, req booking.Request) (string, error)
	CreatePaymentLink(ctx context.Context, id string) (string, error)
}

// Session is the explicit context threaded through screens.
type Session struct {
	Tokens TokenStore
	API    API
	Logger *slog.Logger
}

// New creates a session.
func New(tokens TokenStore, api API, logger *slog.Logger) *Session {
	if logger == nil {
		logger = common.ComponentLogger("session")
	}
	return &Session{Tokens: tokens, API: api, Logger: logger}
}

// Login validates the form, exchanges the credentials for a token and
// stores it.
func (s *Session) Login(ctx context.Context, form forms.LoginForm) error {
	if err := form.Validate(); err != nil {
		return err
	}

	token, err := s.API.Login(ctx, form)
	if err != nil {
		return err
	}
	if err := s.Tokens.Set(ctx, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	s.Logger.Info("Logged in", "token", common.RedactToken(token))
	return nil
}

// Register validates the form and creates the account. It does not log in.
func (s *Session) Register(ctx context.Context, form forms.RegisterForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	return s.API.Register(ctx, form)
}

// ChangePassword validates the form and updates the password.
func (s *Session) ChangePassword(ctx context.Context, form forms.ChangePasswordForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	return s.API.ChangePassword(ctx, form)
}

// UpdateProfile validates the form and saves it.
func (s *Session) UpdateProfile(ctx context.Context, form forms.ProfileForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	return s.API.UpdateProfile(ctx, form)
}

// Book validates the draft and submits it, returning the new transaction
// id.
func (s *Session) Book(ctx context.Context, draft *booking.Draft) (string, error) {
	req, err := draft.Request()
	if err != nil {
		return "", err
	}
	return s.API.CreateTransaction(ctx, req)
}

// Logout clears the stored token. Later authenticated calls fail before
// they are sent.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.Tokens.Clear(ctx); err != nil {
		return err
	}
	s.Logger.Info("Logged out")
	return nil
}

// Authenticated reports whether a token is stored.
func (s *Session) Authenticated(ctx context.Context) (bool, error) {
	_, err := s.Tokens.Get(ctx)
	if errors.Is(err, common.ErrNoToken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Transactions fetches the booking history and narrows it with q, newest
// first.
func (s *Session) Transactions(ctx context.Context, q aggregate.Query) ([]model.Transaction, error) {
	list, err := s.API.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	filtered := aggregate.Apply(list, q)
	s.Logger.Debug("Loaded transactions", "total", len(list), "shown", len(filtered))
	return filtered, nil
}

// Dashboard is the profile screen state.
type Dashboard struct {
	Profile      model.Profile
	Transactions []model.Transaction
	Statistics   model.Statistics
	// StatsErr records why statistics are zero, if they failed.
	StatsErr error
}

// LoadDashboard fetches the profile and the transaction list concurrently.
// A failed profile fetch is returned. A failed transaction fetch leaves zero
// statistics and is only logged, matching the profile screen.
func (s *Session) LoadDashboard(ctx context.Context) (Dashboard, error) {
	var dash Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := s.API.Me(gctx)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		dash.Profile = profile
		return nil
	})

	g.Go(func() error {
		list, err := s.API.ListTransactions(gctx)
		if err != nil {
			s.Logger.Warn("Failed to load statistics", "error", err, "kind", common.Classify(err))
			dash.StatsErr = err
			return nil
		}
		dash.Transactions = list
		dash.Statistics = aggregate.ComputeStatistics(list)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return dash, nil
}
