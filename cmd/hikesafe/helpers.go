package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/HikeSafe-Project/mobile/internal/aggregate"
	"github.com/HikeSafe-Project/mobile/internal/api"
	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/config"
	"github.com/HikeSafe-Project/mobile/internal/model"
	"github.com/HikeSafe-Project/mobile/internal/session"
	"github.com/HikeSafe-Project/mobile/internal/storage"
)

// app is what every networked command needs: the token database, the API
// client and the session tying them together.
type app struct {
	store   *storage.SQLiteStorage
	client  *api.Client
	session *session.Session
}

// initStorage opens the token database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.StoragePath(viper.GetViper())

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newApp wires storage, the API client and the session.
func newApp(ctx context.Context) (*app, error) {
	apiCfg, err := config.LoadAPIConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}

	tokens := storage.NewTokenStore(store)
	client, err := api.NewClient(apiCfg, tokens)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	slog.Debug("Initialized client", "base_url", client.BaseURL(), "database", store.Path())

	return &app{
		store:   store,
		client:  client,
		session: session.New(tokens, client, common.ComponentLogger("session")),
	}, nil
}

// Close releases the database.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// withApp runs fn with a ready app and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// addQueryFlags registers the transaction filter flags.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("status", "ALL", "status filter (ALL, DONE, CANCELLED, START, PENDING, BOOKED, UNPAID)")
	cmd.Flags().String("from", "", "only hikes starting on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "only hikes ending on or before this date (YYYY-MM-DD)")
}

// queryFromFlags builds the filter from the flags addQueryFlags registered.
func queryFromFlags(cmd *cobra.Command) (aggregate.Query, error) {
	status, _ := cmd.Flags().GetString("status")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	return parseQuery(status, from, to)
}

func parseQuery(status, from, to string) (aggregate.Query, error) {
	var q aggregate.Query

	s, err := model.ParseFilterStatus(status)
	if err != nil {
		return q, common.NewValidationError("status", err.Error())
	}
	q.Status = s

	if q.Start, err = parseBound("from", from); err != nil {
		return q, err
	}
	if q.End, err = parseBound("to", to); err != nil {
		return q, err
	}
	return q, nil
}

func parseBound(field, raw string) (*model.Date, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return nil, common.NewValidationError(field, "Use the YYYY-MM-DD format.")
	}
	return &d, nil
}

// describeQuery renders a filter for headings and the export sheet.
func describeQuery(q aggregate.Query) string {
	if q.IsZero() {
		return "All transactions"
	}
	desc := "Status " + string(q.Status)
	if q.Status == "" {
		desc = "Status ALL"
	}
	if q.Start != nil {
		desc += ", from " + q.Start.String()
	}
	if q.End != nil {
		desc += ", to " + q.End.String()
	}
	return desc
}

// printJSON writes v indented.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
