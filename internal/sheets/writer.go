package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/model"
)

// historySheet is the tab the export writes to.
const historySheet = "History"

// Layout of the rows BuildRows produces.
const (
	headerRow   = 8
	firstTxnRow = headerRow + 1
	columnCount = 7
	amountCol   = 6
)

// Report is what one export writes.
type Report struct {
	Filter       string
	Transactions []model.Transaction
	Statistics   model.Statistics
}

// Writer exports hiking history to a Google spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
	// sheetID is the numeric id of the History tab once resolved.
	sheetID int64
}

// NewWriter validates config and connects to the Sheets API with whichever
// credentials it carries.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ts, err := tokenSource(ctx, config)
	if err != nil {
		return nil, err
	}
	service, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return newWriter(service, config, logger), nil
}

func newWriter(service *sheets.Service, config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{service: service, config: config, logger: logger}
}

// tokenSource prefers a service account key and falls back to the stored
// OAuth2 refresh token.
func tokenSource(ctx context.Context, config Config) (oauth2.TokenSource, error) {
	if config.ServiceAccountPath == "" {
		token := &oauth2.Token{RefreshToken: config.RefreshToken, TokenType: "Bearer"}
		return oauthConfig(config.ClientID, config.ClientSecret, "").TokenSource(ctx, token), nil
	}

	key, err := os.ReadFile(config.ServiceAccountPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account key file: %w", err)
	}
	jwtConfig, err := google.JWTConfigFromJSON(key, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account key: %w", err)
	}
	return jwtConfig.TokenSource(ctx), nil
}

type exportStep struct {
	run      func(context.Context) error
	name     string
	optional bool
}

// Write replaces the History tab with report and returns the spreadsheet
// id.
func (w *Writer) Write(ctx context.Context, report Report) (string, error) {
	w.logger.Info("starting history export",
		"transactions", len(report.Transactions),
		"filter", report.Filter)

	var id string
	if err := w.retry(ctx, func(ctx context.Context) error {
		var err error
		id, err = w.prepareSpreadsheet(ctx)
		return err
	}); err != nil {
		return "", fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	rows := BuildRows(report)
	steps := []exportStep{
		{name: "clear sheet", run: func(ctx context.Context) error { return w.clearSheet(ctx, id) }},
		{name: "write data", run: func(ctx context.Context) error { return w.writeRows(ctx, id, rows) }},
	}
	if w.config.EnableFormatting {
		steps = append(steps, exportStep{
			name:     "apply formatting",
			run:      func(ctx context.Context) error { return w.format(ctx, id, len(rows)) },
			optional: true,
		})
	}

	for _, step := range steps {
		err := w.retry(ctx, step.run)
		switch {
		case err == nil:
		case step.optional:
			w.logger.Warn("export step failed", "step", step.name, "error", err)
		default:
			return "", fmt.Errorf("failed to %s: %w", step.name, err)
		}
	}

	w.logger.Info("history export completed",
		"spreadsheet_id", id,
		"rows_written", len(rows))

	return id, nil
}

func (w *Writer) retry(ctx context.Context, fn func(context.Context) error) error {
	opts := w.config.RetryOptions()
	opts.Logger = w.logger
	return common.WithRetry(ctx, func() error { return retryable(fn(ctx)) }, opts)
}

// retryable marks Google API errors that are worth another attempt: rate
// limits and server errors. Everything else fails immediately.
func retryable(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return &common.RetryableError{Err: err, Retryable: true}
	}
	if apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	}
	return &common.RetryableError{Err: err, Retryable: apiErr.Code >= http.StatusInternalServerError}
}

// prepareSpreadsheet opens the configured spreadsheet, adding a History tab
// if it has none, or creates a new spreadsheet. Either way w.sheetID ends up
// pointing at the History tab.
func (w *Writer) prepareSpreadsheet(ctx context.Context) (string, error) {
	id := w.config.SpreadsheetID
	if id == "" {
		return w.createSpreadsheet(ctx)
	}

	existing, err := w.service.Spreadsheets.Get(id).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to access spreadsheet %s: %w", id, err)
	}
	for _, s := range existing.Sheets {
		if s.Properties != nil && s.Properties.Title == historySheet {
			w.sheetID = s.Properties.SheetId
			return id, nil
		}
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(id, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: historySheet}},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to add %s tab: %w", historySheet, err)
	}
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil {
		w.sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	}
	w.logger.Debug("added history tab", "spreadsheet_id", id, "sheet_id", w.sheetID)
	return id, nil
}

func (w *Writer) createSpreadsheet(ctx context.Context) (string, error) {
	created, err := w.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: historySheet}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	// Later exports through this writer reuse it.
	w.config.SpreadsheetID = created.SpreadsheetId
	if len(created.Sheets) > 0 && created.Sheets[0].Properties != nil {
		w.sheetID = created.Sheets[0].Properties.SheetId
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

func (w *Writer) clearSheet(ctx context.Context, id string) error {
	_, err := w.service.Spreadsheets.Values.Clear(id, historySheet+"!A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// writeRows sends the rows BatchSize at a time.
func (w *Writer) writeRows(ctx context.Context, id string, rows [][]any) error {
	size := max(w.config.BatchSize, 1)
	start := 1
	for chunk := range slices.Chunk(rows, size) {
		rng := fmt.Sprintf("%s!A%d", historySheet, start)
		_, err := w.service.Spreadsheets.Values.Update(id, rng, &sheets.ValueRange{Values: chunk}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", start, err)
		}
		w.logger.Debug("wrote batch", "start_row", start, "rows", len(chunk))
		start += len(chunk)
	}
	return nil
}

// BuildRows lays out the export: a title, the statistics block, then one row
// per transaction in the order given.
func BuildRows(report Report) [][]any {
	filter := report.Filter
	if filter == "" {
		filter = "All transactions"
	}

	rows := make([][]any, 0, firstTxnRow+len(report.Transactions))
	rows = append(rows,
		[]any{"HikeSafe Hiking History", filter},
		[]any{},
		[]any{"Statistics"},
		[]any{"Total Hikes", report.Statistics.TotalHikes},
		[]any{"Total Days", report.Statistics.TotalDays},
		[]any{"Total Hours", report.Statistics.TotalHours},
		[]any{},
		[]any{"Transactions"},
		[]any{"Created", "Status", "Start", "End", "Hikers", "Tickets", "Total (Rp)"},
	)

	for _, txn := range report.Transactions {
		var created string
		if !txn.CreatedAt.IsZero() {
			created = txn.CreatedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []any{
			created,
			string(txn.Status),
			txn.StartDate.String(),
			txn.EndDate.String(),
			strings.Join(txn.HikerNames(), ", "),
			len(txn.Tickets),
			txn.TotalAmount,
		})
	}

	return rows
}

func (w *Writer) grid(rowStart, rowEnd, colStart, colEnd int64) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          w.sheetID,
		StartRowIndex:    rowStart,
		EndRowIndex:      rowEnd,
		StartColumnIndex: colStart,
		EndColumnIndex:   colEnd,
		ForceSendFields:  []string{"SheetId"},
	}
}

func cellFormat(rng *sheets.GridRange, format *sheets.CellFormat, fields string) *sheets.Request {
	return &sheets.Request{RepeatCell: &sheets.RepeatCellRequest{
		Range:  rng,
		Cell:   &sheets.CellData{UserEnteredFormat: format},
		Fields: fields,
	}}
}

func boldText(size int64) *sheets.CellFormat {
	return &sheets.CellFormat{TextFormat: &sheets.TextFormat{Bold: true, FontSize: size}}
}

// format bolds the title and headers, shows amounts in Rupiah and freezes
// everything above the first transaction.
func (w *Writer) format(ctx context.Context, id string, totalRows int) error {
	const textFields = "userEnteredFormat.textFormat"

	requests := []*sheets.Request{
		cellFormat(w.grid(0, 1, 0, 2), boldText(16), textFields),
		cellFormat(w.grid(2, 3, 0, 1), boldText(12), textFields),
		cellFormat(w.grid(headerRow-1, firstTxnRow, 0, columnCount), boldText(11), textFields),
		{AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: &sheets.DimensionRange{
				SheetId:         w.sheetID,
				Dimension:       "COLUMNS",
				EndIndex:        columnCount,
				ForceSendFields: []string{"SheetId", "StartIndex"},
			},
		}},
		{UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId:         w.sheetID,
				GridProperties:  &sheets.GridProperties{FrozenRowCount: firstTxnRow},
				ForceSendFields: []string{"SheetId"},
			},
			Fields: "gridProperties.frozenRowCount",
		}},
	}
	if totalRows > firstTxnRow {
		requests = append(requests, cellFormat(
			w.grid(firstTxnRow, int64(totalRows), amountCol, amountCol+1),
			&sheets.CellFormat{NumberFormat: &sheets.NumberFormat{Type: "CURRENCY", Pattern: `"Rp"#,##0`}},
			"userEnteredFormat.numberFormat",
		))
	}

	_, err := w.service.Spreadsheets.BatchUpdate(id, &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
	return err
}
