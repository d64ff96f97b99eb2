package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/model"
)

func TestBuildRows(t *testing.T) {
	report := Report{
		Filter: "DONE",
		Transactions: []model.Transaction{
			{
				ID:          "trx-1",
				Status:      model.StatusDone,
				CreatedAt:   time.Date(2024, 12, 1, 8, 30, 0, 0, time.UTC),
				StartDate:   model.MustParseDate("2024-12-12"),
				EndDate:     model.MustParseDate("2024-12-13"),
				TotalAmount: 60000,
				Tickets: []model.Ticket{
					{HikerName: "Budi"},
					{HikerName: "Anna"},
				},
			},
			{ID: "trx-2", Status: model.StatusDone, Tickets: []model.Ticket{{HikerName: "Sari"}}},
		},
		Statistics: model.Statistics{TotalHikes: 2, TotalDays: 1, TotalHours: 24},
	}

	rows := BuildRows(report)
	require.Len(t, rows, 11)

	assert.Equal(t, []any{"HikeSafe Hiking History", "DONE"}, rows[0])
	assert.Equal(t, []any{"Total Hikes", 2}, rows[3])
	assert.Equal(t, []any{"Total Hours", 24.0}, rows[5])
	assert.Equal(t, "Created", rows[8][0])
	assert.Equal(t, []any{"2024-12-01 08:30", "DONE", "2024-12-12", "2024-12-13", "Budi, Anna", 2, int64(60000)}, rows[9])
	assert.Equal(t, []any{"", "DONE", "", "", "Sari", 1, int64(0)}, rows[10])
}

func TestBuildRows_DefaultFilterLabel(t *testing.T) {
	rows := BuildRows(Report{})
	require.Len(t, rows, 9)
	assert.Equal(t, "All transactions", rows[0][1])
}

func TestRetryable(t *testing.T) {
	assert.NoError(t, retryable(nil))

	rateLimited := retryable(&googleapi.Error{Code: http.StatusTooManyRequests})
	assert.True(t, errors.Is(rateLimited, common.ErrRateLimit))

	serverErr := retryable(&googleapi.Error{Code: http.StatusBadGateway})
	assert.True(t, common.IsRetryable(serverErr))

	forbidden := retryable(&googleapi.Error{Code: http.StatusForbidden})
	assert.False(t, common.IsRetryable(forbidden))
}

func TestTokenFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, SaveToken(path, token))

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, token.AccessToken, loaded.AccessToken)
	assert.Equal(t, token.RefreshToken, loaded.RefreshToken)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))

	_, err = LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

// fakeSheets serves just enough of the Sheets v4 REST surface for Write.
type fakeSheets struct {
	mu        sync.Mutex
	calls     []string
	bodies    map[string][]string
	existing  string
	failClear int
	failWrite int
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := r.URL.Path

	f.mu.Lock()
	defer f.mu.Unlock()

	var kind string
	switch {
	case r.Method == http.MethodPost && path == "/v4/spreadsheets":
		kind = "create"
	case r.Method == http.MethodGet:
		kind = "get"
	case strings.HasSuffix(path, ":batchUpdate"):
		kind = "batchUpdate"
	case strings.HasSuffix(path, ":clear"):
		kind = "clear"
	case r.Method == http.MethodPut:
		kind = "update"
	default:
		http.NotFound(w, r)
		return
	}
	f.calls = append(f.calls, kind)
	f.bodies[kind] = append(f.bodies[kind], string(body))

	fail := func(code int) {
		w.WriteHeader(code)
		_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"nope"}}`, code)
	}

	switch kind {
	case "create":
		_, _ = io.WriteString(w, `{"spreadsheetId":"new-sheet","spreadsheetUrl":"https://example.test/new-sheet",
			"sheets":[{"properties":{"sheetId":42,"title":"History"}}]}`)
	case "get":
		_, _ = fmt.Fprintf(w, `{"spreadsheetId":%q,"sheets":[{"properties":{"sheetId":0,"title":"Sheet1"}}]}`, f.existing)
	case "batchUpdate":
		if len(f.bodies[kind]) == 1 && strings.Contains(string(body), "addSheet") {
			_, _ = io.WriteString(w, `{"replies":[{"addSheet":{"properties":{"sheetId":7,"title":"History"}}}]}`)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	case "clear":
		if f.failClear > 0 {
			f.failClear--
			fail(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	case "update":
		if f.failWrite > 0 {
			fail(http.StatusForbidden)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	}
}

func (f *fakeSheets) count(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bodies[kind])
}

func (f *fakeSheets) body(kind string, i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[kind][i]
}

func newFakeWriter(t *testing.T, fake *fakeSheets, mutate func(*Config)) *Writer {
	t.Helper()
	fake.bodies = map[string][]string{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	service, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.RetryDelay = time.Millisecond
	if mutate != nil {
		mutate(&cfg)
	}
	return newWriter(service, cfg, nil)
}

func exportReport() Report {
	return Report{
		Filter: "Status DONE",
		Transactions: []model.Transaction{
			{ID: "trx-1", Status: model.StatusDone, TotalAmount: 50000, Tickets: []model.Ticket{{HikerName: "Sari"}, {HikerName: "Budi"}}},
			{ID: "trx-2", Status: model.StatusDone, TotalAmount: 25000, Tickets: []model.Ticket{{HikerName: "Tom"}}},
		},
		Statistics: model.Statistics{TotalHikes: 2},
	}
}

func TestWriter_WriteCreatesSpreadsheet(t *testing.T) {
	fake := &fakeSheets{failClear: 1}
	w := newFakeWriter(t, fake, func(c *Config) { c.BatchSize = 4 })

	id, err := w.Write(context.Background(), exportReport())
	require.NoError(t, err)
	assert.Equal(t, "new-sheet", id)
	assert.Equal(t, "new-sheet", w.config.SpreadsheetID)
	assert.Equal(t, int64(42), w.sheetID)

	assert.Equal(t, 1, fake.count("create"))
	assert.GreaterOrEqual(t, fake.count("clear"), 2, "503 on clear is retried")
	// 11 rows in batches of 4.
	require.Equal(t, 3, fake.count("update"))
	assert.Contains(t, fake.body("update", 0), "HikeSafe Hiking History")
	assert.Contains(t, fake.body("update", 2), "Sari, Budi")

	require.Equal(t, 1, fake.count("batchUpdate"))
	format := fake.body("batchUpdate", 0)
	assert.Contains(t, format, `"sheetId":42`)
	assert.Contains(t, format, `Rp`)
	assert.Contains(t, format, `"frozenRowCount":9`)
}

func TestWriter_WriteAddsHistoryTab(t *testing.T) {
	fake := &fakeSheets{existing: "existing"}
	w := newFakeWriter(t, fake, func(c *Config) {
		c.SpreadsheetID = "existing"
		c.EnableFormatting = false
	})

	id, err := w.Write(context.Background(), exportReport())
	require.NoError(t, err)
	assert.Equal(t, "existing", id)
	assert.Equal(t, int64(7), w.sheetID)
	assert.Zero(t, fake.count("create"))
	require.Equal(t, 1, fake.count("batchUpdate"))
	assert.Contains(t, fake.body("batchUpdate", 0), `"title":"History"`)
	assert.Equal(t, 1, fake.count("update"))
}

func TestWriter_WriteStopsOnForbidden(t *testing.T) {
	fake := &fakeSheets{failWrite: 1}
	w := newFakeWriter(t, fake, nil)

	_, err := w.Write(context.Background(), exportReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write data")

	var apiErr *googleapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Code)
	assert.Equal(t, 1, fake.count("update"))
	assert.Zero(t, fake.count("batchUpdate"))
}
