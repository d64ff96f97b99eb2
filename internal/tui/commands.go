package tui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/HikeSafe-Project/mobile/internal/aggregate"
)

// fetches tracks the latest fetch of each kind. Starting a fetch cancels the
// one it supersedes; completion messages carry the sequence number they
// were started with so stale results can be recognised and dropped.
type fetches struct {
	seq     map[fetchKind]uint64
	cancels map[fetchKind]context.CancelFunc
	mu      sync.Mutex
}

func newFetches() *fetches {
	return &fetches{
		seq:     make(map[fetchKind]uint64),
		cancels: make(map[fetchKind]context.CancelFunc),
	}
}

// start supersedes any fetch of the same kind and returns the context and
// sequence number of the new one.
func (f *fetches) start(parent context.Context, kind fetchKind, timeout time.Duration) (context.Context, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cancel, ok := f.cancels[kind]; ok {
		cancel()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	f.cancels[kind] = cancel
	f.seq[kind]++
	return ctx, f.seq[kind]
}

// finish reports whether seq is still the latest fetch of kind, releasing
// its context if so.
func (f *fetches) finish(kind fetchKind, seq uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seq[kind] != seq {
		return false
	}
	if cancel, ok := f.cancels[kind]; ok {
		cancel()
		delete(f.cancels, kind)
	}
	return true
}

// inFlight reports whether a fetch of kind has not completed yet.
func (f *fetches) inFlight(kind fetchKind) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.cancels[kind]
	return ok
}

// cancelAll abandons every fetch; their results will be dropped.
func (f *fetches) cancelAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for kind, cancel := range f.cancels {
		cancel()
		delete(f.cancels, kind)
		f.seq[kind]++
	}
}

// loadTransactions fetches the full history; each tab applies its own view
// of it.
func (m Model) loadTransactions() tea.Cmd {
	ctx, seq := m.fetches.start(m.ctx, fetchTransactions, m.config.FetchTimeout)
	source := m.config.Source
	return func() tea.Msg {
		list, err := source.Transactions(ctx, aggregate.Query{})
		return transactionsLoadedMsg{transactions: list, err: err, seq: seq}
	}
}

// loadDashboard fetches the profile and statistics.
func (m Model) loadDashboard() tea.Cmd {
	ctx, seq := m.fetches.start(m.ctx, fetchDashboard, m.config.FetchTimeout)
	source := m.config.Source
	return func() tea.Msg {
		dash, err := source.LoadDashboard(ctx)
		return dashboardLoadedMsg{dash: dash, err: err, seq: seq}
	}
}

// refresh reloads the data behind tab.
func (m Model) refresh(tab Tab) tea.Cmd {
	if tab == TabProfile {
		return m.loadDashboard()
	}
	return m.loadTransactions()
}
