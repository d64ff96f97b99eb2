package tui

import (
	"github.com/HikeSafe-Project/mobile/internal/model"
	"github.com/HikeSafe-Project/mobile/internal/session"
)

// fetchKind names an independent background fetch. Each kind has its own
// sequence counter so one tab's refresh never supersedes another's.
type fetchKind int

const (
	fetchTransactions fetchKind = iota
	fetchDashboard
)

func (k fetchKind) String() string {
	switch k {
	case fetchTransactions:
		return "transactions"
	case fetchDashboard:
		return "profile"
	default:
		return "unknown"
	}
}

// Data loading messages. seq identifies the fetch that produced them; a
// message whose seq is not the latest for its kind is dropped.
type transactionsLoadedMsg struct {
	err          error
	transactions []model.Transaction
	seq          uint64
}

type dashboardLoadedMsg struct {
	err  error
	dash session.Dashboard
	seq  uint64
}

// Tab identifies a top level screen.
type Tab int

// Tabs in display order.
const (
	TabTransactions Tab = iota
	TabTracking
	TabProfile
)

var tabNames = [...]string{"Transactions", "Tracking", "Profile"}

func (t Tab) String() string {
	return tabNames[t]
}
