// Package aggregate derives filtered views and hiking statistics from a
// transaction list. Every function is pure: inputs are never modified and
// results are recomputed from the authoritative list on each call.
package aggregate

import (
	"math"
	"sort"

	"github.com/HikeSafe-Project/mobile/internal/model"
)

// FilterByStatus returns the transactions whose status equals status, in
// their original order. model.StatusAll returns list unchanged.
func FilterByStatus(list []model.Transaction, status model.TransactionStatus) []model.Transaction {
	if status == model.StatusAll || status == "" {
		return list
	}

	out := make([]model.Transaction, 0, len(list))
	for _, txn := range list {
		if txn.Status == status {
			out = append(out, txn)
		}
	}
	return out
}

// FilterByDateRange keeps transactions whose StartDate is on or after start
// and whose EndDate is on or before end. A nil bound imposes no constraint.
// A transaction missing the date a present bound compares against is
// excluded.
func FilterByDateRange(list []model.Transaction, start, end *model.Date) []model.Transaction {
	if !bounded(start) && !bounded(end) {
		return list
	}

	out := make([]model.Transaction, 0, len(list))
	for _, txn := range list {
		if bounded(start) && (!txn.StartDate.IsSet() || txn.StartDate.Before(start.Time)) {
			continue
		}
		if bounded(end) && (!txn.EndDate.IsSet() || txn.EndDate.After(end.Time)) {
			continue
		}
		out = append(out, txn)
	}
	return out
}

func bounded(d *model.Date) bool {
	return d != nil && d.IsSet()
}

// SortByCreatedAtDesc returns a copy of list ordered newest first. Equal
// timestamps keep their original relative order.
func SortByCreatedAtDesc(list []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ComputeStatistics summarises completed hikes. Only DONE transactions
// count. Each one adds to TotalHikes; those with both dates also add their
// length in whole days (rounded up) and in hours.
func ComputeStatistics(list []model.Transaction) model.Statistics {
	var stats model.Statistics
	for _, txn := range FilterByStatus(list, model.StatusDone) {
		stats.TotalHikes++

		d, ok := txn.Duration()
		if !ok {
			continue
		}
		stats.TotalDays += int(math.Ceil(d.Hours() / 24))
		stats.TotalHours += d.Hours()
	}
	return stats
}

// Query is the filter state of the transaction screen.
type Query struct {
	Start  *model.Date
	End    *model.Date
	Status model.TransactionStatus
}

// Apply runs the status filter, then the date filter, then sorts newest
// first.
func Apply(list []model.Transaction, q Query) []model.Transaction {
	filtered := FilterByStatus(list, q.Status)
	filtered = FilterByDateRange(filtered, q.Start, q.End)
	return SortByCreatedAtDesc(filtered)
}

// IsZero reports whether q filters nothing.
func (q Query) IsZero() bool {
	return (q.Status == "" || q.Status == model.StatusAll) && !bounded(q.Start) && !bounded(q.End)
}
