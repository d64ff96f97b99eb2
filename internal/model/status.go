// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
)

// TransactionStatus is the lifecycle state of a booking as reported by the API.
type TransactionStatus string

// Transaction status constants.
const (
	StatusUnpaid    TransactionStatus = "UNPAID"
	StatusPending   TransactionStatus = "PENDING"
	StatusBooked    TransactionStatus = "BOOKED"
	StatusStart     TransactionStatus = "START"
	StatusDone      TransactionStatus = "DONE"
	StatusCancelled TransactionStatus = "CANCELLED"

	// StatusAll is the filter pseudo-status that matches every transaction.
	// It never appears on a transaction.
	StatusAll TransactionStatus = "ALL"
)

// TransactionStatuses lists every status a transaction can carry, in the
// order the status filter offers them.
var TransactionStatuses = []TransactionStatus{
	StatusDone,
	StatusCancelled,
	StatusStart,
	StatusPending,
	StatusBooked,
	StatusUnpaid,
}

// FilterStatuses is the cycle used by status filters: ALL first, then every
// real status.
var FilterStatuses = append([]TransactionStatus{StatusAll}, TransactionStatuses...)

// IsValid reports whether s is a status a transaction may carry.
func (s TransactionStatus) IsValid() bool {
	for _, known := range TransactionStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsPaid reports whether the booking has moved past payment.
func (s TransactionStatus) IsPaid() bool {
	return s != StatusUnpaid && s != StatusPending
}

// Color returns the hex colour the screens use for the status badge.
func (s TransactionStatus) Color() string {
	switch s {
	case StatusCancelled:
		return "#f44336"
	case StatusBooked:
		return "#FF9800"
	case StatusStart:
		return "#4CAF50"
	case StatusDone:
		return "#2196F3"
	case StatusPending:
		return "#9E9E9E"
	case StatusUnpaid:
		return "#FFC107"
	default:
		return "#555555"
	}
}

// ParseFilterStatus parses a user supplied status filter. Matching is case
// insensitive and the empty string means ALL.
func ParseFilterStatus(raw string) (TransactionStatus, error) {
	s := TransactionStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if s == "" || s == StatusAll {
		return StatusAll, nil
	}
	if !s.IsValid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// NextFilterStatus returns the filter status after s in FilterStatuses,
// wrapping around.
func NextFilterStatus(s TransactionStatus) TransactionStatus {
	for i, candidate := range FilterStatuses {
		if candidate == s {
			return FilterStatuses[(i+1)%len(FilterStatuses)]
		}
	}
	return StatusAll
}
