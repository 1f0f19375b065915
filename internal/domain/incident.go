package domain

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// SortOrder is the closed set of list orderings. Keeping it a tagged
// enum (instead of a free-form column name) means the SQL layer can
// never be asked to sort by an unintended field.
type SortOrder int

const (
	ByReportedAtDesc SortOrder = iota
	ByReportedAtAsc
	BySeverityAsc
	BySeverityDesc
)

// ParseSortOrder maps the wire form ("reported_at", "-severity", ...)
// to a SortOrder. A leading '-' means descending.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch s {
	case "reported_at":
		return ByReportedAtAsc, true
	case "-reported_at":
		return ByReportedAtDesc, true
	case "severity":
		return BySeverityAsc, true
	case "-severity":
		return BySeverityDesc, true
	}
	return ByReportedAtDesc, false
}

type Incident struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	ReportedAt  time.Time `json:"reported_at"`
	ReportedBy  uuid.UUID `json:"reported_by"`
}
