package domain

import "strings"

type CreateIncidentRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"required,min=10"`
	Severity    string `json:"severity" validate:"required,oneof=Low Medium High"`
}

// Trim strips surrounding whitespace before the length rules run, so
// a title of spaces counts as empty.
func (r *CreateIncidentRequest) Trim() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Severity = strings.TrimSpace(r.Severity)
}

// ListIncidentsParams carries the raw query strings through the rule
// set; posint and pagelimit are registered in pkg/validator.
type ListIncidentsParams struct {
	Page     string `json:"page" validate:"omitempty,posint"`
	Limit    string `json:"limit" validate:"omitempty,pagelimit"`
	Severity string `json:"severity" validate:"omitempty,oneof=Low Medium High"`
	Sort     string `json:"sort" validate:"omitempty,oneof=reported_at -reported_at severity -severity"`
}

// ListIncidentsQuery is the validated, defaulted form handed to the
// service layer.
type ListIncidentsQuery struct {
	Page     int
	Limit    int
	Severity Severity // empty means no filter
	Sort     SortOrder
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type ListIncidentsResponse struct {
	Incidents  []Incident `json:"incidents"`
	Pagination Pagination `json:"pagination"`
}
