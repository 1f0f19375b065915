// Package validation holds the per-route rule sets. Each rule set
// checks every declared field and collects every violation before the
// handler is allowed to run.
package validation

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nihalsingh571/Apitask/internal/domain"
	appvalidator "github.com/nihalsingh571/Apitask/pkg/validator"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Messages are keyed by "<json field>.<failed tag>". Severity carries
// different messages on create and on list, so each route owns its
// own table.
var createMessages = map[string]string{
	"title.required":       "Title is required",
	"title.min":            "Title must be between 3 and 100 characters",
	"title.max":            "Title must be between 3 and 100 characters",
	"description.required": "Description is required",
	"description.min":      "Description must be at least 10 characters long",
	"severity.required":    "Severity is required",
	"severity.oneof":       "Severity must be Low, Medium, or High",
}

var listMessages = map[string]string{
	"page.posint":     "Page must be a positive integer",
	"limit.pagelimit": "Limit must be between 1 and 100",
	"severity.oneof":  "Invalid severity value",
	"sort.oneof":      "Invalid sort field",
}

var registerMessages = map[string]string{
	"email.required":    "Email is required",
	"email.email":       "Invalid email format",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters long",
}

var loginMessages = map[string]string{
	"email.required":    "Email is required",
	"email.email":       "Invalid email format",
	"password.required": "Password is required",
}

// CreateIncident trims the request in place and returns every rule
// violation. An empty result means the request may be persisted.
func CreateIncident(req *domain.CreateIncidentRequest) []FieldError {
	req.Trim()
	return translate(appvalidator.ValidateStruct(req), createMessages)
}

// IncidentID checks the path parameter against the store's native
// identifier format before any lookup happens.
func IncidentID(raw string) (uuid.UUID, []FieldError) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, []FieldError{{Field: "id", Message: "Invalid incident ID"}}
	}
	return id, nil
}

// ListIncidents validates the raw query parameters and, when they
// pass, applies the documented defaults: page 1, limit 10, no severity
// filter, newest first.
func ListIncidents(values url.Values) (domain.ListIncidentsQuery, []FieldError) {
	params := domain.ListIncidentsParams{
		Page:     values.Get("page"),
		Limit:    values.Get("limit"),
		Severity: values.Get("severity"),
		Sort:     values.Get("sort"),
	}
	if fieldErrs := translate(appvalidator.ValidateStruct(&params), listMessages); len(fieldErrs) > 0 {
		return domain.ListIncidentsQuery{}, fieldErrs
	}

	q := domain.ListIncidentsQuery{
		Page:  DefaultPage,
		Limit: DefaultLimit,
		Sort:  domain.ByReportedAtDesc,
	}
	if params.Page != "" {
		q.Page, _ = strconv.Atoi(params.Page)
	}
	if params.Limit != "" {
		q.Limit, _ = strconv.Atoi(params.Limit)
	}
	if params.Severity != "" {
		q.Severity = domain.Severity(params.Severity)
	}
	if params.Sort != "" {
		q.Sort, _ = domain.ParseSortOrder(params.Sort)
	}
	return q, nil
}

func RegisterUser(req *domain.RegisterRequest) []FieldError {
	req.Trim()
	return translate(appvalidator.ValidateStruct(req), registerMessages)
}

func LoginUser(req *domain.LoginRequest) []FieldError {
	req.Trim()
	return translate(appvalidator.ValidateStruct(req), loginMessages)
}

func translate(err error, messages map[string]string) []FieldError {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "request", Message: "Invalid request"}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value for " + fe.Field()
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
