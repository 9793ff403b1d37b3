// File: api/schemas/requests.go
package schemas

import (
	"fmt"
	"net/url"
)

// HealthResponse is returned by GET /api/health and used by consumers for
// endpoint discovery.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// ParseFormRequest is the body of POST /api/parse-form.
type ParseFormRequest struct {
	FormURL string `json:"formUrl"`
}

// Validate rejects requests that cannot possibly be served.
func (r ParseFormRequest) Validate() error {
	return validateFormURL(r.FormURL)
}

// ParseFormResponse is the success body of POST /api/parse-form.
type ParseFormResponse struct {
	FormID    string     `json:"formId"`
	Title     string     `json:"title,omitempty"`
	Questions []Question `json:"questions"`
}

// FillFormRequest is the body of POST /api/fill-form.
type FillFormRequest struct {
	FormURL      string    `json:"formUrl"`
	NumResponses int       `json:"numResponses"`
	UserData     *UserData `json:"userData,omitempty"`
	// UseAI is a pointer so an explicit false survives the default of true.
	UseAI *bool `json:"useAI,omitempty"`
}

// AIEnabled resolves the UseAI default: absent means enabled.
func (r FillFormRequest) AIEnabled() bool {
	return r.UseAI == nil || *r.UseAI
}

// Validate checks the request against the given response ceiling.
func (r FillFormRequest) Validate(maxResponses int) error {
	if err := validateFormURL(r.FormURL); err != nil {
		return err
	}
	if r.NumResponses < 1 {
		return fmt.Errorf("at least 1 response required")
	}
	if r.NumResponses > maxResponses {
		return fmt.Errorf("maximum %d responses allowed", maxResponses)
	}
	return nil
}

func validateFormURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("formUrl is required")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("please enter a valid URL")
	}
	return nil
}
