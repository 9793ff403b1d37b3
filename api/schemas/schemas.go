// File: api/schemas/schemas.go
package schemas

import (
	"encoding/json"
	"fmt"
	"time"
)

// QuestionKind identifies the answer contract of a single form field.
type QuestionKind string

const (
	KindShortText    QuestionKind = "SHORT_TEXT"
	KindParagraph    QuestionKind = "PARAGRAPH"
	KindSingleChoice QuestionKind = "SINGLE_CHOICE"
	KindMultiChoice  QuestionKind = "MULTI_CHOICE"
	KindDropdown     QuestionKind = "DROPDOWN"
	KindLinearScale  QuestionKind = "LINEAR_SCALE"
	KindDate         QuestionKind = "DATE"
	KindTime         QuestionKind = "TIME"
	KindEmail        QuestionKind = "EMAIL"
)

// Question is one answerable field extracted from a target form.
type Question struct {
	// ID is a synthetic ordinal identifier, unique within one parsed form.
	ID   string       `json:"id"`
	Kind QuestionKind `json:"kind"`
	// Label is the human readable prompt, also used as AI generation input.
	Label string `json:"label"`
	// FieldKey is the wire level parameter name the submission endpoint
	// expects. It must be preserved byte for byte; a mismatch makes the
	// target silently discard the answer.
	FieldKey string `json:"fieldKey"`
	Required bool   `json:"required"`
	// Options is populated only for SINGLE_CHOICE, MULTI_CHOICE and DROPDOWN.
	Options []string `json:"options,omitempty"`
	// ScaleMin and ScaleMax bound LINEAR_SCALE questions. Defaults 1 and 5.
	ScaleMin int `json:"scaleMin,omitempty"`
	ScaleMax int `json:"scaleMax,omitempty"`
}

// ParsedForm is the immutable result of parsing one target document.
type ParsedForm struct {
	FormID    string     `json:"formId"`
	Title     string     `json:"title,omitempty"`
	Questions []Question `json:"questions"`
	// SubmitEndpoint is derived deterministically from FormID, never scraped.
	SubmitEndpoint string `json:"submitEndpoint"`
}

// AnswerValue holds either a single answer string or an ordered set of
// selections for multi-select questions. It marshals as a bare string or a
// string array to match the wire shape consumers expect.
type AnswerValue struct {
	values []string
	multi  bool
}

// SingleAnswer wraps one scalar answer.
func SingleAnswer(v string) AnswerValue {
	return AnswerValue{values: []string{v}}
}

// MultiAnswer wraps an ordered multi-select answer.
func MultiAnswer(vs []string) AnswerValue {
	return AnswerValue{values: vs, multi: true}
}

// Strings returns the answer values in order. Scalar answers yield one element.
func (a AnswerValue) Strings() []string { return a.values }

// IsMulti reports whether the answer is a multi-select sequence.
func (a AnswerValue) IsMulti() bool { return a.multi }

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	if a.multi {
		return json.Marshal(a.values)
	}
	if len(a.values) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(a.values[0])
}

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = SingleAnswer(s)
		return nil
	}
	var vs []string
	if err := json.Unmarshal(data, &vs); err == nil {
		*a = MultiAnswer(vs)
		return nil
	}
	return fmt.Errorf("answer value must be a string or an array of strings")
}

// AnswerSet maps a question's FieldKey to its generated answer. Built fresh
// for every submission and consumed exactly once.
type AnswerSet map[string]AnswerValue

// SubmitResult is the outcome of a single POST to the target endpoint.
type SubmitResult struct {
	Success     bool
	ErrorDetail string
}

// SubmissionOutcome records one iteration of the fill loop.
type SubmissionOutcome struct {
	Success        bool      `json:"success"`
	ResponseNumber int       `json:"responseNumber"`
	Timestamp      time.Time `json:"timestamp"`
	Answers        AnswerSet `json:"answers,omitempty"`
	ErrorDetail    string    `json:"error,omitempty"`
}

// FillSummary aggregates a whole fill run.
type FillSummary struct {
	TotalRequested int                 `json:"totalRequested"`
	SuccessCount   int                 `json:"successCount"`
	FailedCount    int                 `json:"failedCount"`
	Submissions    []SubmissionOutcome `json:"submissions"`
	DurationMillis int64               `json:"duration"`
}

// UserData carries optional caller supplied identity used to keep name and
// email answers consistent across responses.
type UserData struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}
