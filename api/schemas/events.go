// File: api/schemas/events.go
package schemas

// EventType discriminates the frames emitted on the fill progress stream.
type EventType string

const (
	EventStatus     EventType = "status"
	EventProgress   EventType = "progress"
	EventSubmission EventType = "submission"
	EventComplete   EventType = "complete"
	EventError      EventType = "error"
)

// StreamEvent is one server-sent frame of the fill progress stream. Which
// fields are populated depends on Type; consumers must tolerate unknown
// types and extra fields.
type StreamEvent struct {
	Type           EventType    `json:"type"`
	Message        string       `json:"message,omitempty"`
	Current        int          `json:"current"`
	Total          int          `json:"total"`
	Success        *bool        `json:"success,omitempty"`
	ResponseNumber int          `json:"responseNumber,omitempty"`
	Error          string       `json:"error,omitempty"`
	Data           *FillSummary `json:"data,omitempty"`
}

// StatusEvent builds a narrative status frame.
func StatusEvent(message string, current, total int) StreamEvent {
	return StreamEvent{Type: EventStatus, Message: message, Current: current, Total: total}
}

// ProgressEvent builds a per-iteration narrative frame.
func ProgressEvent(message string, current, total int) StreamEvent {
	return StreamEvent{Type: EventProgress, Message: message, Current: current, Total: total}
}

// SubmissionEvent builds a per-iteration outcome frame.
func SubmissionEvent(success bool, responseNumber int, errDetail string, total int) StreamEvent {
	return StreamEvent{
		Type:           EventSubmission,
		Success:        &success,
		ResponseNumber: responseNumber,
		Error:          errDetail,
		Current:        responseNumber,
		Total:          total,
	}
}

// CompleteEvent builds the terminal success frame.
func CompleteEvent(summary *FillSummary) StreamEvent {
	return StreamEvent{Type: EventComplete, Data: summary, Current: summary.TotalRequested, Total: summary.TotalRequested}
}

// ErrorEvent builds the terminal failure frame.
func ErrorEvent(errMsg string) StreamEvent {
	return StreamEvent{Type: EventError, Error: errMsg}
}
