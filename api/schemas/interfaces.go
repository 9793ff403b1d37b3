// File: api/schemas/interfaces.go
package schemas

import "context"

// FormParser retrieves and parses one target form document.
// An empty Questions slice is a valid result, not an error; callers decide
// whether that is fatal for their use case.
type FormParser interface {
	Parse(ctx context.Context, formURL string) (*ParsedForm, error)
}

// AnswerProducer builds a complete answer set for a parsed form. It never
// fails: any per-question generation problem degrades to a fallback answer.
type AnswerProducer interface {
	GenerateFormAnswers(ctx context.Context, questions []Question, user *UserData, useAI bool) AnswerSet
}

// FormSubmitter delivers one answer set to a submission endpoint.
type FormSubmitter interface {
	Submit(ctx context.Context, endpoint string, answers AnswerSet) SubmitResult
}

// GenerationRequest asks the external text generation service for one
// natural-language answer.
type GenerationRequest struct {
	Question  string
	Kind      QuestionKind
	MaxLength int
}

// TextGenerator is the contract of the external text generation collaborator.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}
