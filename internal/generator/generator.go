// File: internal/generator/generator.go

// Package generator produces one answer per question, honoring user supplied
// overrides, the external text generation service, and canned fallbacks.
// Generation never fails outward: one bad question must not abort a response.
package generator

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
	"github.com/xkilldash9x/formfill-cli/internal/randutil"
)

const (
	shortTextMaxLength = 150
	paragraphMaxLength = 500

	// placeholderOption stands in when a choice question carries no options.
	placeholderOption = "Option 1"

	// genericFallback replaces any answer whose generation failed entirely.
	genericFallback = "Response provided"
)

// shortTextPool is the canned pool used when AI generation is disabled.
var shortTextPool = []string{
	"This is a sample response",
	"Response provided",
	"Sample answer",
	"Test response",
}

const cannedParagraph = "This is a sample paragraph response. It provides more detail than a short answer. The content is generated automatically for testing purposes and demonstrates the expected format for this type of question."

// kindFallbacks are the fixed substitutes for generation service failures.
var kindFallbacks = map[schemas.QuestionKind]string{
	schemas.KindShortText: "This is a sample response",
	schemas.KindParagraph: "This is a sample paragraph response. It provides a bit more detail than a short answer would. The content is generic but demonstrates the expected format.",
	schemas.KindEmail:     "example@email.com",
}

// Generator implements schemas.AnswerProducer.
type Generator struct {
	textGen schemas.TextGenerator
	logger  *zap.Logger
}

// New creates a Generator. textGen may be nil when no generation service is
// configured; AI requests then degrade to the canned pools.
func New(textGen schemas.TextGenerator, logger *zap.Logger) *Generator {
	return &Generator{
		textGen: textGen,
		logger:  logger.Named("generator"),
	}
}

// GenerateAnswer produces one answer satisfying the question's type
// contract. External generation failures are swallowed and replaced with a
// fixed per-kind fallback.
func (g *Generator) GenerateAnswer(ctx context.Context, q schemas.Question, user *schemas.UserData, useAI bool) schemas.AnswerValue {
	// Identity overrides take precedence over the type dispatch.
	label := strings.ToLower(q.Label)
	if q.Kind == schemas.KindEmail || strings.Contains(label, "email") {
		if user != nil && user.Email != "" {
			return schemas.SingleAnswer(user.Email)
		}
		return schemas.SingleAnswer(randutil.Email())
	}
	if strings.Contains(label, "name") && user != nil && user.Name != "" {
		return schemas.SingleAnswer(user.Name)
	}

	switch q.Kind {
	case schemas.KindShortText:
		if useAI {
			return schemas.SingleAnswer(g.generateText(ctx, q, shortTextMaxLength))
		}
		v, _ := randutil.Choice(shortTextPool)
		return schemas.SingleAnswer(v)

	case schemas.KindParagraph:
		if useAI {
			return schemas.SingleAnswer(g.generateText(ctx, q, paragraphMaxLength))
		}
		return schemas.SingleAnswer(cannedParagraph)

	case schemas.KindSingleChoice, schemas.KindDropdown:
		if v, ok := randutil.Choice(q.Options); ok {
			return schemas.SingleAnswer(v)
		}
		return schemas.SingleAnswer(placeholderOption)

	case schemas.KindMultiChoice:
		if len(q.Options) == 0 {
			return schemas.MultiAnswer([]string{placeholderOption})
		}
		return schemas.MultiAnswer(randutil.Subset(q.Options, 1, 3))

	case schemas.KindLinearScale:
		min, max := q.ScaleMin, q.ScaleMax
		if min == 0 {
			min = 1
		}
		if max == 0 {
			max = 5
		}
		return schemas.SingleAnswer(strconv.Itoa(randutil.Int(min, max)))

	case schemas.KindDate:
		return schemas.SingleAnswer(randutil.Date())

	case schemas.KindTime:
		return schemas.SingleAnswer(randutil.Time())

	default:
		return schemas.SingleAnswer(genericFallback)
	}
}

// GenerateFormAnswers builds a complete answer set, generating each answer
// independently so a single failure cannot poison the rest.
func (g *Generator) GenerateFormAnswers(ctx context.Context, questions []schemas.Question, user *schemas.UserData, useAI bool) schemas.AnswerSet {
	answers := make(schemas.AnswerSet, len(questions))

	g.logger.Debug("generating answers",
		zap.Int("questions", len(questions)),
		zap.Bool("use_ai", useAI),
	)

	for _, q := range questions {
		answer := g.safeGenerate(ctx, q, user, useAI)
		answers[q.FieldKey] = answer
	}

	return answers
}

// safeGenerate contains any panic from a malformed question so the rest of
// the answer set is unaffected.
func (g *Generator) safeGenerate(ctx context.Context, q schemas.Question, user *schemas.UserData, useAI bool) (answer schemas.AnswerValue) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("answer generation panicked, substituting fallback",
				zap.String("field_key", q.FieldKey),
				zap.Any("panic", r),
			)
			answer = schemas.SingleAnswer(genericFallback)
		}
	}()
	return g.GenerateAnswer(ctx, q, user, useAI)
}

// generateText asks the external service for a natural language answer,
// substituting the fixed per-kind fallback on any failure. With no service
// configured the canned pools apply instead.
func (g *Generator) generateText(ctx context.Context, q schemas.Question, maxLength int) string {
	if g.textGen == nil {
		if q.Kind == schemas.KindParagraph {
			return cannedParagraph
		}
		v, _ := randutil.Choice(shortTextPool)
		return v
	}

	text, err := g.textGen.Generate(ctx, schemas.GenerationRequest{
		Question:  q.Label,
		Kind:      q.Kind,
		MaxLength: maxLength,
	})
	if err != nil || strings.TrimSpace(text) == "" {
		g.logger.Warn("text generation failed, substituting fallback",
			zap.String("field_key", q.FieldKey),
			zap.Error(err),
		)
		return fallbackFor(q.Kind)
	}
	return text
}

func fallbackFor(kind schemas.QuestionKind) string {
	if v, ok := kindFallbacks[kind]; ok {
		return v
	}
	return genericFallback
}
