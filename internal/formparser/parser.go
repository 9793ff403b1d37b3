// File: internal/formparser/parser.go

// Package formparser fetches a target form's page and recovers its question
// list and submission endpoint. Extraction is two tiered: the embedded
// structured payload is authoritative; a DOM heuristic covers pages where the
// payload is absent or unparseable.
package formparser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
	"github.com/xkilldash9x/formfill-cli/internal/network"
)

const (
	submitEndpointFormat = "https://docs.google.com/forms/d/e/%s/formResponse"
	defaultFormTitle     = "Google Form"
)

// The two known URL shapes, in order of preference. The "/d/e/" shape must
// be tried first or its "e" segment would be captured as the ID.
var formIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/forms/d/e/([^/]+)`),
	regexp.MustCompile(`/forms/d/([^/]+)`),
}

// ExtractFormID pulls the form ID out of a form URL. Extraction is
// deterministic: the first matching pattern wins.
func ExtractFormID(formURL string) (string, error) {
	for _, re := range formIDPatterns {
		if m := re.FindStringSubmatch(formURL); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidFormURL, formURL)
}

// SubmitEndpoint derives the submission URL for a form ID. It is never
// scraped from the page.
func SubmitEndpoint(formID string) string {
	return fmt.Sprintf(submitEndpointFormat, formID)
}

// Parser implements schemas.FormParser over plain HTTP.
type Parser struct {
	client *network.Client
	logger *zap.Logger
}

// New creates a Parser using the given HTTP client.
func New(client *network.Client, logger *zap.Logger) *Parser {
	return &Parser{
		client: client,
		logger: logger.Named("formparser"),
	}
}

// Parse retrieves and parses one form document. An empty question list is a
// valid result; callers decide whether that is fatal.
func (p *Parser) Parse(ctx context.Context, formURL string) (*schemas.ParsedForm, error) {
	formID, err := ExtractFormID(formURL)
	if err != nil {
		return nil, err
	}

	body, err := p.fetch(ctx, formURL)
	if err != nil {
		return nil, err
	}

	doc, docErr := html.Parse(bytes.NewReader(body))
	if docErr != nil {
		p.logger.Warn("document did not parse as HTML", zap.Error(docErr))
	}

	questions, ok := questionsFromPayload(body, p.logger)
	if !ok && docErr == nil {
		p.logger.Debug("structured payload unavailable, using DOM heuristics",
			zap.String("form_id", formID))
		questions = questionsFromDOM(doc, p.logger)
	}

	title := defaultFormTitle
	if docErr == nil {
		title = extractTitle(doc)
	}

	p.logger.Info("form parsed",
		zap.String("form_id", formID),
		zap.String("title", title),
		zap.Int("questions", len(questions)),
		zap.Bool("structured_payload", ok),
	)

	return &schemas.ParsedForm{
		FormID:         formID,
		Title:          title,
		Questions:      questions,
		SubmitEndpoint: SubmitEndpoint(formID),
	}, nil
}

func (p *Parser) fetch(ctx context.Context, formURL string) ([]byte, error) {
	req, err := p.client.NewRequest(ctx, http.MethodGet, formURL, nil)
	if err != nil {
		return nil, &FetchError{URL: formURL, Err: err}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: formURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: formURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: formURL, Err: err}
	}
	return body, nil
}
