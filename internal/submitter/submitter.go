// File: internal/submitter/submitter.go

// Package submitter delivers completed answer sets to the target form's
// submission endpoint.
package submitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
	"github.com/xkilldash9x/formfill-cli/internal/network"
)

// Client implements schemas.FormSubmitter. Its HTTP client must have
// redirect following disabled: the target answers a successful submission
// with a 302 that we want to observe, not chase.
type Client struct {
	http   *network.Client
	logger *zap.Logger
}

// New creates a submission client.
func New(httpClient *network.Client, logger *zap.Logger) *Client {
	return &Client{
		http:   httpClient,
		logger: logger.Named("submitter"),
	}
}

// Submit encodes the answer set as application/x-www-form-urlencoded and
// POSTs it. Multi-valued answers become repeated key=value pairs in
// sequence order. HTTP 200 and 302 both count as success.
func (c *Client) Submit(ctx context.Context, endpoint string, answers schemas.AnswerSet) schemas.SubmitResult {
	form := url.Values{}
	for key, answer := range answers {
		for _, v := range answer.Strings() {
			form.Add(key, v)
		}
	}

	req, err := c.http.NewRequest(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return schemas.SubmitResult{ErrorDetail: fmt.Sprintf("failed to build submission request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("submission transport failure", zap.String("endpoint", endpoint), zap.Error(err))
		return schemas.SubmitResult{ErrorDetail: fmt.Sprintf("submission failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusFound {
		c.logger.Debug("submission accepted",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.Int("fields", len(answers)),
		)
		return schemas.SubmitResult{Success: true}
	}

	c.logger.Warn("submission rejected",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
	)
	return schemas.SubmitResult{ErrorDetail: fmt.Sprintf("submission failed: unexpected status %d", resp.StatusCode)}
}
