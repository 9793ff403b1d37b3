// File: pkg/client/client.go
// Package client provides a small Go consumer for the formfill-cli HTTP API.
// It handles base-URL discovery, the JSON endpoints, and the server-sent
// event stream produced by the fill operation.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNoServer is returned by Discover when none of the candidate base URLs
// answered the health probe.
var ErrNoServer = errors.New("no running formfill server found")

// APIError carries a non-2xx response from the API, including the decoded
// error message when the server provided one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.StatusCode)
}

// EventHandler receives each stream event as it arrives. Returning an error
// aborts the stream read.
type EventHandler func(ev schemas.StreamEvent) error

// Client talks to a formfill-cli server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL, e.g. "http://localhost:5000".
// A nil httpClient falls back to a client with no overall timeout, since the
// fill stream is long-lived.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Discover probes the candidate base URLs in order and returns a Client for
// the first one whose health endpoint answers. Each probe is bounded by a
// short per-attempt timeout so a dead candidate does not stall the scan.
func Discover(ctx context.Context, httpClient *http.Client, candidates []string) (*Client, error) {
	for _, base := range candidates {
		c := New(base, httpClient)

		probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := c.Health(probeCtx)
		cancel()

		if err == nil {
			return c, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, ErrNoServer
}

// BaseURL returns the base URL this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health calls the health endpoint.
func (c *Client) Health(ctx context.Context) (*schemas.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create health request: %w", err)
	}

	var health schemas.HealthResponse
	if err := c.doJSON(req, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// ParseForm asks the server to parse a form without submitting anything.
func (c *Client) ParseForm(ctx context.Context, formURL string) (*schemas.ParseFormResponse, error) {
	body, err := jsonAPI.Marshal(schemas.ParseFormRequest{FormURL: formURL})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/parse-form", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create parse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp schemas.ParseFormResponse
	if err := c.doJSON(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FillForm starts a fill run and consumes its event stream. Every event is
// passed to handler (which may be nil); the final summary is returned once
// the stream completes. A terminal error event from the server is returned
// as an error.
func (c *Client) FillForm(ctx context.Context, fillReq schemas.FillFormRequest, handler EventHandler) (*schemas.FillSummary, error) {
	body, err := jsonAPI.Marshal(fillReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fill request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/fill-form", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create fill request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fill request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFromResponse(resp)
	}

	return readEventStream(resp.Body, handler)
}

// readEventStream decodes "data: <json>\n\n" frames, buffering partial
// frames across reads since the server flushes each event individually.
func readEventStream(r io.Reader, handler EventHandler) (*schemas.FillSummary, error) {
	var (
		buf     bytes.Buffer
		chunk   = make([]byte, 4096)
		summary *schemas.FillSummary
	)

	for {
		n, readErr := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])

			for {
				frame, rest, found := bytes.Cut(buf.Bytes(), []byte("\n\n"))
				if !found {
					break
				}
				remainder := append([]byte(nil), rest...)

				ev, ok, err := decodeFrame(frame)
				if err != nil {
					return nil, err
				}
				buf.Reset()
				buf.Write(remainder)
				if !ok {
					continue
				}

				switch ev.Type {
				case schemas.EventError:
					return nil, fmt.Errorf("server reported error: %s", ev.Error)
				case schemas.EventComplete:
					summary = ev.Data
				}

				if handler != nil {
					if err := handler(ev); err != nil {
						return nil, err
					}
				}
			}
		}

		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to read event stream: %w", readErr)
		}
	}

	if summary == nil {
		return nil, errors.New("event stream ended without a completion event")
	}
	return summary, nil
}

// decodeFrame parses a single SSE frame. Frames without a data field, such
// as comments or keep-alives, are skipped.
func decodeFrame(frame []byte) (schemas.StreamEvent, bool, error) {
	var ev schemas.StreamEvent

	for _, line := range bytes.Split(frame, []byte("\n")) {
		payload, ok := bytes.CutPrefix(line, []byte("data: "))
		if !ok {
			continue
		}
		if err := jsonAPI.Unmarshal(payload, &ev); err != nil {
			return ev, false, fmt.Errorf("failed to decode stream event: %w", err)
		}
		return ev, true, nil
	}
	return ev, false, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFromResponse(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := jsonAPI.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil {
		var payload struct {
			Error string `json:"error"`
		}
		if jsonAPI.Unmarshal(body, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		} else if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
			apiErr.Message = trimmed
		}
	}
	return apiErr
}
