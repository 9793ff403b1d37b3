// pkg/client/client_test.go
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

func newHealthServer(t *testing.T, service string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(schemas.HealthResponse{Status: "ok", Service: service, Version: "1.0"})
	})
	return httptest.NewServer(mux)
}

func TestDiscover(t *testing.T) {
	t.Run("returns the first candidate that answers", func(t *testing.T) {
		primary := newHealthServer(t, "primary")
		defer primary.Close()
		secondary := newHealthServer(t, "secondary")
		defer secondary.Close()

		c, err := Discover(context.Background(), nil, []string{primary.URL, secondary.URL})
		require.NoError(t, err)
		assert.Equal(t, primary.URL, c.BaseURL())
	})

	t.Run("skips dead candidates", func(t *testing.T) {
		dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		dead.Close()
		alive := newHealthServer(t, "alive")
		defer alive.Close()

		c, err := Discover(context.Background(), nil, []string{dead.URL, alive.URL})
		require.NoError(t, err)
		assert.Equal(t, alive.URL, c.BaseURL())
	})

	t.Run("reports when nothing answers", func(t *testing.T) {
		dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		dead.Close()

		_, err := Discover(context.Background(), nil, []string{dead.URL})
		assert.ErrorIs(t, err, ErrNoServer)
	})
}

func TestHealth(t *testing.T) {
	server := newHealthServer(t, "formfill-cli")
	defer server.Close()

	health, err := New(server.URL, nil).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "formfill-cli", health.Service)
}

func TestParseForm(t *testing.T) {
	t.Run("decodes the response", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/parse-form", func(w http.ResponseWriter, r *http.Request) {
			var req schemas.ParseFormRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Contains(t, req.FormURL, "/forms/d/e/F1/")

			json.NewEncoder(w).Encode(schemas.ParseFormResponse{
				FormID: "F1",
				Title:  "Remote Form",
				Questions: []schemas.Question{
					{ID: "q1", Kind: schemas.KindShortText, Label: "A", FieldKey: "entry.1"},
				},
			})
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		resp, err := New(server.URL, nil).ParseForm(context.Background(), "https://docs.google.com/forms/d/e/F1/viewform")
		require.NoError(t, err)
		assert.Equal(t, "F1", resp.FormID)
		require.Len(t, resp.Questions, 1)
	})

	t.Run("surfaces the server's error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"please enter a valid URL"}`)
		}))
		defer server.Close()

		_, err := New(server.URL, nil).ParseForm(context.Background(), "https://docs.google.com/forms/d/e/F1/viewform")
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "please enter a valid URL", apiErr.Message)
	})
}

// streamResponse writes frames through a flusher to force chunked delivery.
func streamResponse(t *testing.T, w http.ResponseWriter, frames []schemas.StreamEvent) {
	t.Helper()
	flusher, ok := w.(http.Flusher)
	require.True(t, ok)

	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	for _, ev := range frames {
		payload, err := json.Marshal(ev)
		require.NoError(t, err)
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}
}

func TestFillForm(t *testing.T) {
	fillReq := schemas.FillFormRequest{
		FormURL:      "https://docs.google.com/forms/d/e/F1/viewform",
		NumResponses: 2,
	}

	t.Run("collects events and returns the summary", func(t *testing.T) {
		summary := &schemas.FillSummary{TotalRequested: 2, SuccessCount: 2}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			streamResponse(t, w, []schemas.StreamEvent{
				schemas.StatusEvent("Parsing form...", 0, 2),
				schemas.SubmissionEvent(true, 1, "", 2),
				schemas.SubmissionEvent(true, 2, "", 2),
				schemas.CompleteEvent(summary),
			})
		}))
		defer server.Close()

		var seen []schemas.EventType
		got, err := New(server.URL, nil).FillForm(context.Background(), fillReq, func(ev schemas.StreamEvent) error {
			seen = append(seen, ev.Type)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, got.SuccessCount)
		assert.Equal(t, []schemas.EventType{
			schemas.EventStatus,
			schemas.EventSubmission,
			schemas.EventSubmission,
			schemas.EventComplete,
		}, seen)
	})

	t.Run("a server error event becomes an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			streamResponse(t, w, []schemas.StreamEvent{
				schemas.StatusEvent("Parsing form...", 0, 2),
				schemas.ErrorEvent("no questions found in the form"),
			})
		}))
		defer server.Close()

		_, err := New(server.URL, nil).FillForm(context.Background(), fillReq, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no questions found")
	})

	t.Run("a handler error aborts the stream", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			streamResponse(t, w, []schemas.StreamEvent{
				schemas.StatusEvent("one", 0, 1),
				schemas.StatusEvent("two", 0, 1),
			})
		}))
		defer server.Close()

		stop := errors.New("stop now")
		_, err := New(server.URL, nil).FillForm(context.Background(), fillReq, func(ev schemas.StreamEvent) error {
			return stop
		})
		require.ErrorIs(t, err, stop)
	})

	t.Run("a truncated stream without completion is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			streamResponse(t, w, []schemas.StreamEvent{
				schemas.StatusEvent("Parsing form...", 0, 2),
			})
		}))
		defer server.Close()

		_, err := New(server.URL, nil).FillForm(context.Background(), fillReq, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "without a completion event")
	})

	t.Run("validation failures surface as APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"at least 1 response required"}`)
		}))
		defer server.Close()

		_, err := New(server.URL, nil).FillForm(context.Background(), fillReq, nil)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Contains(t, apiErr.Message, "at least 1 response")
	})
}

func TestReadEventStream(t *testing.T) {
	t.Run("reassembles frames split across reads", func(t *testing.T) {
		summary := &schemas.FillSummary{TotalRequested: 1, SuccessCount: 1}
		completePayload, err := json.Marshal(schemas.CompleteEvent(summary))
		require.NoError(t, err)

		full := fmt.Sprintf("data: {\"type\":\"status\",\"message\":\"hi\",\"current\":0,\"total\":1}\n\ndata: %s\n\n", completePayload)

		// Deliver the stream in tiny chunks so frames straddle read
		// boundaries.
		var count int
		got, err := readEventStream(&chunkedReader{data: []byte(full), chunkSize: 7}, func(ev schemas.StreamEvent) error {
			count++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, 1, got.SuccessCount)
	})
}

// chunkedReader yields at most chunkSize bytes per Read.
type chunkedReader struct {
	data      []byte
	chunkSize int
	pos       int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := r.chunkSize
	if n > len(p) {
		n = len(p)
	}
	if r.pos+n > len(r.data) {
		n = len(r.data) - r.pos
	}
	copy(p, r.data[r.pos:r.pos+n])
	r.pos += n
	return n, nil
}
