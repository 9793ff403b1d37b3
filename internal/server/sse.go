// File: internal/server/sse.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

// sseSink writes progress events as server-sent event frames, flushing
// after every frame so the caller sees progress in real time. Send reports
// an error once the request context is done or a write fails, which the
// orchestrator treats as the caller hanging up.
type sseSink struct {
	ctx     context.Context
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSESink(ctx context.Context, w http.ResponseWriter, flusher http.Flusher) *sseSink {
	return &sseSink{ctx: ctx, w: w, flusher: flusher}
}

func (s *sseSink) Send(ev schemas.StreamEvent) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal stream event: %w", err)
	}

	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("failed to write stream event: %w", err)
	}
	s.flusher.Flush()
	return nil
}
