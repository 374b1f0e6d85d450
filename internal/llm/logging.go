package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/sqlcoach/internal/logging"
	"github.com/abhisek/sqlcoach/internal/store"
)

// eventLogger is a Provider decorator that records every request, failed
// or not, as an llm_events row.
type eventLogger struct {
	inner Provider
	name  string
	repo  store.EventRepo
	log   *slog.Logger
}

// WithLogging wraps a Provider with event recording. name is the provider
// name stored on each event (e.g. "anthropic"), distinct from the model.
// A nil repo disables recording and returns p unchanged.
func WithLogging(p Provider, name string, repo store.EventRepo) Provider {
	if repo == nil {
		return p
	}
	return &eventLogger{inner: p, name: name, repo: repo, log: logging.New("llm")}
}

func (l *eventLogger) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.name,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: renderRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// A failed write must not fail the request itself.
	if logErr := l.repo.AppendLLMRequest(ctx, data); logErr != nil {
		l.log.Warn("failed to record LLM request event", "error", logErr)
	}

	return resp, err
}

func (l *eventLogger) ModelID() string {
	return l.inner.ModelID()
}

// renderRequest flattens a request into the readable form shown by
// `sqlcoach llm view`.
func renderRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}

	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}

	return b.String()
}
