// Package extraction wraps the text-generation capability with a fixed
// prompt contract and a defensive JSON parse, turning one user turn into a
// best-effort partial slot extraction.
package extraction

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mygoodmovers/movebot/internal/llm"
	"github.com/mygoodmovers/movebot/internal/slots"
)

// Adapter extracts structured move fields from unstructured text.
type Adapter struct {
	client llm.Client
	logger *slog.Logger
}

// NewAdapter creates an extraction adapter.
func NewAdapter(log *slog.Logger, client llm.Client) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{
		client: client,
		logger: log.With(slog.String("service", "extraction")),
	}
}

// Extract never fails: a model error or unparseable response degrades to the
// all-null extraction, and the missing-field logic downstream drives the
// re-prompt. Dates are returned as raw natural-language text; normalization
// belongs to the slot model.
func (a *Adapter) Extract(ctx context.Context, userText string) slots.Extracted {
	content, err := a.client.Extract(ctx, extractionPrompt, userText)
	if err != nil {
		a.logger.Warn("extraction call failed", slog.Any("error", err))
		return slots.Extracted{}
	}

	var extracted slots.Extracted
	if err := json.Unmarshal([]byte(repairJSON(content)), &extracted); err != nil {
		a.logger.Warn("extraction parse failed", slog.Any("error", err))
		return slots.Extracted{}
	}
	return extracted
}
