// Package aiwriter drafts job descriptions, using a language model when one is
// configured and a fixed template otherwise.
package aiwriter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"talentx/internal/common"
)

const systemPrompt = "You are a professional HR writer. Generate concise job descriptions in 2-3 paragraphs."

type Writer struct {
	completer Completer
	logger    *slog.Logger
}

// NewWriter returns a writer backed by completer. A nil completer always uses the template.
func NewWriter(completer Completer, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{completer: completer, logger: logger}
}

// Describe drafts a description for a job. Model failures and empty answers fall
// back to the template; only a missing title is an error.
func (w *Writer) Describe(ctx context.Context, title, techStack string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", common.NewValidationError("title is required", map[string]string{"title": "required"})
	}
	if w.completer == nil {
		return Fallback(title, techStack), nil
	}

	stack := strings.TrimSpace(techStack)
	if stack == "" {
		stack = "Not specified"
	}
	text, err := w.completer.Complete(ctx, systemPrompt, fmt.Sprintf("Generate a job description for: %s. Tech stack: %s.", title, stack))
	if err != nil {
		w.logger.WarnContext(ctx, "description generation failed, using template", "error", err)
		return Fallback(title, techStack), nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Fallback(title, techStack), nil
	}
	return text, nil
}

// Fallback is the deterministic description used without a model.
func Fallback(title, techStack string) string {
	var parts []string
	for _, part := range strings.Split(techStack, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	stack := "various technologies"
	if len(parts) > 0 {
		stack = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%s\n\nWe are looking for a talented professional to join our team. "+
		"The ideal candidate will have experience with %s and a strong track record of delivering high-quality work.\n\n"+
		"Responsibilities include collaborating with the team, contributing to project goals, and maintaining best practices. "+
		"You will work in a dynamic environment and have opportunities for growth.", title, stack)
}
