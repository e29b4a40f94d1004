package rag

import (
	"fmt"
	"strings"

	"github.com/docchat/cli/internal/index"
)

// BuildContext joins retrieved segments, in retrieval order, into the
// context block of the prompt.
func BuildContext(matches []index.Match) string {
	var parts []string
	for i, m := range matches {
		parts = append(parts, fmt.Sprintf("### Excerpt %d (page %d):", i+1, m.Segment.Page))
		parts = append(parts, m.Segment.Text)
		parts = append(parts, "")
	}
	return strings.Join(parts, "\n")
}

// BuildPrompt interpolates context and the raw query into the prompt
// template. The generator is told to answer from the supplied context only.
func BuildPrompt(context, query string) string {
	var parts []string

	parts = append(parts, "Answer in a professional tone.")
	parts = append(parts, "Use only the following context to answer the question.")
	parts = append(parts, "If the context does not contain the answer, say so.")
	parts = append(parts, "")
	parts = append(parts, "## Context:")
	parts = append(parts, context)
	parts = append(parts, "")
	parts = append(parts, "## Question:")
	parts = append(parts, query)
	parts = append(parts, "")
	parts = append(parts, "## Answer:")

	return strings.Join(parts, "\n")
}
