// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/dva-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter writes a transcript as Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts t to Markdown.
func (e *MarkdownExporter) Export(t Transcript) ([]byte, error) {
	if len(t.Messages) == 0 {
		return nil, ErrEmpty
	}

	var sb strings.Builder

	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "title: %s\n", escapeYAML(t.Title))
	fmt.Fprintf(&sb, "model: %s\n", t.Model)
	fmt.Fprintf(&sb, "messages: %d\n", len(t.Messages))
	fmt.Fprintf(&sb, "exported: %s\n", t.ExportedAt.Format(time.RFC3339))
	sb.WriteString("---\n\n")

	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(t.Title))
	fmt.Fprintf(&sb, "- **Model**: %s\n\n", model.DisplayName(t.Model))

	for i, msg := range t.Messages {
		label := msg.Author.DisplayName()
		if e.options.IncludeTimestamps {
			fmt.Fprintf(&sb, "### %s <sub>%s</sub>\n\n", label, msg.FormattedTime())
		} else {
			fmt.Fprintf(&sb, "### %s\n\n", label)
		}

		sb.WriteString(formatContent(msg))
		sb.WriteString("\n\n")

		if i < len(t.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	return []byte(sb.String()), nil
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// formatContent returns the message body; attachments become a labelled
// reference without their data.
func formatContent(msg model.Message) string {
	if !msg.Kind.IsAttachment() {
		return strings.TrimSpace(msg.Content)
	}
	name := msg.Name
	if name == "" {
		name = msg.Kind.String()
	}
	return fmt.Sprintf("*Attached %s:* `%s` (%s)", msg.Kind, strings.ReplaceAll(name, "`", "'"), msg.MediaType)
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes characters that would break headings and inline text.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer("#", `\#`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "`", "'")
	return r.Replace(s)
}

// escapeYAML quotes s when it contains characters YAML would interpret.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `"`, `\"`)
		s = strings.ReplaceAll(s, "\n", `\n`)
		s = strings.ReplaceAll(s, "\r", `\r`)
		return `"` + s + `"`
	}
	return s
}
