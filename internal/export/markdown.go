package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/chat-harvest/internal"
	"github.com/tidwall/gjson"
)

// MarkdownExporter exports harvests in Markdown format
type MarkdownExporter struct{}

// fields probed, in order, to find who wrote a message and what it says
var (
	actorFields   = []string{"role", "sender", "author", "type", "from"}
	contentFields = []string{"content", "text", "message", "body"}
)

// Export exports a harvest to Markdown format
func (e *MarkdownExporter) Export(result *internal.HarvestResult, w io.Writer) error {
	summary := result.Summary()

	_, _ = fmt.Fprintf(w, "# Conversations of agent %s\n\n", result.AgentID)
	_, _ = fmt.Fprintf(w, "**Harvested:** %s  \n", result.Timestamp)
	_, _ = fmt.Fprintf(w, "**Chats:** %d (%d ok, %d failed)\n\n", summary.TotalChats, summary.SuccessCount, summary.ErrorCount)

	for _, chat := range result.Chats {
		_, _ = fmt.Fprintf(w, "---\n\n")

		name := chat.Name
		if name == "" {
			name = "Untitled"
		}
		_, _ = fmt.Fprintf(w, "## %s\n\n", escapeMarkdown(name))
		_, _ = fmt.Fprintf(w, "**ID:** %s  \n", chat.ID)
		if chat.CreationTime != "" {
			_, _ = fmt.Fprintf(w, "**Created:** %s  \n", chat.CreationTime)
		}
		_, _ = fmt.Fprintf(w, "\n")

		if chat.Failed() {
			_, _ = fmt.Fprintf(w, "> **Error:** %s\n\n", chat.Error)
			continue
		}
		writeMessages(w, chat.Messages)
	}

	return nil
}

// writeMessages renders a message list when the payload looks like one
// (an array, or an object wrapping an array under "items" or "messages");
// anything else is shown as an indented JSON block
func writeMessages(w io.Writer, payload json.RawMessage) {
	list := gjson.ParseBytes(payload)
	if list.IsObject() {
		for _, key := range []string{"items", "messages"} {
			if inner := list.Get(key); inner.IsArray() {
				list = inner
				break
			}
		}
	}

	if !list.IsArray() {
		writeRawJSON(w, payload)
		return
	}

	messages := list.Array()
	if len(messages) == 0 {
		_, _ = fmt.Fprintf(w, "_No messages._\n\n")
		return
	}

	for _, msg := range messages {
		actor := firstString(msg, actorFields)
		content := firstString(msg, contentFields)
		if msg.Type == gjson.String {
			content = msg.String()
		}
		if actor == "" {
			actor = "message"
		}
		if content == "" {
			_, _ = fmt.Fprintf(w, "**%s:**\n\n", actor)
			writeRawJSON(w, json.RawMessage(msg.Raw))
			continue
		}
		_, _ = fmt.Fprintf(w, "**%s:**\n\n%s\n\n", actor, escapeMarkdown(content))
	}
}

func firstString(msg gjson.Result, fields []string) string {
	if !msg.IsObject() {
		return ""
	}
	for _, field := range fields {
		if v := msg.Get(field); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func writeRawJSON(w io.Writer, payload json.RawMessage) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		buf.Reset()
		buf.Write(payload)
	}
	_, _ = fmt.Fprintf(w, "```json\n%s\n```\n\n", buf.String())
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
