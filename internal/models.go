package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the ISO-8601 layout used for harvest timestamps
// (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Credentials holds what a user submits for one harvest
type Credentials struct {
	Username string
	Password string
	AgentID  string
}

// Validate checks that all fields are present
func (c Credentials) Validate() error {
	switch {
	case c.Username == "":
		return fmt.Errorf("username is required")
	case c.Password == "":
		return fmt.Errorf("password is required")
	case c.AgentID == "":
		return fmt.Errorf("agent id is required")
	}
	return nil
}

// ChatID is an opaque chat identifier. The listing endpoint may send it as
// a JSON string or a JSON number; the id is written back the way it came.
type ChatID struct {
	text    string
	numeric bool
}

// NewChatID returns an id that encodes as a JSON string
func NewChatID(s string) ChatID {
	return ChatID{text: s}
}

// NumericChatID returns an id that encodes as a JSON number. s must be a
// valid JSON number.
func NumericChatID(s string) ChatID {
	return ChatID{text: s, numeric: true}
}

// UnmarshalJSON accepts strings and bare numbers
func (id *ChatID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NewChatID(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*id = ChatID{}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("chat id must be a string or number: %w", err)
	}
	*id = NumericChatID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers and everything else as strings
func (id ChatID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.text), nil
	}
	return json.Marshal(id.text)
}

// Numeric reports whether the id arrived as a JSON number
func (id ChatID) Numeric() bool {
	return id.numeric
}

// String returns the id as text
func (id ChatID) String() string {
	return id.text
}

// ChatSummary is one entry of the chat listing
type ChatSummary struct {
	ID           ChatID `json:"id"`
	ChatName     string `json:"chat_name"`
	CreationTime string `json:"creation_time"`
}

// ChatList is the body returned by the listing endpoint
type ChatList struct {
	Items []ChatSummary `json:"items"`
}

// ChatResult is the outcome of fetching one chat. Exactly one of Messages
// and Error is set.
type ChatResult struct {
	ID           ChatID          `json:"id"`
	Name         string          `json:"name"`
	CreationTime string          `json:"creationTime,omitempty"`
	Messages     json.RawMessage `json:"messages,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// Failed reports whether the chat could not be fetched
func (c ChatResult) Failed() bool {
	return c.Error != ""
}

// NewChatSuccess builds a successful result from a listing entry
func NewChatSuccess(summary ChatSummary, messages json.RawMessage) ChatResult {
	return ChatResult{
		ID:           summary.ID,
		Name:         summary.ChatName,
		CreationTime: summary.CreationTime,
		Messages:     messages,
	}
}

// NewChatFailure builds a failed result from a listing entry
func NewChatFailure(summary ChatSummary, err error) ChatResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ChatResult{
		ID:    summary.ID,
		Name:  summary.ChatName,
		Error: msg,
	}
}

// HarvestResult is the aggregated document produced by a harvest
type HarvestResult struct {
	AgentID   string       `json:"agentId"`
	Timestamp string       `json:"timestamp"`
	Chats     []ChatResult `json:"chats"`
}

// NewHarvestResult starts an empty result stamped with now
func NewHarvestResult(agentID string, now time.Time) *HarvestResult {
	return &HarvestResult{
		AgentID:   agentID,
		Timestamp: FormatTimestamp(now),
		Chats:     make([]ChatResult, 0),
	}
}

// HarvestSummary counts the outcome of a harvest
type HarvestSummary struct {
	TotalChats   int `json:"totalChats"`
	SuccessCount int `json:"successCount"`
	ErrorCount   int `json:"errorCount"`
}

// Summary computes the success and error counts
func (r *HarvestResult) Summary() HarvestSummary {
	s := HarvestSummary{TotalChats: len(r.Chats)}
	for _, chat := range r.Chats {
		if chat.Failed() {
			s.ErrorCount++
		} else {
			s.SuccessCount++
		}
	}
	return s
}

// FormatTimestamp renders t as an ISO-8601 UTC timestamp
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FileSafeTimestamp renders t like FormatTimestamp with ':' and '.'
// replaced by '-'
func FileSafeTimestamp(t time.Time) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(FormatTimestamp(t))
}

var pathSeparators = strings.NewReplacer("/", "_", "\\", "_", "\x00", "_")

// ExportFilename returns the name of the exported document for an agent.
// Path separators in the agent id are replaced so the name stays a single
// path element.
func ExportFilename(agentID string, t time.Time, ext string) string {
	return fmt.Sprintf("conversations_%s_%s.%s", pathSeparators.Replace(agentID), FileSafeTimestamp(t), ext)
}
