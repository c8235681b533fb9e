package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultChatDelay is the pause between two consecutive message fetches
const DefaultChatDelay = 1000 * time.Millisecond

// ChatAPI is the part of the Argo API a harvest needs
type ChatAPI interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	ListChats(ctx context.Context, agentID, token string) ([]ChatSummary, error)
	FetchMessages(ctx context.Context, chatID ChatID, token string) (json.RawMessage, error)
}

// ProgressFunc receives a human-readable line at each phase transition
type ProgressFunc func(message string)

// Harvester runs the authenticate, list, fetch pipeline for one agent.
// Calls are strictly sequential: one request is in flight at a time.
type Harvester struct {
	api      ChatAPI
	delay    time.Duration
	progress ProgressFunc
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// HarvesterOption configures a Harvester
type HarvesterOption func(*Harvester)

// WithDelay overrides the pause between message fetches
func WithDelay(d time.Duration) HarvesterOption {
	return func(h *Harvester) {
		h.delay = d
	}
}

// WithProgress registers a progress callback
func WithProgress(fn ProgressFunc) HarvesterOption {
	return func(h *Harvester) {
		h.progress = fn
	}
}

// WithClock overrides the time source used to stamp results
func WithClock(now func() time.Time) HarvesterOption {
	return func(h *Harvester) {
		h.now = now
	}
}

// WithSleeper overrides how the harvester waits between chats
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) HarvesterOption {
	return func(h *Harvester) {
		h.sleep = sleep
	}
}

// NewHarvester creates a harvester on top of api
func NewHarvester(api ChatAPI, opts ...HarvesterOption) *Harvester {
	h := &Harvester{
		api:      api,
		delay:    DefaultChatDelay,
		progress: func(string) {},
		now:      time.Now,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run harvests every chat of creds.AgentID. Authentication and listing
// failures abort the run with no result; a chat whose messages cannot be
// fetched is recorded as a failed ChatResult and the run moves on.
func (h *Harvester) Run(ctx context.Context, creds Credentials) (*HarvestResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	h.progress("Authenticating...")
	token, err := h.api.Authenticate(ctx, creds.Username, creds.Password)
	if err != nil {
		return nil, err
	}

	h.progress("Fetching chats...")
	chats, err := h.api.ListChats(ctx, creds.AgentID, token)
	if err != nil {
		return nil, err
	}
	LogDebug("Agent %s has %d chat(s) on the first page", creds.AgentID, len(chats))

	result := NewHarvestResult(creds.AgentID, h.now())
	for i, chat := range chats {
		h.progress(fmt.Sprintf("Fetching chat %d/%d...", i+1, len(chats)))

		messages, err := h.api.FetchMessages(ctx, chat.ID, token)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			LogWarn("Failed to fetch chat %s: %v", chat.ID, err)
			result.Chats = append(result.Chats, NewChatFailure(chat, err))
		} else {
			result.Chats = append(result.Chats, NewChatSuccess(chat, messages))
		}

		if i < len(chats)-1 {
			if err := h.sleep(ctx, h.delay); err != nil {
				return nil, err
			}
		}
	}

	summary := result.Summary()
	LogInfo("Harvest of agent %s done: %d chat(s), %d succeeded, %d failed",
		creds.AgentID, summary.TotalChats, summary.SuccessCount, summary.ErrorCount)
	return result, nil
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
