package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// CreateTestHarvest builds a harvest with ok successful chats followed by
// failed failed chats
func CreateTestHarvest(agentID string, ok, failed int) *HarvestResult {
	result := NewHarvestResult(agentID, time.Date(2024, 6, 1, 12, 30, 0, 250000000, time.UTC))
	for i := 0; i < ok; i++ {
		summary := ChatSummary{
			ID:           NewChatID(fmt.Sprintf("chat-%d", i+1)),
			ChatName:     fmt.Sprintf("Conversation %d", i+1),
			CreationTime: fmt.Sprintf("2024-05-%02dT09:00:00", i+1),
		}
		messages := json.RawMessage(fmt.Sprintf(
			`[{"role":"user","content":"Question %d"},{"role":"assistant","content":"Answer %d"}]`, i+1, i+1))
		result.Chats = append(result.Chats, NewChatSuccess(summary, messages))
	}
	for i := 0; i < failed; i++ {
		summary := ChatSummary{
			ID:       NewChatID(fmt.Sprintf("broken-%d", i+1)),
			ChatName: fmt.Sprintf("Broken %d", i+1),
		}
		err := &MessageError{ChatID: summary.ID, StatusCode: 500, Err: errors.New("internal server error")}
		result.Chats = append(result.Chats, NewChatFailure(summary, err))
	}
	return result
}
