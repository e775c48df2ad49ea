package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChatMessageTypeHuman = "human"
	ChatMessageTypeAi    = "ai"
)

// ChatPayload is the JSONB body of one history row. For human rows
// Content is the raw prompt; for ai rows it is the workflow's reply JSON
// (segments plus citation offsets) stored verbatim.
type ChatPayload struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ChatHistory rows are keyed by a serial id so arrival order survives
// identical timestamps. SessionId equals the policy document id.
type ChatHistory struct {
	Id        int64
	SessionId uuid.UUID
	Message   ChatPayload
	CreatedAt time.Time
}
