package dto

import (
	"time"

	"github.com/google/uuid"

	"policyai-be/pkg/citation"
)

// SendChatRequest addresses the session by id; the session id of a chat
// is its policy document id. The caller's role is never part of the
// request.
type SendChatRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Message   string    `json:"message" validate:"required,max=4000"`
}

type ChatMessageResponse struct {
	Id        int64              `json:"id"`
	Type      string             `json:"type"` // "human" | "ai"
	Segments  []citation.Segment `json:"segments"`
	CreatedAt time.Time          `json:"created_at"`
}

type SendChatResponse struct {
	Sent  *ChatMessageResponse `json:"sent"`
	Reply *ChatMessageResponse `json:"reply,omitempty"`
}

type ChatHistoryResponse struct {
	SessionId uuid.UUID             `json:"session_id"`
	Messages  []ChatMessageResponse `json:"messages"`
}

type CheckAccessResponse struct {
	Allowed bool   `json:"allowed"`
	Role    string `json:"role"`
}

// ChatCallbackRequest carries an asynchronous ai reply delivered by the
// workflow after a send.
type ChatCallbackRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Content   string    `json:"content" validate:"required"`
}
