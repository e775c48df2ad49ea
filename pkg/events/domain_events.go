package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeRoleAssigned      = "ROLE_ASSIGNED"
	TypeRoleRevoked       = "ROLE_REVOKED"
	TypeSourceStatus      = "SOURCE_STATUS_CHANGED"
	TypeChatMessageStored = "CHAT_MESSAGE_STORED"
	TypeChatCleared       = "CHAT_HISTORY_CLEARED"
	TypeAccessDenied      = "DOCUMENT_ACCESS_DENIED"
)

func NewRoleAssigned(actorId, userId uuid.UUID, role string) Event {
	return BaseEvent{
		Type: TypeRoleAssigned,
		Data: map[string]interface{}{
			"actor_id": actorId.String(),
			"user_id":  userId.String(),
			"role":     role,
		},
		OccurredAt: time.Now(),
	}
}

func NewRoleRevoked(actorId, userId uuid.UUID, role string) Event {
	return BaseEvent{
		Type: TypeRoleRevoked,
		Data: map[string]interface{}{
			"actor_id": actorId.String(),
			"user_id":  userId.String(),
			"role":     role,
		},
		OccurredAt: time.Now(),
	}
}

func NewSourceStatusChanged(sourceId uuid.UUID, from, to string) Event {
	return BaseEvent{
		Type: TypeSourceStatus,
		Data: map[string]interface{}{
			"source_id": sourceId.String(),
			"from":      from,
			"to":        to,
		},
		OccurredAt: time.Now(),
	}
}

func NewChatMessageStored(sessionId uuid.UUID, messageType string) Event {
	return BaseEvent{
		Type: TypeChatMessageStored,
		Data: map[string]interface{}{
			"session_id":   sessionId.String(),
			"message_type": messageType,
		},
		OccurredAt: time.Now(),
	}
}

func NewChatHistoryCleared(sessionId, userId uuid.UUID) Event {
	return BaseEvent{
		Type: TypeChatCleared,
		Data: map[string]interface{}{
			"session_id": sessionId.String(),
			"user_id":    userId.String(),
		},
		OccurredAt: time.Now(),
	}
}

func NewDocumentAccessDenied(userId, documentId uuid.UUID, callerRole string) Event {
	return BaseEvent{
		Type: TypeAccessDenied,
		Data: map[string]interface{}{
			"user_id":     userId.String(),
			"document_id": documentId.String(),
			"caller_role": callerRole,
		},
		OccurredAt: time.Now(),
	}
}
