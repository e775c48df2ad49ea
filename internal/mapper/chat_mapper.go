package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"policyai-be/internal/entity"
	"policyai-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ToEntity(h *model.ChatHistory) *entity.ChatHistory {
	if h == nil {
		return nil
	}

	var payload entity.ChatPayload
	// Rows written by older tooling may hold malformed JSON; surface them
	// as empty payloads rather than dropping the row.
	_ = json.Unmarshal(h.Message, &payload)

	return &entity.ChatHistory{
		Id:        h.Id,
		SessionId: h.SessionId,
		Message:   payload,
		CreatedAt: h.CreatedAt,
	}
}

func (m *ChatMapper) ToModel(h *entity.ChatHistory) (*model.ChatHistory, error) {
	if h == nil {
		return nil, nil
	}

	raw, err := json.Marshal(h.Message)
	if err != nil {
		return nil, err
	}

	return &model.ChatHistory{
		Id:        h.Id,
		SessionId: h.SessionId,
		Message:   datatypes.JSON(raw),
		CreatedAt: h.CreatedAt,
	}, nil
}

func (m *ChatMapper) ToEntities(rows []*model.ChatHistory) []*entity.ChatHistory {
	entities := make([]*entity.ChatHistory, len(rows))
	for i, h := range rows {
		entities[i] = m.ToEntity(h)
	}
	return entities
}
