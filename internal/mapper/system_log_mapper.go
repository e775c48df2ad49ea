package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"policyai-be/internal/entity"
	"policyai-be/internal/model"
)

type SystemLogMapper struct{}

func NewSystemLogMapper() *SystemLogMapper {
	return &SystemLogMapper{}
}

func (m *SystemLogMapper) ToModel(l *entity.SystemLog) *model.SystemLog {
	if l == nil {
		return nil
	}

	var module *string
	if l.Module != "" {
		mod := l.Module
		module = &mod
	}

	var details datatypes.JSON
	if l.Details != nil {
		if raw, err := json.Marshal(l.Details); err == nil {
			details = datatypes.JSON(raw)
		}
	}

	return &model.SystemLog{
		Id:        l.Id,
		Level:     l.Level,
		Module:    module,
		Message:   l.Message,
		Details:   details,
		CreatedAt: l.CreatedAt,
	}
}
