package mapper

import (
	"time"

	"policyai-be/internal/entity"
	"policyai-be/internal/model"
)

type SourceMapper struct{}

func NewSourceMapper() *SourceMapper {
	return &SourceMapper{}
}

func (m *SourceMapper) ToEntity(s *model.Source) *entity.Source {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.Source{
		Id:               s.Id,
		PolicyDocumentId: s.PolicyDocumentId,
		UserId:           s.UserId,
		Title:            s.Title,
		Type:             entity.SourceType(s.Type),
		Content:          s.Content,
		Url:              s.Url,
		FilePath:         s.FilePath,
		FileSize:         s.FileSize,
		MimeType:         s.MimeType,
		Status:           entity.SourceStatus(s.Status),
		ErrorMessage:     s.ErrorMessage,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *SourceMapper) ToModel(s *entity.Source) *model.Source {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.Source{
		Id:               s.Id,
		PolicyDocumentId: s.PolicyDocumentId,
		UserId:           s.UserId,
		Title:            s.Title,
		Type:             string(s.Type),
		Content:          s.Content,
		Url:              s.Url,
		FilePath:         s.FilePath,
		FileSize:         s.FileSize,
		MimeType:         s.MimeType,
		Status:           string(s.Status),
		ErrorMessage:     s.ErrorMessage,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *SourceMapper) ToEntities(sources []*model.Source) []*entity.Source {
	entities := make([]*entity.Source, len(sources))
	for i, s := range sources {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
