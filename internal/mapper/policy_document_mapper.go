package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"policyai-be/internal/entity"
	"policyai-be/internal/model"
	"policyai-be/internal/rbac"
)

type PolicyDocumentMapper struct{}

func NewPolicyDocumentMapper() *PolicyDocumentMapper {
	return &PolicyDocumentMapper{}
}

func (m *PolicyDocumentMapper) ToEntity(d *model.PolicyDocument) *entity.PolicyDocument {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	var roleAssignment *rbac.Role
	if d.RoleAssignment != nil && *d.RoleAssignment != "" {
		r := rbac.Role(*d.RoleAssignment)
		roleAssignment = &r
	}

	var exampleQuestions []string
	if len(d.ExampleQuestions) > 0 {
		// Malformed stored JSON degrades to no questions.
		_ = json.Unmarshal(d.ExampleQuestions, &exampleQuestions)
	}

	return &entity.PolicyDocument{
		Id:               d.Id,
		Title:            d.Title,
		Description:      d.Description,
		UserId:           d.UserId,
		RoleAssignment:   roleAssignment,
		GenerationStatus: entity.GenerationStatus(d.GenerationStatus),
		ExampleQuestions: exampleQuestions,
		Icon:             d.Icon,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *PolicyDocumentMapper) ToModel(d *entity.PolicyDocument) *model.PolicyDocument {
	if d == nil {
		return nil
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	var roleAssignment *string
	if d.RoleAssignment != nil {
		s := string(*d.RoleAssignment)
		roleAssignment = &s
	}

	var exampleQuestions datatypes.JSON
	if len(d.ExampleQuestions) > 0 {
		raw, _ := json.Marshal(d.ExampleQuestions)
		exampleQuestions = datatypes.JSON(raw)
	}

	generationStatus := string(d.GenerationStatus)
	if generationStatus == "" {
		generationStatus = string(entity.GenerationStatusPending)
	}

	return &model.PolicyDocument{
		Id:               d.Id,
		Title:            d.Title,
		Description:      d.Description,
		UserId:           d.UserId,
		RoleAssignment:   roleAssignment,
		GenerationStatus: generationStatus,
		ExampleQuestions: exampleQuestions,
		Icon:             d.Icon,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *PolicyDocumentMapper) ToEntities(docs []*model.PolicyDocument) []*entity.PolicyDocument {
	entities := make([]*entity.PolicyDocument, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
