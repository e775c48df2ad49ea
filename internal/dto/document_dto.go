package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Title          string  `json:"title" validate:"required"`
	Description    string  `json:"description"`
	RoleAssignment *string `json:"role_assignment" validate:"omitempty,oneof=administrator executive"`
}

type CreateDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateDocumentRequest struct {
	Id             uuid.UUID
	Title          string  `json:"title" validate:"required"`
	Description    string  `json:"description"`
	RoleAssignment *string `json:"role_assignment" validate:"omitempty,oneof=administrator executive"`
}

type DocumentResponse struct {
	Id               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	RoleAssignment   *string    `json:"role_assignment"`
	GenerationStatus string     `json:"generation_status"`
	ExampleQuestions []string   `json:"example_questions,omitempty"`
	Icon             string     `json:"icon,omitempty"`
	SourceCount      int64      `json:"source_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

// GenerationCallbackRequest is posted back by the workflow once
// document-level artifacts finish building. On success it carries the
// generated title, description, example questions and icon.
type GenerationCallbackRequest struct {
	PolicyDocumentId uuid.UUID `json:"policy_document_id" validate:"required"`
	Status           string    `json:"status" validate:"required,oneof=completed failed"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ExampleQuestions []string  `json:"example_questions"`
	Icon             string    `json:"icon"`
}
