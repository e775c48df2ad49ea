package entity

import (
	"time"

	"github.com/google/uuid"

	"policyai-be/internal/rbac"
)

type GenerationStatus string

const (
	GenerationStatusPending    GenerationStatus = "pending"
	GenerationStatusGenerating GenerationStatus = "generating"
	GenerationStatusCompleted  GenerationStatus = "completed"
)

// PolicyDocument is the unit of access control: one document, one chat
// session, one optional role assignment. Nil RoleAssignment means the
// document is open to every resolved role.
type PolicyDocument struct {
	Id               uuid.UUID
	Title            string
	Description      string
	UserId           uuid.UUID
	RoleAssignment   *rbac.Role
	GenerationStatus GenerationStatus
	ExampleQuestions []string
	Icon             string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}
