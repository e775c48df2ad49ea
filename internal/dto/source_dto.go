package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSourceItem struct {
	Title string `json:"title" validate:"required"`
	Type  string `json:"type" validate:"required,oneof=pdf text website youtube audio"`

	// File sources (pdf, audio): Data carries the base64-encoded body.
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
	Data     string `json:"data"`

	// Pasted-text sources.
	Content string `json:"content"`

	// Link sources (website, youtube).
	Url string `json:"url"`
}

type CreateSourcesRequest struct {
	PolicyDocumentId uuid.UUID          `json:"policy_document_id" validate:"required"`
	Sources          []CreateSourceItem `json:"sources" validate:"required,min=1,max=20,dive"`
}

type SourceResponse struct {
	Id               uuid.UUID  `json:"id"`
	PolicyDocumentId uuid.UUID  `json:"policy_document_id"`
	Title            string     `json:"title"`
	Type             string     `json:"type"`
	Url              *string    `json:"url,omitempty"`
	MimeType         string     `json:"mime_type,omitempty"`
	FileSize         int64      `json:"file_size"`
	Status           string     `json:"status"`
	ErrorMessage     *string    `json:"error_message,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

type CreateSourcesResponse struct {
	Sources []SourceResponse `json:"sources"`
}

// SourceCallbackRequest is posted back by the workflow when downstream
// processing of one source finishes.
type SourceCallbackRequest struct {
	SourceId uuid.UUID `json:"source_id" validate:"required"`
	Status   string    `json:"status" validate:"required,oneof=completed completed_partial failed"`
	Error    *string   `json:"error,omitempty"`
}

// PublishIngestSourceMessage is the queue payload handed to the ingest
// consumer for one uploaded file. Data carries the base64 body; the
// queue is in-process so the bytes never cross a network.
type PublishIngestSourceMessage struct {
	SourceId uuid.UUID `json:"source_id"`
	Data     string    `json:"data"`
}
