package entity

import (
	"time"

	"github.com/google/uuid"
)

type SourceStatus string

const (
	SourceStatusPending          SourceStatus = "pending"
	SourceStatusUploading        SourceStatus = "uploading"
	SourceStatusProcessing       SourceStatus = "processing"
	SourceStatusCompleted        SourceStatus = "completed"
	SourceStatusCompletedPartial SourceStatus = "completed_partial"
	SourceStatusFailed           SourceStatus = "failed"
)

// statusRank orders the ingestion lifecycle so a row can never move
// backwards. Terminal states share the top rank.
var statusRank = map[SourceStatus]int{
	SourceStatusPending:          0,
	SourceStatusUploading:        1,
	SourceStatusProcessing:       2,
	SourceStatusCompleted:        3,
	SourceStatusCompletedPartial: 3,
	SourceStatusFailed:           3,
}

func (s SourceStatus) IsTerminal() bool {
	return s == SourceStatusCompleted || s == SourceStatusCompletedPartial || s == SourceStatusFailed
}

// CanTransition reports whether next is a legal successor of s. Failed is
// reachable from any non-terminal state; the happy path is
// pending -> uploading -> processing -> completed, where sources without
// a file body (website, youtube, text) skip uploading and move straight
// to processing. CompletedPartial marks an upload that stored fine but
// whose downstream processing callback reported an error.
func (s SourceStatus) CanTransition(next SourceStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if _, known := statusRank[next]; !known {
		return false
	}
	if next == SourceStatusFailed {
		return true
	}
	switch s {
	case SourceStatusPending:
		return next == SourceStatusUploading || next == SourceStatusProcessing
	case SourceStatusUploading:
		return next == SourceStatusProcessing
	case SourceStatusProcessing:
		return next == SourceStatusCompleted || next == SourceStatusCompletedPartial
	}
	return false
}

const MaxSourceFileSize = 50 * 1024 * 1024 // 50MB

var AllowedSourceMimeTypes = map[string]bool{
	"application/pdf": true,
	"text/plain":      true,
	"text/markdown":   true,
	"audio/mpeg":      true,
	"audio/wav":       true,
	"audio/mp4":       true,
}

type SourceType string

const (
	SourceTypePdf     SourceType = "pdf"
	SourceTypeText    SourceType = "text"
	SourceTypeWebsite SourceType = "website"
	SourceTypeYoutube SourceType = "youtube"
	SourceTypeAudio   SourceType = "audio"
)

// HasFileBody reports whether this source type carries uploaded bytes.
// The others reference a URL or carry pasted text and never enter the
// uploading state.
func (t SourceType) HasFileBody() bool {
	return t == SourceTypePdf || t == SourceTypeAudio
}

type Source struct {
	Id               uuid.UUID
	PolicyDocumentId uuid.UUID
	UserId           uuid.UUID
	Title            string
	Type             SourceType
	Content          *string
	Url              *string
	FilePath         *string
	FileSize         int64
	MimeType         string
	Status           SourceStatus
	ErrorMessage     *string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}
