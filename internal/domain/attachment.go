package domain

import "time"

// Attachment records an uploaded file's external storage reference.
// Only the uploader may delete it.
type Attachment struct {
	ID          string
	TicketID    string
	UploadedBy  string
	FileName    string
	FilePath    string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}
