package domain

import (
	"time"

	"github.com/google/uuid"
)

// FileRecord is the ownership and upload metadata for one stored
// spreadsheet. StorageFilename addresses the blob store; OriginalName is
// what the uploader called the file.
type FileRecord struct {
	ID              uuid.UUID `json:"id" db:"id"`
	OwnerUserID     uuid.UUID `json:"user_id" db:"user_id"`
	StorageFilename string    `json:"-" db:"filename"`
	OriginalName    string    `json:"original_name" db:"original_name"`
	SizeBytes       int64     `json:"file_size" db:"file_size"`
	UploadedAt      time.Time `json:"upload_date" db:"upload_date"`
}
