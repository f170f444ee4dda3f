// Package types - Upload descriptors
package types

import "time"

// UploadedFile is the terminal result of the upload collaborator
type UploadedFile struct {
	FileID       string    `json:"fileId" validate:"required"`
	OriginalName string    `json:"originalName" validate:"required"`
	Size         int64     `json:"size" validate:"gte=0"`
	MimeType     string    `json:"mimeType"`
	UploadedAt   time.Time `json:"uploadedAt"`
	IsImage      bool      `json:"isImage"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty" validate:"omitempty,url"`
}
