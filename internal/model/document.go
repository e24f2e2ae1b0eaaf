package model

import "time"

type Document struct {
	ID     uint `gorm:"primaryKey;autoIncrement"`
	UserID uint `gorm:"index;not null"`

	// Name of the file inside the upload directory. Always sanitized and
	// prefixed with a random ID so two uploads never share a path
	Filename string `gorm:"size:255;not null"`
	// Name as it was submitted by the browser
	OriginalFilename string `gorm:"size:255;not null"`

	// Both are measured on the saved file, the client's claims are ignored
	FileType string `gorm:"size:255"`
	FileSize int64

	UploadDate  time.Time `gorm:"autoCreateTime"`
	Description string    `gorm:"type:text"`
}
