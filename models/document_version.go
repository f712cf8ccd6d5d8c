package models

import (
	"time"
)

// DocumentVersion is an immutable snapshot of a document's content at one
// version number. Rows are never updated after insert, with a single
// exception: is_current flips from true to false exactly once, when a newer
// snapshot becomes current.
type DocumentVersion struct {
	ID            uint          `json:"id" gorm:"primarykey"`
	DocumentID    uint          `json:"document_id" gorm:"not null;uniqueIndex:idx_document_version"`
	Document      *Document     `json:"document,omitempty" gorm:"foreignKey:DocumentID"`
	Version       VersionNumber `json:"version" gorm:"type:varchar(16);not null;uniqueIndex:idx_document_version"`
	Title         string        `json:"title" gorm:"not null"`
	Content       string        `json:"content" gorm:"type:text"`
	ChangeLog     string        `json:"change_log"`
	IsCurrent     bool          `json:"is_current" gorm:"not null;default:false"`
	Checksum      string        `json:"checksum" gorm:"type:varchar(64);not null"`
	ContentLength int           `json:"content_length" gorm:"not null"`
	FileSize      int64         `json:"file_size" gorm:"not null"`
	CreatedBy     uint          `json:"created_by" gorm:"not null"`
	Creator       *User         `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	CreatedAt     time.Time     `json:"created_at"`
}

// VersionExportEntry is the per-version record of the export payload.
// Downstream tooling consumes this shape verbatim.
type VersionExportEntry struct {
	VersionNumber string    `json:"versionNumber"`
	Title         string    `json:"title"`
	ContentLength int       `json:"contentLength"`
	ChangeLog     string    `json:"changeLog"`
	IsCurrent     bool      `json:"isCurrent"`
	FileSize      int64     `json:"fileSize"`
	Checksum      string    `json:"checksum"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     uint      `json:"createdBy"`
}

// DocumentExport is the full history export for one document.
type DocumentExport struct {
	DocumentID uint                 `json:"document_id"`
	Slug       string               `json:"slug"`
	ExportedAt time.Time            `json:"exported_at"`
	Versions   []VersionExportEntry `json:"versions"`
}

// ExportEntry maps a snapshot into the export serialization contract.
func (v *DocumentVersion) ExportEntry() VersionExportEntry {
	return VersionExportEntry{
		VersionNumber: v.Version.String(),
		Title:         v.Title,
		ContentLength: v.ContentLength,
		ChangeLog:     v.ChangeLog,
		IsCurrent:     v.IsCurrent,
		FileSize:      v.FileSize,
		Checksum:      v.Checksum,
		CreatedAt:     v.CreatedAt,
		CreatedBy:     v.CreatedBy,
	}
}
