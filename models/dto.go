package models

import "time"

type RegisterRequest struct {
	Username string   `json:"username" binding:"required,min=3,max=50"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Role     UserRole `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateDocumentRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=1000"`
	Content     string `json:"content" binding:"required"`
	CourseID    *uint  `json:"course_id"`
}

// UpdateDocumentRequest carries an edit intent. Bump selects how the next
// version number is derived; "none" updates the document's live fields
// without appending a snapshot and needs no change log.
type UpdateDocumentRequest struct {
	Title       string      `json:"title" binding:"required,min=1,max=255"`
	Description string      `json:"description" binding:"max=1000"`
	Content     string      `json:"content" binding:"required"`
	Bump        VersionBump `json:"bump" binding:"required,oneof=none minor major"`
	ChangeLog   string      `json:"change_log"`
}

const (
	ActionSubmitForReview = "submit_for_review"
	ActionPublish         = "publish"
	ActionArchive         = "archive"
)

type UpdateStatusRequest struct {
	Action string `json:"action" binding:"required,oneof=submit_for_review publish archive"`
}

type CreateCourseRequest struct {
	Code        string `json:"code" binding:"required,min=2,max=32"`
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=1000"`
}

type DocumentListParams struct {
	Status    string `form:"status"`
	AuthorID  uint   `form:"author_id"`
	CourseID  uint   `form:"course_id"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=10"`
	SortBy    string `form:"sort_by,default=created_at"`
	SortOrder string `form:"sort_order,default=desc"`
}

// FieldDiff reports how one tracked field changed between two versions.
type FieldDiff struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
	Changed  bool   `json:"changed"`
}

// VersionComparison is the argument-order-independent result of comparing
// two versions of the same document.
type VersionComparison struct {
	Older      *DocumentVersion `json:"older"`
	Newer      *DocumentVersion `json:"newer"`
	FieldDiffs []FieldDiff      `json:"field_diffs"`
}

// IntegrityReport is the result of recomputing a stored snapshot's digest.
type IntegrityReport struct {
	VersionNumber string    `json:"version_number"`
	Checksum      string    `json:"checksum"`
	FileSize      int64     `json:"file_size"`
	VerifiedAt    time.Time `json:"verified_at"`
}
