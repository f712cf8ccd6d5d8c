package repositories

import (
	"errors"
	"time"

	"lms-backoffice/helper"
	"lms-backoffice/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotParams describes one version-creating edit.
type SnapshotParams struct {
	Title       string
	Description string
	Content     string
	ChangeLog   string
	Bump        models.VersionBump
	ActorID     uint
}

// DocumentVersionRepository is the sole writer of version snapshot rows.
type DocumentVersionRepository interface {
	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *gorm.DB) DocumentVersionRepository

	// CreateSnapshot materializes a new current snapshot for the document
	// inside a single transaction: it re-reads the current snapshot under a
	// row lock, derives the next version number from that locked read,
	// inserts the new row as current, flips the prior current row, and syncs
	// the document's denormalized fields and current-version pointer. All of
	// it commits or rolls back together, so a reader never observes zero or
	// two current snapshots for one document.
	CreateSnapshot(documentID uint, params SnapshotParams) (*models.DocumentVersion, error)

	// GetByDocument lists all snapshots of a document, ordered by creation
	// time ascending.
	GetByDocument(documentID uint) ([]models.DocumentVersion, error)

	// GetVersion fetches one snapshot scoped by its owning document.
	GetVersion(documentID, versionID uint) (*models.DocumentVersion, error)

	// GetVersionByID fetches one snapshot regardless of owner. Callers that
	// accept version IDs from outside must check the owner themselves.
	GetVersionByID(versionID uint) (*models.DocumentVersion, error)

	// CurrentOf returns the document's current snapshot, or
	// ErrNoCurrentVersion if the document has never been saved.
	CurrentOf(documentID uint) (*models.DocumentVersion, error)

	// Delete permanently removes a non-current snapshot. Deleting the
	// current snapshot fails with ErrCurrentVersionProtected. Sibling
	// snapshots are never renumbered or otherwise touched.
	Delete(version *models.DocumentVersion) error

	// DeleteByDocumentID removes all snapshots of a document (cascade path
	// of document deletion).
	DeleteByDocumentID(documentID uint) error
}

type documentVersionRepository struct {
	db *gorm.DB
}

func NewDocumentVersionRepository(db *gorm.DB) DocumentVersionRepository {
	return &documentVersionRepository{db: db}
}

func (r *documentVersionRepository) WithTx(tx *gorm.DB) DocumentVersionRepository {
	return &documentVersionRepository{db: tx}
}

func (r *documentVersionRepository) CreateSnapshot(documentID uint, params SnapshotParams) (*models.DocumentVersion, error) {
	var created *models.DocumentVersion

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Re-read the current snapshot under a row lock so concurrent edits
		// serialize on the version number. FOR UPDATE is postgres-only;
		// sqlite (tests) falls back to its transaction-level locking.
		query := tx.Where("document_id = ? AND is_current = ?", documentID, true)
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		next := models.VersionNumber{Major: 1, Minor: 0}
		var current models.DocumentVersion
		err := query.First(&current).Error
		switch {
		case err == nil:
			if current.Version.IsZero() {
				next, err = r.recoveredNextVersion(tx, documentID, params.Bump)
				if err != nil {
					return err
				}
				log.Warn().
					Uint("document_id", documentID).
					Uint("version_id", current.ID).
					Str("next", next.String()).
					Msg("current snapshot has corrupt version number, resuming numbering above surviving history")
			} else {
				next = current.Version.Next(params.Bump)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// First snapshot of the document.
		default:
			return err
		}

		version := &models.DocumentVersion{
			DocumentID:    documentID,
			Version:       next,
			Title:         params.Title,
			Content:       params.Content,
			ChangeLog:     params.ChangeLog,
			IsCurrent:     true,
			Checksum:      helper.Digest(params.Content),
			ContentLength: helper.CharCount(params.Content),
			FileSize:      helper.ByteSize(params.Content),
			CreatedBy:     params.ActorID,
			CreatedAt:     time.Now().UTC(),
		}
		if err := tx.Create(version).Error; err != nil {
			return err
		}

		if current.ID != 0 {
			if err := tx.Model(&models.DocumentVersion{}).
				Where("id = ?", current.ID).
				Update("is_current", false).Error; err != nil {
				return err
			}
		}

		// Sync the owning document's denormalized mirror and pointer in the
		// same transaction.
		if err := tx.Model(&models.Document{}).
			Where("id = ?", documentID).
			Updates(map[string]interface{}{
				"title":              params.Title,
				"description":        params.Description,
				"content":            params.Content,
				"current_version_id": version.ID,
			}).Error; err != nil {
			return err
		}

		created = version
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// recoveredNextVersion derives the next version number when the current
// snapshot's stored number is corrupt. Bumping above the document's highest
// parseable version keeps numbering unique against surviving history; a
// document with no parseable history restarts at 1.0.
func (r *documentVersionRepository) recoveredNextVersion(tx *gorm.DB, documentID uint, bump models.VersionBump) (models.VersionNumber, error) {
	var stored []string
	if err := tx.Model(&models.DocumentVersion{}).
		Where("document_id = ?", documentID).
		Pluck("version", &stored).Error; err != nil {
		return models.VersionNumber{}, err
	}

	var highest models.VersionNumber
	for _, raw := range stored {
		if v, err := models.ParseVersionNumber(raw); err == nil && highest.Compare(v) < 0 {
			highest = v
		}
	}
	return highest.Next(bump), nil
}

func (r *documentVersionRepository) GetByDocument(documentID uint) ([]models.DocumentVersion, error) {
	var versions []models.DocumentVersion
	err := r.db.Where("document_id = ?", documentID).
		Order("created_at asc").
		Find(&versions).Error
	return versions, err
}

func (r *documentVersionRepository) GetVersion(documentID, versionID uint) (*models.DocumentVersion, error) {
	var version models.DocumentVersion
	err := r.db.Where("document_id = ? AND id = ?", documentID, versionID).
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrVersionNotFound
	}
	return &version, err
}

func (r *documentVersionRepository) GetVersionByID(versionID uint) (*models.DocumentVersion, error) {
	var version models.DocumentVersion
	err := r.db.First(&version, versionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrVersionNotFound
	}
	return &version, err
}

func (r *documentVersionRepository) CurrentOf(documentID uint) (*models.DocumentVersion, error) {
	var version models.DocumentVersion
	err := r.db.Where("document_id = ? AND is_current = ?", documentID, true).
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNoCurrentVersion
	}
	return &version, err
}

func (r *documentVersionRepository) Delete(version *models.DocumentVersion) error {
	if version.IsCurrent {
		return models.ErrCurrentVersionProtected
	}
	return r.db.Delete(&models.DocumentVersion{}, version.ID).Error
}

func (r *documentVersionRepository) DeleteByDocumentID(documentID uint) error {
	return r.db.Where("document_id = ?", documentID).
		Delete(&models.DocumentVersion{}).Error
}
