package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"lms-backoffice/helper"
	"lms-backoffice/models"
	"lms-backoffice/redis"
	"lms-backoffice/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const listCacheVersionKey = "documents:list:version"

// DocumentService is the single entry point for document lifecycle
// operations. Every state-changing path that touches content routes through
// the version store, so each accepted edit produces a new checksummed,
// numbered snapshot.
type DocumentService interface {
	CreateDocument(req models.CreateDocumentRequest, actorID uint) (*models.Document, error)
	GetDocument(id uint, publicOnly bool) (*models.Document, error)
	GetDocuments(params models.DocumentListParams, publicOnly bool) ([]models.Document, int64, error)
	UpdateDocument(id uint, req models.UpdateDocumentRequest, actorID uint) (*models.Document, error)
	ChangeStatus(id uint, action string, actorID uint) (*models.Document, error)
	DuplicateDocument(id uint, actorID uint) (*models.Document, error)
	DeleteDocument(id uint) error
	GetVersions(documentID uint) ([]models.DocumentVersion, error)
	GetVersion(documentID, versionID uint) (*models.DocumentVersion, error)
	DeleteVersion(documentID, versionID uint) error
	Rollback(documentID, versionID, actorID uint) (*models.DocumentVersion, error)
	Compare(documentID, versionAID, versionBID uint) (*models.VersionComparison, error)
	Export(documentID uint) (*models.DocumentExport, error)
	VerifyVersion(documentID, versionID uint) (*models.IntegrityReport, error)
}

type documentService struct {
	db           *gorm.DB
	documentRepo repositories.DocumentRepository
	versionRepo  repositories.DocumentVersionRepository
	courseRepo   repositories.CourseRepository
	cache        *redis.Cache
}

func NewDocumentService(
	db *gorm.DB,
	documentRepo repositories.DocumentRepository,
	versionRepo repositories.DocumentVersionRepository,
	courseRepo repositories.CourseRepository,
	cache *redis.Cache,
) DocumentService {
	return &documentService{
		db:           db,
		documentRepo: documentRepo,
		versionRepo:  versionRepo,
		courseRepo:   courseRepo,
		cache:        cache,
	}
}

func (s *documentService) CreateDocument(req models.CreateDocumentRequest, actorID uint) (*models.Document, error) {
	document := &models.Document{
		Slug:        s.uniqueSlug(req.Title),
		AuthorID:    actorID,
		CourseID:    req.CourseID,
		Status:      models.StatusDraft,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
	}
	// The document row and its 1.0 snapshot commit together: a saved
	// document always resolves to exactly one current snapshot.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.documentRepo.WithTx(tx).Create(document); err != nil {
			return err
		}
		_, err := s.versionRepo.WithTx(tx).CreateSnapshot(document.ID, repositories.SnapshotParams{
			Title:       req.Title,
			Description: req.Description,
			Content:     req.Content,
			ChangeLog:   "Initial version",
			Bump:        models.BumpMinor,
			ActorID:     actorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.refreshCourseDocumentCounts()
	s.invalidateListCache()

	return s.documentRepo.GetByID(document.ID)
}

func (s *documentService) GetDocument(id uint, publicOnly bool) (*models.Document, error) {
	document, err := s.documentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if publicOnly && document.Status != models.StatusPublished {
		return nil, models.ErrDocumentNotFound
	}
	return document, nil
}

type cachedDocumentList struct {
	Documents []models.Document `json:"documents"`
	Total     int64             `json:"total"`
}

func (s *documentService) GetDocuments(params models.DocumentListParams, publicOnly bool) ([]models.Document, int64, error) {
	ctx := context.Background()
	v := s.cache.GetVersion(ctx, listCacheVersionKey)
	cacheKey := fmt.Sprintf("documents:v%d:p%d:l%d:sb%s:so%s:st%s:a%d:c%d:pub%t",
		v, params.Page, params.Limit, params.SortBy, params.SortOrder,
		params.Status, params.AuthorID, params.CourseID, publicOnly)

	var cached cachedDocumentList
	if s.cache.Get(ctx, cacheKey, &cached) {
		return cached.Documents, cached.Total, nil
	}

	documents, total, err := s.documentRepo.GetList(params, publicOnly)
	if err != nil {
		return nil, 0, err
	}

	s.cache.Set(ctx, cacheKey, cachedDocumentList{Documents: documents, Total: total}, time.Hour)

	return documents, total, nil
}

func (s *documentService) UpdateDocument(id uint, req models.UpdateDocumentRequest, actorID uint) (*models.Document, error) {
	document, err := s.documentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Bump == models.BumpNone {
		// Denormalized-only write: no snapshot, no change log. Such edits
		// leave no history trail, so exports and comparisons will not see
		// them.
		document.Title = req.Title
		document.Description = req.Description
		document.Content = req.Content
		if err := s.documentRepo.Update(document); err != nil {
			return nil, err
		}
		log.Debug().Uint("document_id", id).Msg("updated document without version snapshot")
		s.invalidateListCache()
		return s.documentRepo.GetByID(id)
	}

	if strings.TrimSpace(req.ChangeLog) == "" {
		return nil, models.ErrMissingChangeLog
	}

	_, err = s.versionRepo.CreateSnapshot(id, repositories.SnapshotParams{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		ChangeLog:   req.ChangeLog,
		Bump:        req.Bump,
		ActorID:     actorID,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListCache()
	return s.documentRepo.GetByID(id)
}

var statusActions = map[string]models.DocumentStatus{
	models.ActionSubmitForReview: models.StatusReview,
	models.ActionPublish:         models.StatusPublished,
	models.ActionArchive:         models.StatusArchived,
}

func (s *documentService) ChangeStatus(id uint, action string, actorID uint) (*models.Document, error) {
	target, ok := statusActions[action]
	if !ok {
		return nil, fmt.Errorf("unknown status action %q", action)
	}

	document, err := s.documentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !document.Status.CanTransitionTo(target) {
		return nil, &models.InvalidTransitionError{From: document.Status, To: target}
	}

	from := document.Status
	document.Status = target
	if target == models.StatusPublished && document.PublishedAt == nil {
		// Re-publishing after an edit keeps the original timestamp: the
		// field records first-published provenance.
		now := time.Now().UTC()
		document.PublishedAt = &now
	}

	if err := s.documentRepo.Update(document); err != nil {
		return nil, err
	}

	log.Info().
		Uint("document_id", id).
		Uint("actor_id", actorID).
		Str("from", string(from)).
		Str("to", string(target)).
		Msg("document status changed")

	s.invalidateListCache()
	return document, nil
}

func (s *documentService) DuplicateDocument(id uint, actorID uint) (*models.Document, error) {
	source, err := s.documentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	current, err := s.versionRepo.CurrentOf(id)
	if err != nil {
		return nil, err
	}

	// A duplicate is a new identity in draft seeded from the source's
	// current content, whatever the source's status.
	duplicate := &models.Document{
		Slug:        s.uniqueSlug(current.Title),
		AuthorID:    actorID,
		CourseID:    source.CourseID,
		Status:      models.StatusDraft,
		Title:       current.Title,
		Description: source.Description,
		Content:     current.Content,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.documentRepo.WithTx(tx).Create(duplicate); err != nil {
			return err
		}
		_, err := s.versionRepo.WithTx(tx).CreateSnapshot(duplicate.ID, repositories.SnapshotParams{
			Title:       current.Title,
			Description: source.Description,
			Content:     current.Content,
			ChangeLog:   fmt.Sprintf("Duplicated from %s", source.Slug),
			Bump:        models.BumpMinor,
			ActorID:     actorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.refreshCourseDocumentCounts()
	s.invalidateListCache()

	return s.documentRepo.GetByID(duplicate.ID)
}

func (s *documentService) DeleteDocument(id uint) error {
	if _, err := s.documentRepo.GetByID(id); err != nil {
		return err
	}

	// History and document row go together: a failure partway through must
	// not leave a live document with no snapshots.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.versionRepo.WithTx(tx).DeleteByDocumentID(id); err != nil {
			return err
		}
		return s.documentRepo.WithTx(tx).Delete(id)
	})
	if err != nil {
		return err
	}

	s.refreshCourseDocumentCounts()
	s.invalidateListCache()
	return nil
}

func (s *documentService) GetVersions(documentID uint) ([]models.DocumentVersion, error) {
	if _, err := s.documentRepo.GetByID(documentID); err != nil {
		return nil, err
	}
	return s.versionRepo.GetByDocument(documentID)
}

func (s *documentService) GetVersion(documentID, versionID uint) (*models.DocumentVersion, error) {
	return s.versionRepo.GetVersion(documentID, versionID)
}

func (s *documentService) DeleteVersion(documentID, versionID uint) error {
	version, err := s.versionRepo.GetVersion(documentID, versionID)
	if err != nil {
		return err
	}
	return s.versionRepo.Delete(version)
}

func (s *documentService) Rollback(documentID, versionID, actorID uint) (*models.DocumentVersion, error) {
	document, err := s.documentRepo.GetByID(documentID)
	if err != nil {
		return nil, err
	}

	// Target lookup is scoped by document, so a foreign snapshot cannot be
	// restored into this document.
	target, err := s.versionRepo.GetVersion(documentID, versionID)
	if err != nil {
		return nil, err
	}

	// Rollback is always a minor bump relative to the current version, not
	// the target, keeping numbering strictly monotonic. History is never
	// rewritten: the restore shows up as a new forward-moving snapshot.
	restored, err := s.versionRepo.CreateSnapshot(documentID, repositories.SnapshotParams{
		Title:       target.Title,
		Description: document.Description,
		Content:     target.Content,
		ChangeLog:   fmt.Sprintf("Restored to version %s", target.Version),
		Bump:        models.BumpMinor,
		ActorID:     actorID,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListCache()
	return restored, nil
}

// comparableFields are the fields tracked by version comparison.
var comparableFields = []struct {
	name  string
	value func(*models.DocumentVersion) string
}{
	{"title", func(v *models.DocumentVersion) string { return v.Title }},
	{"content", func(v *models.DocumentVersion) string { return v.Content }},
	{"change_log", func(v *models.DocumentVersion) string { return v.ChangeLog }},
}

func (s *documentService) Compare(documentID, versionAID, versionBID uint) (*models.VersionComparison, error) {
	a, err := s.versionRepo.GetVersionByID(versionAID)
	if err != nil {
		return nil, err
	}
	b, err := s.versionRepo.GetVersionByID(versionBID)
	if err != nil {
		return nil, err
	}
	if a.DocumentID != b.DocumentID || a.DocumentID != documentID {
		return nil, models.ErrCrossDocumentComparison
	}

	// Normalize chronologically so the result is independent of argument
	// order. Created-at ties are broken by version number.
	pair := []*models.DocumentVersion{a, b}
	sort.SliceStable(pair, func(i, j int) bool {
		if !pair[i].CreatedAt.Equal(pair[j].CreatedAt) {
			return pair[i].CreatedAt.Before(pair[j].CreatedAt)
		}
		return pair[i].Version.Compare(pair[j].Version) < 0
	})
	older, newer := pair[0], pair[1]

	diffs := make([]models.FieldDiff, 0, len(comparableFields))
	for _, f := range comparableFields {
		oldValue, newValue := f.value(older), f.value(newer)
		diffs = append(diffs, models.FieldDiff{
			Field:    f.name,
			OldValue: oldValue,
			NewValue: newValue,
			Changed:  oldValue != newValue,
		})
	}

	return &models.VersionComparison{
		Older:      older,
		Newer:      newer,
		FieldDiffs: diffs,
	}, nil
}

func (s *documentService) Export(documentID uint) (*models.DocumentExport, error) {
	document, err := s.documentRepo.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	versions, err := s.versionRepo.GetByDocument(documentID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.VersionExportEntry, 0, len(versions))
	for i := range versions {
		entries = append(entries, versions[i].ExportEntry())
	}

	return &models.DocumentExport{
		DocumentID: document.ID,
		Slug:       document.Slug,
		ExportedAt: time.Now().UTC(),
		Versions:   entries,
	}, nil
}

func (s *documentService) VerifyVersion(documentID, versionID uint) (*models.IntegrityReport, error) {
	version, err := s.versionRepo.GetVersion(documentID, versionID)
	if err != nil {
		return nil, err
	}

	if err := helper.VerifyDigest(version.Content, version.Checksum); err != nil {
		log.Warn().
			Uint("document_id", documentID).
			Uint("version_id", versionID).
			Err(err).
			Msg("stored snapshot failed integrity verification")
		return nil, err
	}

	return &models.IntegrityReport{
		VersionNumber: version.Version.String(),
		Checksum:      version.Checksum,
		FileSize:      version.FileSize,
		VerifiedAt:    time.Now().UTC(),
	}, nil
}

// uniqueSlug derives a URL-safe slug from the title, suffixing a short
// random fragment when the plain slug is taken.
func (s *documentService) uniqueSlug(title string) string {
	slug := helper.Slugify(title)
	if slug == "" {
		slug = "document"
	}
	if _, err := s.documentRepo.GetBySlug(slug); err != nil {
		return slug
	}
	return fmt.Sprintf("%s-%s", slug, uuid.NewString()[:8])
}

// refreshCourseDocumentCounts recomputes the denormalized per-course
// document counters after any create/delete.
func (s *documentService) refreshCourseDocumentCounts() {
	counts, err := s.documentRepo.CountByCourse()
	if err != nil {
		log.Debug().Err(err).Msg("refresh course document counts failed")
		return
	}
	courses, err := s.courseRepo.GetAll()
	if err != nil || len(courses) == 0 {
		return
	}

	for i := range courses {
		courses[i].DocumentCount = counts[courses[i].ID]
	}
	if err := s.courseRepo.BulkUpdate(courses); err != nil {
		log.Debug().Err(err).Msg("bulk update course counts failed")
	}
}

func (s *documentService) invalidateListCache() {
	s.cache.IncrementVersion(context.Background(), listCacheVersionKey)
}
