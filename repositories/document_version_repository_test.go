package repositories

import (
	"testing"

	"lms-backoffice/helper"
	"lms-backoffice/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Document{},
		&models.DocumentVersion{},
	))
	return db
}

func createTestDocument(t *testing.T, db *gorm.DB) *models.Document {
	t.Helper()
	user := &models.User{Username: "author", Email: "author@example.com", Password: "x", Role: models.RoleAuthor}
	require.NoError(t, db.Create(user).Error)
	document := &models.Document{
		Slug:     "test-document",
		AuthorID: user.ID,
		Status:   models.StatusDraft,
		Title:    "Test Document",
		Content:  "initial",
	}
	require.NoError(t, db.Create(document).Error)
	return document
}

func TestCreateSnapshotFirstVersionIsOneZero(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentVersionRepository(db)
	document := createTestDocument(t, db)

	version, err := repo.CreateSnapshot(document.ID, SnapshotParams{
		Title:     "Test Document",
		Content:   "initial",
		ChangeLog: "Initial version",
		Bump:      models.BumpMinor,
		ActorID:   1,
	})
	require.NoError(t, err)

	assert.Equal(t, "1.0", version.Version.String())
	assert.True(t, version.IsCurrent)
	assert.Equal(t, helper.Digest("initial"), version.Checksum)
	assert.Equal(t, int64(7), version.FileSize)
	assert.Equal(t, 7, version.ContentLength)
}

func TestCreateSnapshotBumpsAndFlipsCurrent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentVersionRepository(db)
	document := createTestDocument(t, db)

	v1, err := repo.CreateSnapshot(document.ID, SnapshotParams{
		Title: "Test Document", Content: "one", ChangeLog: "Initial version",
		Bump: models.BumpMinor, ActorID: 1,
	})
	require.NoError(t, err)

	v2, err := repo.CreateSnapshot(document.ID, SnapshotParams{
		Title: "Test Document", Content: "two", ChangeLog: "Minor edit",
		Bump: models.BumpMinor, ActorID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "1.1", v2.Version.String())

	v3, err := repo.CreateSnapshot(document.ID, SnapshotParams{
		Title: "Test Document", Content: "three", ChangeLog: "Major rework",
		Bump: models.BumpMajor, ActorID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "2.0", v3.Version.String())

	// Exactly one current snapshot, and it is the newest one.
	var currents []models.DocumentVersion
	require.NoError(t, db.Where("document_id = ? AND is_current = ?", document.ID, true).Find(&currents).Error)
	require.Len(t, currents, 1)
	assert.Equal(t, v3.ID, currents[0].ID)

	// Prior snapshots are untouched apart from the current flag.
	var stored models.DocumentVersion
	require.NoError(t, db.First(&stored, v1.ID).Error)
	assert.Equal(t, "1.0", stored.Version.String())
	assert.Equal(t, "one", stored.Content)
	assert.False(t, stored.IsCurrent)
}

func TestCreateSnapshotSyncsDocument(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentVersionRepository(db)
	document := createTestDocument(t, db)

	version, err := repo.CreateSnapshot(document.ID, SnapshotParams{
		Title: "New Title", Description: "new description", Content: "new content",
		ChangeLog: "Initial version", Bump: models.BumpMinor, ActorID: 1,
	})
	require.NoError(t, err)

	var stored models.Document
	require.NoError(t, db.First(&stored, document.ID).Error)
	assert.Equal(t, "New Title", stored.Title)
	assert.Equal(t, "new description", stored.Description)
	assert.Equal(t, "new content", stored.Content)
	require.NotNil(t, stored.CurrentVersionID)
	assert.Equal(t, version.ID, *stored.CurrentVersionID)
}

func TestCreateSnapshotRecoversFromCorruptVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentVersionRepository(db)
	document := createTestDocument(t, db)

	_, err := repo.CreateSnapshot(document.ID, SnapshotParams{
		Title: "Test Document", Content: "one", ChangeLog: "Initial version",
		Bump: models.BumpMinor, ActorID: 1,
	})
	require.NoError(t, err)

	// Corrupt the stored version string behind the repository's back.
	require.NoError(t, db.Model(&models.DocumentVersion{}).
		Where("document_id = ?", document.ID).
		Update("version", "not-a-version").Error)

	// Numbering restarts at 1.0 instead of failing the edit.
	recovered, err := repo.CreateSnapshot(document.ID, SnapshotParams{
		Title: "Test Document", Content: "two", ChangeLog: "Recovery edit",
		Bump: models.BumpMinor, ActorID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "1.0", recovered.Version.String())
	assert.True(t, recovered.IsCurrent)
}

func TestCreateSnapshotCorruptCurrentResumesAboveHistory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentVersionRepository(db)
	document := createTestDocument(t, db)

	_, err := repo.CreateSnapshot(document.ID, SnapshotParams{
		Title: "Test Document", Content: "one", ChangeLog: "Initial version",
		Bump: models.BumpMinor, ActorID: 1,
	})
	require.NoError(t, err)
	v2, err := repo.CreateSnapshot(document.ID, SnapshotParams{
		Title: "Test Document", Content: "two", ChangeLog: "Edit",
		Bump: models.BumpMinor, ActorID: 1,
	})
	require.NoError(t, err)

	// Corrupt only the current (1.1) snapshot; the 1.0 row survives intact.
	require.NoError(t, db.Model(&models.DocumentVersion{}).
		Where("id = ?", v2.ID).
		Update("version", "not-a-version").Error)

	// Recovery resumes above the highest surviving number instead of
	// restarting at 1.0, which would collide with the intact row.
	recovered, err := repo.CreateSnapshot(document.ID, SnapshotParams{
		Title: "Test Document", Content: "three", ChangeLog: "Recovery edit",
		Bump: models.BumpMinor, ActorID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "1.1", recovered.Version.String())
	assert.True(t, recovered.IsCurrent)

	var currents []models.DocumentVersion
	require.NoError(t, db.Where("document_id = ? AND is_current = ?", document.ID, true).Find(&currents).Error)
	require.Len(t, currents, 1)
	assert.Equal(t, recovered.ID, currents[0].ID)

	// Editing keeps working after recovery.
	next, err := repo.CreateSnapshot(document.ID, SnapshotParams{
		Title: "Test Document", Content: "four", ChangeLog: "Follow-up edit",
		Bump: models.BumpMajor, ActorID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "2.0", next.Version.String())
}

func TestGetVersionIsDocumentScoped(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentVersionRepository(db)
	document := createTestDocument(t, db)

	other := &models.Document{Slug: "other", AuthorID: document.AuthorID, Status: models.StatusDraft, Title: "Other"}
	require.NoError(t, db.Create(other).Error)

	version, err := repo.CreateSnapshot(document.ID, SnapshotParams{
		Title: "Test Document", Content: "one", ChangeLog: "Initial version",
		Bump: models.BumpMinor, ActorID: 1,
	})
	require.NoError(t, err)

	found, err := repo.GetVersion(document.ID, version.ID)
	require.NoError(t, err)
	assert.Equal(t, version.ID, found.ID)

	// The same snapshot is invisible through a different document.
	_, err = repo.GetVersion(other.ID, version.ID)
	assert.ErrorIs(t, err, models.ErrVersionNotFound)
}

func TestCurrentOf(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentVersionRepository(db)
	document := createTestDocument(t, db)

	_, err := repo.CurrentOf(document.ID)
	assert.ErrorIs(t, err, models.ErrNoCurrentVersion)

	created, err := repo.CreateSnapshot(document.ID, SnapshotParams{
		Title: "Test Document", Content: "one", ChangeLog: "Initial version",
		Bump: models.BumpMinor, ActorID: 1,
	})
	require.NoError(t, err)

	current, err := repo.CurrentOf(document.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, current.ID)
}

func TestDeleteProtectsCurrentVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentVersionRepository(db)
	document := createTestDocument(t, db)

	v1, err := repo.CreateSnapshot(document.ID, SnapshotParams{
		Title: "Test Document", Content: "one", ChangeLog: "Initial version",
		Bump: models.BumpMinor, ActorID: 1,
	})
	require.NoError(t, err)
	v2, err := repo.CreateSnapshot(document.ID, SnapshotParams{
		Title: "Test Document", Content: "two", ChangeLog: "Edit",
		Bump: models.BumpMinor, ActorID: 1,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Delete(v2), models.ErrCurrentVersionProtected)

	// Reload so the flipped flag is honored, then delete the old snapshot.
	old, err := repo.GetVersion(document.ID, v1.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(old))

	// Siblings are never renumbered by a delete.
	remaining, err := repo.GetByDocument(document.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "1.1", remaining[0].Version.String())
}

func TestDeleteByDocumentID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentVersionRepository(db)
	document := createTestDocument(t, db)

	for _, changeLog := range []string{"Initial version", "Edit one", "Edit two"} {
		_, err := repo.CreateSnapshot(document.ID, SnapshotParams{
			Title: "Test Document", Content: changeLog, ChangeLog: changeLog,
			Bump: models.BumpMinor, ActorID: 1,
		})
		require.NoError(t, err)
	}

	require.NoError(t, repo.DeleteByDocumentID(document.ID))

	versions, err := repo.GetByDocument(document.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)
}
