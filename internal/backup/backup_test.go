package backup

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/albadr/lighting-pos/internal/model"
)

func newBackupFixture(t *testing.T) (*Manager, *gorm.DB, string) {
	t.Helper()

	root := t.TempDir()
	dbPath := filepath.Join(root, "store.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Category{}, &model.Customer{}))

	backupDir := filepath.Join(root, "backups")
	return NewManager(db, backupDir, dbPath, zerolog.Nop()), db, backupDir
}

func seedRows(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&model.Category{Name: "Indoor"}).Error)
	require.NoError(t, db.Create(&model.Category{Name: "Outdoor"}).Error)
	require.NoError(t, db.Create(&model.Customer{Name: "Ali Hassan", Phone: "07701234567"}).Error)
}

func TestCreateFullBackup(t *testing.T) {
	mgr, db, backupDir := newBackupFixture(t)
	seedRows(t, db)

	archive, err := mgr.CreateFullBackup()
	require.NoError(t, err)
	assert.Equal(t, backupDir, filepath.Dir(archive))

	// The archive holds every dump format plus the raw sqlite copy.
	r, err := zip.OpenReader(archive)
	require.NoError(t, err)
	defer r.Close()

	names := make(map[string]bool, len(r.File))
	for _, f := range r.File {
		names[f.Name] = true
	}
	assert.True(t, names["data.json"])
	assert.True(t, names["data.xlsx"])
	assert.True(t, names["database.db"])
	assert.True(t, names["csv/categories.csv"])

	// Intermediates are cleaned up; only the archive remains.
	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(archive), entries[0].Name())
}

func TestRestoreFromJSONRoundTrip(t *testing.T) {
	mgr, db, _ := newBackupFixture(t)
	seedRows(t, db)

	dump := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, mgr.DumpJSON(dump))

	// Mutate the live data so the restore has something to undo.
	require.NoError(t, db.Exec("DELETE FROM categories").Error)
	require.NoError(t, db.Create(&model.Category{Name: "Stray"}).Error)

	require.NoError(t, mgr.RestoreFromJSON(dump))

	var names []string
	require.NoError(t, db.Model(&model.Category{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"Indoor", "Outdoor"}, names)

	var customers int64
	require.NoError(t, db.Model(&model.Customer{}).Count(&customers).Error)
	assert.Equal(t, int64(1), customers)
}

func TestRestoreFromArchiveRoundTrip(t *testing.T) {
	mgr, db, _ := newBackupFixture(t)
	seedRows(t, db)

	archive, err := mgr.CreateFullBackup()
	require.NoError(t, err)

	require.NoError(t, db.Exec("DELETE FROM categories").Error)
	require.NoError(t, db.Create(&model.Category{Name: "Stray"}).Error)

	// The archive is the only artifact the API hands out, so it must
	// restore without any loose intermediate files.
	require.NoError(t, mgr.RestoreFromArchive(archive))

	var names []string
	require.NoError(t, db.Model(&model.Category{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"Indoor", "Outdoor"}, names)
}

func TestRestoreFromArchiveWithoutDump(t *testing.T) {
	mgr, _, _ := newBackupFixture(t)

	path := filepath.Join(t.TempDir(), "empty.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("readme.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("nothing here"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	err = mgr.RestoreFromArchive(path)
	assert.ErrorContains(t, err, "data.json")
}

func TestCleanupOldBackups(t *testing.T) {
	mgr, _, backupDir := newBackupFixture(t)
	require.NoError(t, os.MkdirAll(backupDir, 0o755))

	// Fabricate archives with distinct mtimes, oldest first.
	for i, name := range []string{"backup_a.zip", "backup_b.zip", "backup_c.zip", "backup_d.zip"} {
		path := filepath.Join(backupDir, name)
		require.NoError(t, os.WriteFile(path, []byte("zip"), 0o644))
		stamp := time.Now().Add(time.Duration(i-10) * time.Minute)
		require.NoError(t, os.Chtimes(path, stamp, stamp))
	}

	removed, err := mgr.CleanupOldBackups(2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	artifacts, err := mgr.ListArtifacts()
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Equal(t, "backup_d.zip", artifacts[0].Name)
	assert.Equal(t, "backup_c.zip", artifacts[1].Name)

	t.Run("keep floor is one", func(t *testing.T) {
		removed, err := mgr.CleanupOldBackups(0)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
	})
}

func TestListArtifactsMissingDir(t *testing.T) {
	mgr, _, _ := newBackupFixture(t)
	artifacts, err := mgr.ListArtifacts()
	require.NoError(t, err)
	assert.Empty(t, artifacts)
}

func TestCopyRawDatabaseSkippedWithoutPath(t *testing.T) {
	_, db, _ := newBackupFixture(t)
	mgr := NewManager(db, t.TempDir(), "", zerolog.Nop())

	copied, err := mgr.CopyRawDatabase(filepath.Join(t.TempDir(), "database.db"))
	require.NoError(t, err)
	assert.False(t, copied)
}
