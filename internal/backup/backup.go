package backup

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Artifact describes one backup archive on disk.
type Artifact struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager produces and restores backup archives. Dumps cover every
// table known to the gorm migrator; the raw copy is only taken when the
// store is a file-backed sqlite database.
type Manager struct {
	db         *gorm.DB
	dir        string
	sqlitePath string
	log        zerolog.Logger
}

func NewManager(db *gorm.DB, dir, sqlitePath string, log zerolog.Logger) *Manager {
	return &Manager{
		db:         db,
		dir:        dir,
		sqlitePath: sqlitePath,
		log:        log.With().Str("component", "backup").Logger(),
	}
}

func (m *Manager) tables() ([]string, error) {
	return m.db.Migrator().GetTables()
}

func (m *Manager) tableRows(table string) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	if err := m.db.Table(table).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DumpJSON writes every table as {"table": [rows...]} into one file.
func (m *Manager) DumpJSON(path string) error {
	tables, err := m.tables()
	if err != nil {
		return err
	}

	dump := make(map[string][]map[string]interface{}, len(tables))
	for _, table := range tables {
		rows, err := m.tableRows(table)
		if err != nil {
			return fmt.Errorf("dump table %s: %w", table, err)
		}
		dump[table] = rows
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}

// DumpCSV writes one CSV file per table into dir. Column order follows
// the first row's sorted keys so repeated dumps stay diffable.
func (m *Manager) DumpCSV(dir string) error {
	tables, err := m.tables()
	if err != nil {
		return err
	}

	for _, table := range tables {
		rows, err := m.tableRows(table)
		if err != nil {
			return fmt.Errorf("dump table %s: %w", table, err)
		}
		if err := writeCSV(filepath.Join(dir, table+".csv"), rows); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, rows []map[string]interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if len(rows) == 0 {
		return nil
	}

	header := sortedKeys(rows[0])
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(header))
		for i, col := range header {
			record[i] = cellString(row[col])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// DumpXLSX writes one workbook with a sheet per table.
func (m *Manager) DumpXLSX(path string) error {
	tables, err := m.tables()
	if err != nil {
		return err
	}

	wb := excelize.NewFile()
	defer wb.Close()

	for i, table := range tables {
		// Sheet names cap at 31 characters in the xlsx format.
		sheet := table
		if len(sheet) > 31 {
			sheet = sheet[:31]
		}
		if i == 0 {
			wb.SetSheetName(wb.GetSheetName(0), sheet)
		} else {
			if _, err := wb.NewSheet(sheet); err != nil {
				return err
			}
		}

		rows, err := m.tableRows(table)
		if err != nil {
			return fmt.Errorf("dump table %s: %w", table, err)
		}
		if len(rows) == 0 {
			continue
		}

		header := sortedKeys(rows[0])
		for col, name := range header {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := wb.SetCellValue(sheet, cell, name); err != nil {
				return err
			}
		}
		for rowIdx, row := range rows {
			for col, name := range header {
				cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				if err := wb.SetCellValue(sheet, cell, cellString(row[name])); err != nil {
					return err
				}
			}
		}
	}

	return wb.SaveAs(path)
}

// CopyRawDatabase copies the sqlite file verbatim. Returns false when
// the store is not file backed.
func (m *Manager) CopyRawDatabase(path string) (bool, error) {
	if m.sqlitePath == "" {
		return false, nil
	}
	src, err := os.Open(m.sqlitePath)
	if err != nil {
		return false, err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return false, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return false, err
	}
	return true, nil
}

// CreateFullBackup produces every dump format into a working directory,
// zips them into one archive under the backup dir and removes the
// intermediates. Returns the archive path.
func (m *Manager) CreateFullBackup() (string, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", err
	}

	stamp := time.Now().Format("20060102_150405")
	work, err := os.MkdirTemp(m.dir, "backup_"+stamp+"_*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(work)

	if err := m.DumpJSON(filepath.Join(work, "data.json")); err != nil {
		return "", err
	}
	csvDir := filepath.Join(work, "csv")
	if err := os.MkdirAll(csvDir, 0o755); err != nil {
		return "", err
	}
	if err := m.DumpCSV(csvDir); err != nil {
		return "", err
	}
	if err := m.DumpXLSX(filepath.Join(work, "data.xlsx")); err != nil {
		return "", err
	}
	copied, err := m.CopyRawDatabase(filepath.Join(work, "database.db"))
	if err != nil {
		m.log.Warn().Err(err).Msg("raw database copy failed, continuing without it")
	} else if !copied {
		m.log.Debug().Msg("store is not file backed, raw copy skipped")
	}

	archive := filepath.Join(m.dir, "backup_"+stamp+".zip")
	if err := zipDir(archive, work); err != nil {
		return "", err
	}

	m.log.Info().Str("archive", archive).Msg("backup created")
	return archive, nil
}

func zipDir(archive, root string) error {
	f, err := os.Create(archive)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
}

// ListArtifacts returns the backup archives newest first.
func (m *Manager) ListArtifacts() ([]Artifact, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Artifact{}, nil
		}
		return nil, err
	}

	artifacts := make([]Artifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".zip") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, Artifact{
			Name:      entry.Name(),
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime(),
		})
	}
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].CreatedAt.After(artifacts[j].CreatedAt)
	})
	return artifacts, nil
}

// CleanupOldBackups keeps the newest keep archives and removes the rest.
// Returns the number removed.
func (m *Manager) CleanupOldBackups(keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	artifacts, err := m.ListArtifacts()
	if err != nil {
		return 0, err
	}
	if len(artifacts) <= keep {
		return 0, nil
	}

	removed := 0
	for _, artifact := range artifacts[keep:] {
		if err := os.Remove(filepath.Join(m.dir, artifact.Name)); err != nil {
			m.log.Warn().Err(err).Str("artifact", artifact.Name).Msg("failed to remove old backup")
			continue
		}
		removed++
	}
	return removed, nil
}

// RestoreFromJSON replaces table contents with the rows from a DumpJSON
// file. Each table is cleared and reloaded in its own transaction;
// tables absent from the dump are left untouched. Destructive.
func (m *Manager) RestoreFromJSON(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.restoreDump(raw)
}

// RestoreFromArchive restores from the data.json inside an archive
// produced by CreateFullBackup. Destructive.
func (m *Manager) RestoreFromArchive(path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != "data.json" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return err
		}
		return m.restoreDump(raw)
	}
	return fmt.Errorf("archive %s contains no data.json", filepath.Base(path))
}

func (m *Manager) restoreDump(raw []byte) error {
	var dump map[string][]map[string]interface{}
	if err := json.Unmarshal(raw, &dump); err != nil {
		return fmt.Errorf("parse dump: %w", err)
	}

	known, err := m.tables()
	if err != nil {
		return err
	}
	knownSet := make(map[string]bool, len(known))
	for _, t := range known {
		knownSet[t] = true
	}

	for table, rows := range dump {
		if !knownSet[table] {
			m.log.Warn().Str("table", table).Msg("dump contains unknown table, skipped")
			continue
		}
		err := m.db.Transaction(func(tx *gorm.DB) error {
			// Table names come from the migrator, not user input.
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
			for _, row := range rows {
				if err := tx.Table(table).Create(row).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("restore table %s: %w", table, err)
		}
		m.log.Info().Str("table", table).Int("rows", len(rows)).Msg("table restored")
	}
	return nil
}

func sortedKeys(row map[string]interface{}) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
