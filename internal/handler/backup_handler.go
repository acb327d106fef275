package handler

import (
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/albadr/lighting-pos/internal/backup"
)

type BackupHandler struct {
	manager *backup.Manager
	dir     string
}

func NewBackupHandler(manager *backup.Manager, dir string) *BackupHandler {
	return &BackupHandler{manager: manager, dir: dir}
}

// CreateBackup produces a full archive (JSON, CSV, XLSX, raw copy)
// POST /api/v1/backups
func (h *BackupHandler) CreateBackup(c *fiber.Ctx) error {
	archive, err := h.manager.CreateFullBackup()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Backup created", "archive": filepath.Base(archive)})
}

// ListBackups returns the archives on disk, newest first
// GET /api/v1/backups
func (h *BackupHandler) ListBackups(c *fiber.Ctx) error {
	artifacts, err := h.manager.ListArtifacts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(artifacts)
}

// Cleanup removes all but the newest N archives
// POST /api/v1/backups/cleanup?keep=5
func (h *BackupHandler) Cleanup(c *fiber.Ctx) error {
	keep := c.QueryInt("keep", 5)
	removed, err := h.manager.CleanupOldBackups(keep)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"message": "Cleanup complete", "removed": removed, "kept": keep})
}

// Restore loads data back into the database, either from a backup
// archive produced by CreateBackup or from a bare JSON dump placed in
// the backup directory. Destructive.
// POST /api/v1/backups/restore
func (h *BackupHandler) Restore(c *fiber.Ctx) error {
	var req struct {
		File string `json:"file"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.File == "" {
		return c.Status(400).JSON(fiber.Map{"error": "file is required"})
	}

	// Confine restores to the backup directory.
	path := filepath.Join(h.dir, filepath.Base(req.File))
	if _, err := os.Stat(path); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Backup file not found"})
	}

	restore := h.manager.RestoreFromJSON
	if filepath.Ext(path) == ".zip" {
		restore = h.manager.RestoreFromArchive
	}
	if err := restore(path); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Restore complete"})
}
