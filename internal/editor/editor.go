// Package editor orchestrates grouping updates against a PBIP archive with
// backup and restore around every destructive step, so the archive on disk
// is always either fully the old version or fully the new one.
package editor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pbitools/tmdlsync/internal/archive"
	"github.com/pbitools/tmdlsync/internal/grouping"
	"github.com/pbitools/tmdlsync/internal/tmdl"
)

// ArchiveExt is the expected extension of a PBIP project container.
const ArchiveExt = ".pbip"

// Failure taxonomy. Callers branch with errors.Is; everything returned by
// Update and Extract wraps one of these.
var (
	ErrValidation    = errors.New("validation failed")
	ErrArchive       = errors.New("archive operation failed")
	ErrModelNotFound = errors.New("model definition not found")
	ErrParse         = errors.New("model definition unreadable")
)

// Editor performs grouping reads and writes against PBIP archives. The zero
// value is usable; fields override the defaults.
type Editor struct {
	// TableName is the grouping table to edit. Defaults to
	// tmdl.DefaultTableName.
	TableName string

	// WorkDir is the root under which per-operation scratch directories are
	// created. Defaults to the OS temp directory. Each operation gets its
	// own subdirectory, so concurrent operations on different archives do
	// not collide.
	WorkDir string

	// KeepScratch leaves the scratch directory behind after the operation,
	// for diagnostics.
	KeepScratch bool

	// Logger receives progress and warning entries. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// pack is the repack step, replaceable in tests to inject failures.
	pack func(srcDir, archivePath string) error
}

func (e *Editor) table() string {
	if e.TableName != "" {
		return e.TableName
	}
	return tmdl.DefaultTableName
}

func (e *Editor) log() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func (e *Editor) repack(srcDir, archivePath string) error {
	if e.pack != nil {
		return e.pack(srcDir, archivePath)
	}
	return archive.Pack(srcDir, archivePath)
}

// scratchDir returns a fresh per-operation scratch path. The directory is
// not created here; extraction recreates it from scratch.
func (e *Editor) scratchDir() string {
	root := e.WorkDir
	if root == "" {
		root = os.TempDir()
	}
	return filepath.Join(root, "pbip-"+uuid.NewString())
}

// Update replaces the grouping table's persisted data in the archive with
// the dataset. On success the archive is rewritten in place and two backups
// remain: the pre-mutation model file as a .bak entry inside the repacked
// archive, and <archive>.bak next to the archive. On failure the archive is
// byte-for-byte what it was before the call.
func (e *Editor) Update(archivePath string, d grouping.Dataset) error {
	if err := validateArchivePath(archivePath); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	scratch := e.scratchDir()
	defer e.cleanup(scratch)

	if err := archive.Extract(archivePath, scratch); err != nil {
		return fmt.Errorf("%w: %v", ErrArchive, err)
	}
	e.log().Debug("extracted archive", "archive", archivePath, "scratch", scratch)

	modelPath, err := e.locateModel(scratch)
	if err != nil {
		return err
	}

	doc, err := tmdl.Parse(modelPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}

	if err := tmdl.EncodeGroupings(doc, e.table(), d); err != nil {
		return fmt.Errorf("encoding groupings: %w", err)
	}

	// Serialize backs the model file up first. A failure here leaves only
	// the scratch copy dirty; the real archive has not been touched.
	if err := tmdl.Serialize(doc, modelPath); err != nil {
		return fmt.Errorf("writing model file: %w", err)
	}
	e.log().Debug("rewrote model file", "model", modelPath, "rows", len(d))

	backupPath := archivePath + ".bak"
	if err := copyFile(archivePath, backupPath); err != nil {
		return fmt.Errorf("%w: backing up archive: %v", ErrArchive, err)
	}

	if err := e.repack(scratch, archivePath); err != nil {
		// The caller must never see a half-written archive.
		if restoreErr := copyFile(backupPath, archivePath); restoreErr != nil {
			return fmt.Errorf("%w: repack failed (%v) and restoring backup failed (%v); original preserved at %s",
				ErrArchive, err, restoreErr, backupPath)
		}
		e.log().Warn("repack failed, archive restored from backup", "archive", archivePath)
		return fmt.Errorf("%w: repacking archive: %v", ErrArchive, err)
	}

	e.log().Info("updated groupings", "archive", archivePath, "table", e.table(), "rows", len(d))
	return nil
}

// Extract reads the grouping table's dataset out of the archive without
// modifying anything. A nil dataset with a nil error means the archive holds
// no groupings, either because the table is absent or because its inline
// data could not be decoded; the latter is logged at warning level.
func (e *Editor) Extract(archivePath string) (grouping.Dataset, error) {
	if err := validateArchivePath(archivePath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	scratch := e.scratchDir()
	defer e.cleanup(scratch)

	if err := archive.Extract(archivePath, scratch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchive, err)
	}

	modelPath, err := e.locateModel(scratch)
	if err != nil {
		return nil, err
	}

	doc, err := tmdl.Parse(modelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	d, err := tmdl.DecodeGroupings(doc, e.table())
	if err != nil {
		// Foreign tools may have emptied or rewritten the partition; treat
		// it as a table with no data rather than a failure.
		e.log().Warn("groupings not decodable, treating table as empty", "table", e.table(), "reason", err)
		return nil, nil
	}
	return d, nil
}

func (e *Editor) locateModel(scratch string) (string, error) {
	modelPath, extras, err := tmdl.FindModelFile(scratch)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelNotFound, err)
	}
	if len(extras) > 0 {
		e.log().Warn("multiple model files in archive, using first",
			"model", modelPath, "ignored", len(extras))
	}
	return modelPath, nil
}

// cleanup removes the scratch directory. Failures are logged, never
// propagated; a committed archive stays committed even if cleanup fails.
func (e *Editor) cleanup(scratch string) {
	if e.KeepScratch {
		e.log().Info("keeping scratch directory", "scratch", scratch)
		return
	}
	if err := os.RemoveAll(scratch); err != nil {
		e.log().Warn("failed to clean up scratch directory", "scratch", scratch, "error", err)
	}
}

func validateArchivePath(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}
	if !strings.EqualFold(filepath.Ext(path), ArchiveExt) {
		return fmt.Errorf("archive %s: expected a %s file", path, ArchiveExt)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
