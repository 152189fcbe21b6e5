// Package archive extracts and repacks zip-format PBIP project containers.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Extract unpacks the zip container at archivePath into destDir. The
// destination is deleted and recreated first, so repeated extractions never
// leak stale files into each other.
func Extract(archivePath, destDir string) error {
	if _, err := os.Stat(archivePath); err != nil {
		return fmt.Errorf("archive %s: %w", archivePath, err)
	}

	if err := os.RemoveAll(destDir); err != nil {
		return fmt.Errorf("clearing scratch directory %s: %w", destDir, err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating scratch directory %s: %w", destDir, err)
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer r.Close()

	for _, entry := range r.File {
		if err := extractEntry(entry, destDir); err != nil {
			return fmt.Errorf("extracting %s: %w", entry.Name, err)
		}
	}
	return nil
}

func extractEntry(entry *zip.File, destDir string) error {
	// Reject entries that would escape the scratch directory.
	rel := filepath.FromSlash(entry.Name)
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("entry path escapes destination")
	}
	target := filepath.Join(destDir, rel)

	if entry.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// Pack writes a new zip container at archivePath whose entries are exactly
// the files under srcDir, with slash-separated paths relative to srcDir and
// deflate compression. An existing file at archivePath is overwritten.
func Pack(srcDir, archivePath string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("creating archive %s: %w", archivePath, err)
	}

	w := zip.NewWriter(out)
	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		return packFile(w, path, filepath.ToSlash(rel))
	})
	if err != nil {
		w.Close()
		out.Close()
		return fmt.Errorf("packing %s: %w", srcDir, err)
	}
	if err := w.Close(); err != nil {
		out.Close()
		return fmt.Errorf("finalizing archive %s: %w", archivePath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing archive %s: %w", archivePath, err)
	}
	return nil
}

func packFile(w *zip.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
	dst, err := w.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}

// List returns the slash-separated entry names of the archive, sorted by the
// order they appear. Used for inspection and tests.
func List(archivePath string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer r.Close()

	var names []string
	for _, entry := range r.File {
		if strings.HasSuffix(entry.Name, "/") {
			continue
		}
		names = append(names, entry.Name)
	}
	return names, nil
}
