// Package upload persists binary attachments under a local uploads root:
// item photos under items/, note files under notes/. Stored names are the
// upload timestamp plus the sanitized original filename; rows reference the
// result by relative path. Writes are synchronous, run to completion or fail.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Subdirectories under the uploads root.
const (
	ItemImageDir = "items"
	NoteFileDir  = "notes"
)

// Store writes attachments below a fixed root directory.
type Store struct {
	Root string
}

// New creates the uploads root and its two subdirectories.
func New(root string) (*Store, error) {
	for _, sub := range []string{ItemImageDir, NoteFileDir} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, fmt.Errorf("creating upload directory: %w", err)
		}
	}
	return &Store{Root: root}, nil
}

// SaveItemImage writes already-processed image data and returns the relative
// path to store on the item row.
func (s *Store) SaveItemImage(originalName string, data []byte) (string, error) {
	rel := filepath.Join(ItemImageDir, storedName(originalName))
	if err := os.WriteFile(filepath.Join(s.Root, rel), data, 0o644); err != nil {
		return "", fmt.Errorf("writing item image: %w", err)
	}
	return rel, nil
}

// SaveNoteFile streams a note attachment to disk and returns the relative
// path to store on the note row. The caller enforces the size ceiling.
func (s *Store) SaveNoteFile(originalName string, r io.Reader) (string, error) {
	rel := filepath.Join(NoteFileDir, storedName(originalName))

	f, err := os.Create(filepath.Join(s.Root, rel))
	if err != nil {
		return "", fmt.Errorf("creating note file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing note file: %w", err)
	}
	return rel, nil
}

// Open returns a reader for a previously stored attachment.
func (s *Store) Open(relPath string) (*os.File, error) {
	f, err := os.Open(filepath.Join(s.Root, relPath))
	if err != nil {
		return nil, fmt.Errorf("opening attachment: %w", err)
	}
	return f, nil
}

// storedName prefixes the sanitized original filename with a timestamp. No
// further collision handling is done.
func storedName(originalName string) string {
	return time.Now().Format("20060102150405") + "_" + Sanitize(originalName)
}

// Sanitize replaces characters that are invalid in filenames and strips any
// client-supplied directory components.
func Sanitize(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '|', '?', '*':
			return '_'
		}
		return r
	}, name)
}
