package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewCreatesDirectories(t *testing.T) {
	root := t.TempDir()

	if _, err := New(root); err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, sub := range []string{ItemImageDir, NoteFileDir} {
		if _, err := os.Stat(filepath.Join(root, sub)); err != nil {
			t.Errorf("expected %s directory: %v", sub, err)
		}
	}
}

func TestSaveItemImage(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rel, err := store.SaveItemImage("bottle photo.jpg", []byte("jpeg data"))
	if err != nil {
		t.Fatalf("SaveItemImage: %v", err)
	}
	if !strings.HasPrefix(rel, ItemImageDir+string(filepath.Separator)) {
		t.Errorf("expected path under %s/, got %q", ItemImageDir, rel)
	}
	if !strings.HasSuffix(rel, "_bottle photo.jpg") {
		t.Errorf("expected timestamped original name, got %q", rel)
	}

	data, err := os.ReadFile(filepath.Join(store.Root, rel))
	if err != nil {
		t.Fatalf("reading saved image: %v", err)
	}
	if string(data) != "jpeg data" {
		t.Errorf("unexpected file contents: %q", data)
	}
}

func TestSaveAndOpenNoteFile(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rel, err := store.SaveNoteFile("DS_Notes.pdf", strings.NewReader("pdf contents"))
	if err != nil {
		t.Fatalf("SaveNoteFile: %v", err)
	}

	f, err := store.Open(rel)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	buf := make([]byte, 32)
	n, _ := f.Read(buf)
	if string(buf[:n]) != "pdf contents" {
		t.Errorf("unexpected contents: %q", buf[:n])
	}
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"normal.pdf":        "normal.pdf",
		`bad<>:"|?*.pdf`:    "bad_______.pdf",
		"../../escape.pdf":  "escape.pdf",
		"dir/traversal.pdf": "traversal.pdf",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}
