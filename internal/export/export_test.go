package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zettelhub/zettel/internal/index"
	"github.com/zettelhub/zettel/internal/models"
	"github.com/zettelhub/zettel/internal/notestore"
	"github.com/zettelhub/zettel/internal/repository"
	"github.com/zettelhub/zettel/internal/storage"
	"github.com/zettelhub/zettel/internal/zettel"
)

func testStack(t *testing.T) (*Service, *repository.Repository) {
	t.Helper()
	files, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	dbFile, err := os.CreateTemp("", "zettel-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := repository.New(notestore.New(files), db, nil)
	return NewService(zettel.NewService(repo)), repo
}

func addNote(t *testing.T, repo *repository.Repository, n *models.Note) {
	t.Helper()
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	n.CreatedAt, n.UpdatedAt = now, now
	if _, err := repo.Create(n); err != nil {
		t.Fatalf("Create(%s): %v", n.ID, err)
	}
}

func TestToMarkdown(t *testing.T) {
	svc, repo := testStack(t)
	a := &models.Note{ID: "1", Title: "Hub of Everything", Type: models.NoteHub, Content: "overview"}
	a.AddLink("2", models.LinkReference, "see also")
	a.AddLink("ghost", models.LinkReference, "")
	addNote(t, repo, a)
	addNote(t, repo, &models.Note{ID: "2", Title: "Detail Note", Type: models.NotePermanent, Content: "detail"})

	dir := t.TempDir()
	n, err := svc.ToMarkdown(dir, true)
	if err != nil {
		t.Fatalf("ToMarkdown: %v", err)
	}
	if n != 2 {
		t.Errorf("exported = %d, want 2", n)
	}

	hubPath := filepath.Join(dir, "hub_notes", "1_hub-of-everything.md")
	data, err := os.ReadFile(hubPath)
	if err != nil {
		t.Fatalf("read exported hub: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "[2](../permanent_notes/2_detail-note.md)") {
		t.Errorf("resolved link missing:\n%s", s)
	}
	if !strings.Contains(s, "ghost (missing)") {
		t.Errorf("broken link marker missing:\n%s", s)
	}

	idx, err := os.ReadFile(filepath.Join(dir, "index.md"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if !strings.Contains(string(idx), "## Hub notes") || !strings.Contains(string(idx), "[Hub of Everything]") {
		t.Errorf("index content:\n%s", idx)
	}
}

func TestToMarkdown_CleanRemovesStale(t *testing.T) {
	svc, repo := testStack(t)
	addNote(t, repo, &models.Note{ID: "1", Title: "Only Note", Content: "x"})

	dir := t.TempDir()
	stale := filepath.Join(dir, "stale.md")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ToMarkdown(dir, true); err != nil {
		t.Fatalf("ToMarkdown: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file should be removed when clean is set")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Hello World":    "hello-world",
		"  Ünicode!! ":   "nicode",
		"---":            "untitled",
		"already-fine":   "already-fine",
		"Mixed_CASE 123": "mixed-case-123",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
