package index

import (
	"os"
	"testing"
	"time"

	"github.com/zettelhub/zettel/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "zettel-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testNote(id, title string) *models.Note {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	return &models.Note{
		ID:        id,
		Title:     title,
		Content:   "body of " + title,
		Type:      models.NotePermanent,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	for _, table := range []string{"notes", "tags", "links"} {
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestUpsertAndGet(t *testing.T) {
	db := testDB(t)
	n := testNote("1", "Hello")
	n.Tags = []models.Tag{{Name: "go"}, {Name: "test"}}
	n.AddLink("2", models.LinkExtends, "desc")
	n.Metadata = map[string]any{"source": "inbox"}

	if err := db.UpsertNote(n, "abc123"); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}
	got, err := db.GetNote("1")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if got.Title != "Hello" || got.Type != models.NotePermanent {
		t.Errorf("note = %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0].Name != "go" {
		t.Errorf("tags = %v", got.Tags)
	}
	if len(got.Links) != 1 || got.Links[0].TargetID != "2" || got.Links[0].Type != models.LinkExtends {
		t.Errorf("links = %v", got.Links)
	}
	if got.Metadata["source"] != "inbox" {
		t.Errorf("metadata = %v", got.Metadata)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetNote("missing"); !IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestGetByTitle(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(testNote("1", "Unique Title"), "x")

	got, err := db.GetByTitle("Unique Title")
	if err != nil {
		t.Fatalf("GetByTitle: %v", err)
	}
	if got.ID != "1" {
		t.Errorf("id = %q", got.ID)
	}
	if _, err := db.GetByTitle("nope"); !IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestUpsertReplacesTagsAndLinks(t *testing.T) {
	db := testDB(t)
	n := testNote("1", "Old")
	n.Tags = []models.Tag{{Name: "old"}}
	n.AddLink("x", models.LinkReference, "")
	_ = db.UpsertNote(n, "1")

	n2 := testNote("1", "New")
	n2.Tags = []models.Tag{{Name: "new"}}
	n2.AddLink("y", models.LinkReference, "")
	_ = db.UpsertNote(n2, "2")

	got, _ := db.GetNote("1")
	if got.Title != "New" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "new" {
		t.Errorf("tags = %v", got.Tags)
	}
	if len(got.Links) != 1 || got.Links[0].TargetID != "y" {
		t.Errorf("links = %v", got.Links)
	}

	cs, _ := db.AllChecksums()
	if cs["1"] != "2" {
		t.Errorf("checksum = %q, want %q", cs["1"], "2")
	}
}

func TestDeleteNote_KeepsIncomingLinks(t *testing.T) {
	db := testDB(t)
	a := testNote("a", "A")
	a.AddLink("b", models.LinkReference, "")
	_ = db.UpsertNote(a, "1")
	_ = db.UpsertNote(testNote("b", "B"), "2")

	if err := db.DeleteNote("b"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if _, err := db.GetNote("b"); !IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}

	// a's outgoing link survives and is now broken.
	broken, err := db.BrokenLinks()
	if err != nil {
		t.Fatalf("BrokenLinks: %v", err)
	}
	if len(broken) != 1 || broken[0].SourceID != "a" || broken[0].TargetID != "b" {
		t.Errorf("broken = %v", broken)
	}
}

func TestFindByTag(t *testing.T) {
	db := testDB(t)
	a := testNote("a", "A")
	a.Tags = []models.Tag{{Name: "go"}}
	_ = db.UpsertNote(a, "1")
	b := testNote("b", "B")
	b.Tags = []models.Tag{{Name: "rust"}}
	_ = db.UpsertNote(b, "2")

	got, err := db.FindByTag("go")
	if err != nil {
		t.Fatalf("FindByTag: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("notes = %v", got)
	}
}

func TestFindLinked_Directions(t *testing.T) {
	db := testDB(t)
	a := testNote("a", "A")
	a.AddLink("b", models.LinkExtends, "")
	_ = db.UpsertNote(a, "1")
	_ = db.UpsertNote(testNote("b", "B"), "2")
	c := testNote("c", "C")
	c.AddLink("a", models.LinkReference, "")
	_ = db.UpsertNote(c, "3")

	out, err := db.FindLinked("a", Outgoing)
	if err != nil {
		t.Fatalf("FindLinked: %v", err)
	}
	if len(out) != 1 || out[0].ID != "b" {
		t.Errorf("outgoing = %v", out)
	}

	in, _ := db.FindLinked("a", Incoming)
	if len(in) != 1 || in[0].ID != "c" {
		t.Errorf("incoming = %v", in)
	}

	both, _ := db.FindLinked("a", Both)
	if len(both) != 2 {
		t.Errorf("both = %v", both)
	}
}

func TestCountConnections(t *testing.T) {
	db := testDB(t)
	a := testNote("a", "A")
	a.AddLink("b", models.LinkReference, "")
	a.AddLink("c", models.LinkReference, "")
	_ = db.UpsertNote(a, "1")
	_ = db.UpsertNote(testNote("b", "B"), "2")
	_ = db.UpsertNote(testNote("c", "C"), "3")
	_ = db.UpsertNote(testNote("d", "D"), "4")

	counts, err := db.CountConnections()
	if err != nil {
		t.Fatalf("CountConnections: %v", err)
	}
	if counts["a"] != 2 || counts["b"] != 1 || counts["c"] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if _, ok := counts["d"]; ok {
		t.Error("unconnected note must be absent from counts")
	}
}

func TestOrphans(t *testing.T) {
	db := testDB(t)
	a := testNote("a", "A")
	a.AddLink("b", models.LinkReference, "")
	_ = db.UpsertNote(a, "1")
	_ = db.UpsertNote(testNote("b", "B"), "2")
	_ = db.UpsertNote(testNote("d", "D"), "3")

	orphans, err := db.Orphans()
	if err != nil {
		t.Fatalf("Orphans: %v", err)
	}
	if len(orphans) != 1 || orphans[0].ID != "d" {
		t.Errorf("orphans = %v", orphans)
	}
}

func TestClear(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(testNote("a", "A"), "1")
	if err := db.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	all, _ := db.AllNotes()
	if len(all) != 0 {
		t.Errorf("notes after clear = %v", all)
	}
}

func TestAllTags(t *testing.T) {
	db := testDB(t)
	a := testNote("a", "A")
	a.Tags = []models.Tag{{Name: "zeta"}, {Name: "alpha"}}
	_ = db.UpsertNote(a, "1")
	b := testNote("b", "B")
	b.Tags = []models.Tag{{Name: "alpha"}}
	_ = db.UpsertNote(b, "2")

	tags, err := db.AllTags()
	if err != nil {
		t.Fatalf("AllTags: %v", err)
	}
	if len(tags) != 2 || tags[0].Name != "alpha" || tags[1].Name != "zeta" {
		t.Errorf("tags = %v", tags)
	}
}

func TestParseDirection(t *testing.T) {
	for raw, want := range map[string]Direction{
		"":         Both,
		"both":     Both,
		"outgoing": Outgoing,
		"incoming": Incoming,
	} {
		got, err := ParseDirection(raw)
		if err != nil || got != want {
			t.Errorf("ParseDirection(%q) = %v, %v", raw, got, err)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("expected error for unknown direction")
	}
}
