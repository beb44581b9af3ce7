package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/zettelhub/zettel/internal/index"
	"github.com/zettelhub/zettel/internal/models"
	"github.com/zettelhub/zettel/internal/notestore"
	"github.com/zettelhub/zettel/internal/repository"
	"github.com/zettelhub/zettel/internal/search"
	"github.com/zettelhub/zettel/internal/storage"
	"github.com/zettelhub/zettel/internal/zettel"
)

// testEnv sets up a temp vault, SQLite DB, services, and router.
// An empty authToken means disabled auth.
func testEnv(t *testing.T, authToken string) (*zettel.Service, http.Handler) {
	t.Helper()

	files, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	dbFile, err := os.CreateTemp("", "zettel-api-test-*.db")
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
	zs := zettel.NewService(repo)
	ss := search.NewService(zs)
	return zs, NewRouter(zs, ss, authToken != "", authToken)
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createNote(t *testing.T, router http.Handler, title string) *models.Note {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/notes", CreateNoteRequest{Title: title, Content: "body of " + title})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var note models.Note
	if err := json.Unmarshal(w.Body.Bytes(), &note); err != nil {
		t.Fatal(err)
	}
	return &note
}

func TestCreateAndGetNote(t *testing.T) {
	_, router := testEnv(t, "")
	note := createNote(t, router, "Hello")

	w := doJSON(t, router, http.MethodGet, "/notes/"+note.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got models.Note
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Title != "Hello" {
		t.Errorf("title = %q", got.Title)
	}

	// Title fallback.
	w = doJSON(t, router, http.MethodGet, "/notes/Hello", nil)
	if w.Code != http.StatusOK {
		t.Errorf("get by title status = %d", w.Code)
	}
}

func TestCreateNote_Invalid(t *testing.T) {
	_, router := testEnv(t, "")
	w := doJSON(t, router, http.MethodPost, "/notes", CreateNoteRequest{Content: "no title"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	_, router := testEnv(t, "")
	w := doJSON(t, router, http.MethodGet, "/notes/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUpdateAndDeleteNote(t *testing.T) {
	_, router := testEnv(t, "")
	note := createNote(t, router, "Old")

	newTitle := "New"
	w := doJSON(t, router, http.MethodPut, "/notes/"+note.ID, UpdateNoteRequest{Title: &newTitle})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}
	var got models.Note
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Title != "New" || got.Content != "body of Old" {
		t.Errorf("note = %+v", got)
	}

	w = doJSON(t, router, http.MethodDelete, "/notes/"+note.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/notes/"+note.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d", w.Code)
	}
}

func TestLinksEndpoints(t *testing.T) {
	_, router := testEnv(t, "")
	a := createNote(t, router, "A")
	b := createNote(t, router, "B")

	w := doJSON(t, router, http.MethodPost, "/links", CreateLinkRequest{
		SourceID: a.ID, TargetID: b.ID, LinkType: "extends", Bidirectional: true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create link status = %d, body = %s", w.Code, w.Body.String())
	}
	var linked LinkResponse
	_ = json.Unmarshal(w.Body.Bytes(), &linked)
	if linked.Target == nil {
		t.Error("expected reverse link in response")
	}

	w = doJSON(t, router, http.MethodGet, "/notes/"+a.ID+"/links?direction=outgoing", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("linked notes status = %d", w.Code)
	}
	var list NoteListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 1 || list.Notes[0].ID != b.ID {
		t.Errorf("linked = %+v", list)
	}

	w = doJSON(t, router, http.MethodDelete, "/links", RemoveLinkRequest{
		SourceID: a.ID, TargetID: b.ID, Bidirectional: true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("remove link status = %d", w.Code)
	}
}

func TestCreateLink_UnknownType(t *testing.T) {
	_, router := testEnv(t, "")
	a := createNote(t, router, "A")
	b := createNote(t, router, "B")

	w := doJSON(t, router, http.MethodPost, "/links", CreateLinkRequest{
		SourceID: a.ID, TargetID: b.ID, LinkType: "flavor",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, router := testEnv(t, "")
	createNote(t, router, "Graph theory basics")
	createNote(t, router, "Cooking")

	w := doJSON(t, router, http.MethodGet, "/search?q=graph", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d", w.Code)
	}
	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Results) != 1 || resp.Results[0].Note.Title != "Graph theory basics" {
		t.Errorf("results = %+v", resp.Results)
	}

	w = doJSON(t, router, http.MethodGet, "/search?start=not-a-date", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d", w.Code)
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	_, router := testEnv(t, "")
	a := createNote(t, router, "A")
	b := createNote(t, router, "B")
	createNote(t, router, "Lonely")
	doJSON(t, router, http.MethodPost, "/links", CreateLinkRequest{SourceID: a.ID, TargetID: b.ID})

	w := doJSON(t, router, http.MethodGet, "/analytics/central?limit=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("central status = %d", w.Code)
	}
	var central CentralResponse
	_ = json.Unmarshal(w.Body.Bytes(), &central)
	if len(central.Results) != 2 {
		t.Errorf("central = %+v", central.Results)
	}

	w = doJSON(t, router, http.MethodGet, "/analytics/orphans", nil)
	var orphans NoteListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &orphans)
	if orphans.Total != 1 || orphans.Notes[0].Title != "Lonely" {
		t.Errorf("orphans = %+v", orphans)
	}

	w = doJSON(t, router, http.MethodGet, "/analytics/broken-links", nil)
	if w.Code != http.StatusOK {
		t.Errorf("broken-links status = %d", w.Code)
	}
}

func TestRebuildEndpoint(t *testing.T) {
	_, router := testEnv(t, "")
	createNote(t, router, "A")
	createNote(t, router, "B")

	w := doJSON(t, router, http.MethodPost, "/index/rebuild", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("rebuild status = %d", w.Code)
	}
	var resp RebuildResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Indexed != 2 {
		t.Errorf("indexed = %d, want 2", resp.Indexed)
	}
}

func TestAuthMiddleware(t *testing.T) {
	_, router := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", w.Code)
	}
}
