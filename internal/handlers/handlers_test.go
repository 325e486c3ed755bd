package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gorilla/mux"

	"vibe-gallery/internal/catalog"
	"vibe-gallery/internal/mediatypes"
	"vibe-gallery/internal/notify"
	"vibe-gallery/internal/scanner"
	"vibe-gallery/internal/startup"
	"vibe-gallery/internal/thumbnail"
)

type testEnv struct {
	handlers  *Handlers
	router    *mux.Router
	store     *catalog.Store
	scanner   *scanner.Scanner
	mediaRoot string
	thumbRoot string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mediaRoot := t.TempDir()
	thumbRoot := t.TempDir()

	store, err := catalog.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	hub := notify.NewHub()
	scan := scanner.New(store, mediaRoot, mediatypes.Default(), hub)
	thumbs := thumbnail.NewThumbnailer(mediaRoot, thumbRoot, thumbnail.NewCodec(), nil)

	config := &startup.Config{MediaDir: mediaRoot}
	h := New(store, scan, thumbs, hub, config)

	r := mux.NewRouter()
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/galleries", h.ListGalleries).Methods("GET")
	api.HandleFunc("/galleries/{id:[0-9]+}", h.GetGallery).Methods("GET")
	api.HandleFunc("/galleries/{id:[0-9]+}", h.DeleteGallery).Methods("DELETE")
	api.HandleFunc("/media/{id:[0-9]+}/file", h.GetMediaFile).Methods("GET")
	api.HandleFunc("/media/{id:[0-9]+}/thumbnail", h.GetThumbnail).Methods("GET")
	api.HandleFunc("/media/{id:[0-9]+}", h.DeleteMedia).Methods("DELETE")
	api.HandleFunc("/scan", h.TriggerScan).Methods("POST")
	api.HandleFunc("/scan/status", h.ScanStatus).Methods("GET")

	return &testEnv{
		handlers:  h,
		router:    r,
		store:     store,
		scanner:   scan,
		mediaRoot: mediaRoot,
		thumbRoot: thumbRoot,
	}
}

func (e *testEnv) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) addMediaFile(t *testing.T, gallery, name string, content []byte) {
	t.Helper()
	full := filepath.Join(e.mediaRoot, gallery, name)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}

func (e *testEnv) scanNow(t *testing.T) {
	t.Helper()
	if _, err := e.scanner.Scan(context.Background()); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestListGalleriesEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/galleries")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var summaries []GallerySummary
	decodeJSON(t, rec, &summaries)
	if len(summaries) != 0 {
		t.Errorf("Expected empty list, got %d summaries", len(summaries))
	}
}

func TestListGalleriesAfterScan(t *testing.T) {
	env := newTestEnv(t)
	env.addMediaFile(t, "vacation", "a.jpg", []byte("img"))
	env.addMediaFile(t, "vacation", "b.jpg", []byte("img"))
	env.scanNow(t)

	rec := env.do(t, "GET", "/api/galleries")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var summaries []GallerySummary
	decodeJSON(t, rec, &summaries)
	if len(summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].Name != "vacation" {
		t.Errorf("Expected gallery name vacation, got %q", summaries[0].Name)
	}
	if summaries[0].MediaCount != 2 {
		t.Errorf("Expected media count 2, got %d", summaries[0].MediaCount)
	}
	if summaries[0].CoverMediaID == 0 {
		t.Error("Expected a cover media candidate")
	}
}

func TestGetGalleryNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/galleries/999")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestGetGalleryPaging(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		env.addMediaFile(t, "album", name, []byte("img"))
	}
	env.scanNow(t)

	galleries, err := env.store.ListGalleries(context.Background())
	if err != nil || len(galleries) != 1 {
		t.Fatalf("Expected 1 gallery, got %d (err=%v)", len(galleries), err)
	}
	id := galleries[0].ID

	rec := env.do(t, "GET", "/api/galleries/"+itoa(id)+"?page=1&pageSize=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var page GalleryPage
	decodeJSON(t, rec, &page)
	if page.Total != 3 {
		t.Errorf("Expected total 3, got %d", page.Total)
	}
	if len(page.Media) != 2 {
		t.Errorf("Expected 2 media on page, got %d", len(page.Media))
	}
	if page.PageSize != 2 {
		t.Errorf("Expected page size 2, got %d", page.PageSize)
	}
}

func TestPageParamsClamping(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{"Defaults", "", 1, defaultPageSize},
		{"Explicit values", "?page=3&pageSize=10", 3, 10},
		{"Oversized clamped", "?pageSize=500", 1, maxPageSize},
		{"Undersized clamped", "?pageSize=0", 1, 1},
		{"Negative page ignored", "?page=-2", 1, defaultPageSize},
		{"Garbage ignored", "?page=abc&pageSize=xyz", 1, defaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/galleries/1"+tt.query, nil)
			page, size := pageParams(req)
			if page != tt.wantPage || size != tt.wantSize {
				t.Errorf("pageParams(%q) = (%d, %d), want (%d, %d)",
					tt.query, page, size, tt.wantPage, tt.wantSize)
			}
		})
	}
}

func TestGetMediaFile(t *testing.T) {
	env := newTestEnv(t)
	env.addMediaFile(t, "album", "pic.jpg", []byte("image-bytes"))
	env.scanNow(t)

	id := env.firstMediaID(t)
	rec := env.do(t, "GET", "/api/media/"+itoa(id)+"/file")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "image-bytes" {
		t.Errorf("Expected file contents, got %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %q", ct)
	}
}

func TestGetThumbnailFallsBackToPlaceholder(t *testing.T) {
	env := newTestEnv(t)
	env.addMediaFile(t, "album", "pic.jpg", []byte("img"))
	env.scanNow(t)

	id := env.firstMediaID(t)
	rec := env.do(t, "GET", "/api/media/"+itoa(id)+"/thumbnail")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for known media without thumbnail, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Expected placeholder content type, got %q", ct)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("<svg")) {
		t.Error("Expected SVG placeholder body")
	}
}

func TestGetThumbnailUnknownMedia(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/media/12345/thumbnail")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown media, got %d", rec.Code)
	}
}

func TestDeleteMedia(t *testing.T) {
	env := newTestEnv(t)
	env.addMediaFile(t, "album", "pic.jpg", []byte("img"))
	env.scanNow(t)

	id := env.firstMediaID(t)
	rec := env.do(t, "DELETE", "/api/media/"+itoa(id))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	rec = env.do(t, "DELETE", "/api/media/"+itoa(id))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on second delete, got %d", rec.Code)
	}
}

func TestDeleteGallery(t *testing.T) {
	env := newTestEnv(t)
	env.addMediaFile(t, "album", "pic.jpg", []byte("img"))
	env.scanNow(t)

	galleries, err := env.store.ListGalleries(context.Background())
	if err != nil || len(galleries) != 1 {
		t.Fatalf("Expected 1 gallery, got %d (err=%v)", len(galleries), err)
	}

	rec := env.do(t, "DELETE", "/api/galleries/"+itoa(galleries[0].ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	galleries, err = env.store.ListGalleries(context.Background())
	if err != nil {
		t.Fatalf("ListGalleries failed: %v", err)
	}
	if len(galleries) != 0 {
		t.Errorf("Expected gallery to be gone, got %d", len(galleries))
	}
}

func TestTriggerScan(t *testing.T) {
	env := newTestEnv(t)
	env.addMediaFile(t, "album", "pic.jpg", []byte("img"))

	rec := env.do(t, "POST", "/api/scan")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var summary scanner.Summary
	decodeJSON(t, rec, &summary)
	if summary.ScanID == "" {
		t.Error("Expected a scan ID in the summary")
	}
	if summary.GalleriesAdded != 1 || summary.MediaAdded != 1 {
		t.Errorf("Expected +1 gallery/+1 media, got %+v", summary)
	}
}

func TestScanStatus(t *testing.T) {
	env := newTestEnv(t)
	env.scanNow(t)

	rec := env.do(t, "GET", "/api/scan/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var status map[string]interface{}
	decodeJSON(t, rec, &status)
	if status["scanning"] != false {
		t.Errorf("Expected scanning=false, got %v", status["scanning"])
	}
	if _, ok := status["lastScan"]; !ok {
		t.Error("Expected lastScan after a completed scan")
	}
}

func TestHealthAndReadiness(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/health")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 from /health, got %d", rec.Code)
	}

	var health HealthResponse
	decodeJSON(t, rec, &health)
	if health.Status != "healthy" {
		t.Errorf("Expected healthy status, got %q", health.Status)
	}

	rec = env.do(t, "GET", "/readyz")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 from /readyz, got %d", rec.Code)
	}
}

func (e *testEnv) firstMediaID(t *testing.T) int64 {
	t.Helper()
	galleries, err := e.store.ListGalleries(context.Background())
	if err != nil || len(galleries) == 0 || len(galleries[0].Media) == 0 {
		t.Fatalf("Expected at least one media row (err=%v)", err)
	}
	return galleries[0].Media[0].ID
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
