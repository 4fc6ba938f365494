package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupStaticDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app shell</html>"), 0o644); err != nil {
		t.Fatalf("failed to write index.html: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatalf("failed to create assets dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log('app')"), 0o644); err != nil {
		t.Fatalf("failed to write app.js: %v", err)
	}

	return dir
}

func TestStaticHandler_ServesExistingFile(t *testing.T) {
	h := NewStaticHandler(setupStaticDir(t))

	req := httptest.NewRequest(http.MethodGet, "/assets/app.js", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "console.log") {
		t.Errorf("body = %s, want app.js content", w.Body.String())
	}
}

func TestStaticHandler_RootServesIndex(t *testing.T) {
	h := NewStaticHandler(setupStaticDir(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "app shell") {
		t.Errorf("body = %s, want index.html content", w.Body.String())
	}
}

// 存在しないパスはSPAフォールバックでindex.htmlを返す。
func TestStaticHandler_UnknownPath_FallsBackToIndex(t *testing.T) {
	h := NewStaticHandler(setupStaticDir(t))

	req := httptest.NewRequest(http.MethodGet, "/articles/some-client-route", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "app shell") {
		t.Errorf("body = %s, want index.html content", w.Body.String())
	}
}

func TestStaticHandler_PathTraversal_DoesNotEscapeRoot(t *testing.T) {
	dir := setupStaticDir(t)
	// ルートの外にファイルを置く
	outside := filepath.Join(filepath.Dir(dir), "secret.txt")
	if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
		t.Fatalf("failed to write secret file: %v", err)
	}
	t.Cleanup(func() { os.Remove(outside) })

	h := NewStaticHandler(dir)

	req := httptest.NewRequest(http.MethodGet, "/../secret.txt", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if strings.Contains(w.Body.String(), "secret") {
		t.Error("ルート外のファイルが配信されています")
	}
}
