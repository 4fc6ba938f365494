package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// StaticHandler はビルド済みSPAの静的ファイルを配信するHTTPハンドラー。
// 存在しないパスへのリクエストにはindex.htmlを返し、
// クライアントサイドルーティングに対応する。
type StaticHandler struct {
	rootDir    string
	fileServer http.Handler
}

// NewStaticHandler はStaticHandlerを生成する。
func NewStaticHandler(rootDir string) *StaticHandler {
	return &StaticHandler{
		rootDir:    rootDir,
		fileServer: http.FileServer(http.Dir(rootDir)),
	}
}

// ServeHTTP は静的ファイルを配信する。
// ファイルが存在しない場合はSPAフォールバックとしてindex.htmlを返す。
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// パストラバーサルを防ぐため相対パスを正規化する
	reqPath := filepath.Clean(strings.TrimPrefix(r.URL.Path, "/"))
	if reqPath == "." {
		reqPath = "index.html"
	}

	fullPath := filepath.Join(h.rootDir, reqPath)
	if !strings.HasPrefix(fullPath, filepath.Clean(h.rootDir)) {
		http.NotFound(w, r)
		return
	}

	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		// SPAフォールバック
		http.ServeFile(w, r, filepath.Join(h.rootDir, "index.html"))
		return
	}

	h.fileServer.ServeHTTP(w, r)
}
