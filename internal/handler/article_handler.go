package handler

import (
	"context"
	"encoding/json"
	"net/http"
)

// ArticleSearcherInterface は記事検索ハンドラーが必要とするインターフェース。
type ArticleSearcherInterface interface {
	// Search は固定クエリで記事を検索し、アップストリームのレスポンスを返す。
	Search(ctx context.Context) (json.RawMessage, error)
}

// ArticleHandler は記事検索中継のHTTPハンドラー。
type ArticleHandler struct {
	searcher ArticleSearcherInterface
}

// NewArticleHandler はArticleHandlerを生成する。
func NewArticleHandler(searcher ArticleSearcherInterface) *ArticleHandler {
	return &ArticleHandler{searcher: searcher}
}

// SearchArticles はアップストリームの記事検索結果を中継する。匿名アクセス可。
// 検索クエリとAPIキーはサーバー側で固定し、リクエスト側からは操作できない。
// GET /api/articles
func (h *ArticleHandler) SearchArticles(w http.ResponseWriter, r *http.Request) {
	body, err := h.searcher.Search(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
