// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/newsdesk/internal/middleware"
	"github.com/hitoshi/newsdesk/internal/model"
)

// CommentServiceInterface はコメントハンドラーが必要とするサービスインターフェース。
type CommentServiceInterface interface {
	// List は記事のコメント一覧を作成順で返す。
	List(ctx context.Context, articleID string) ([]*model.Comment, error)
	// Create は認証済みユーザーのコメントを作成する。
	Create(ctx context.Context, claim *model.IdentityClaim, articleID, text string) (*model.Comment, error)
	// Remove はモデレーターによるコメントの論理削除を行う。
	Remove(ctx context.Context, claim *model.IdentityClaim, commentID string) error
}

// CommentHandler はコメント管理のHTTPハンドラー。
type CommentHandler struct {
	service CommentServiceInterface
}

// NewCommentHandler はCommentHandlerを生成する。
func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

// createCommentRequest はコメント投稿リクエストのボディ。
type createCommentRequest struct {
	ArticleID string `json:"article_id"`
	Text      string `json:"text"`
}

// commentResponse はコメントのAPIレスポンス。
type commentResponse struct {
	ID          string    `json:"id"`
	ArticleID   string    `json:"article_id"`
	AuthorEmail string    `json:"author_email"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
	Removed     bool      `json:"removed"`
}

// statusResponse は変更系操作の結果レスポンス。
type statusResponse struct {
	Status string `json:"status"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// ListComments は記事のコメント一覧を返す。匿名アクセス可。
// GET /api/comments?article_id=xxx
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	articleID := r.URL.Query().Get("article_id")

	comments, err := h.service.List(r.Context(), articleID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, toCommentResponse(c))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// CreateComment はコメントを投稿する。認証必須。
// POST /api/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	// ボディの検証より先に認証状態を確認する
	claim := middleware.ClaimFromContext(r.Context())
	if claim == nil || claim.Email == "" {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	if _, err := h.service.Create(r.Context(), claim, req.ArticleID, req.Text); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(statusResponse{Status: "Comment added"})
}

// RemoveComment はコメントを論理削除する。モデレーター専用。
// DELETE /api/comments?id=xxx
func (h *CommentHandler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	claim := middleware.ClaimFromContext(r.Context())
	commentID := r.URL.Query().Get("id")

	if commentID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("idパラメータが指定されていません"))
		return
	}

	if err := h.service.Remove(r.Context(), claim, commentID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{Status: "Comment removed"})
}

// --- ヘルパー関数 ---

// toCommentResponse はmodel.CommentからAPIレスポンスに変換する。
func toCommentResponse(c *model.Comment) commentResponse {
	return commentResponse{
		ID:          c.ID,
		ArticleID:   c.ArticleID,
		AuthorEmail: c.AuthorEmail,
		Text:        c.Text,
		CreatedAt:   c.CreatedAt,
		Removed:     c.Removed,
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeCommentNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidCommentID, model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case model.ErrCodeUpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
