// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, comment, upstream, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthenticated     = "UNAUTHENTICATED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeCommentNotFound     = "COMMENT_NOT_FOUND"
	ErrCodeInvalidCommentID    = "INVALID_COMMENT_ID"
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeStoreUnavailable    = "STORE_UNAVAILABLE"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
)

// NewUnauthenticatedError は未認証エラーを生成する。
// アイデンティティを必要とする操作にセッションが無い場合に返す。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewForbiddenError はモデレーター権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作にはモデレーター権限が必要です。",
		Category: "auth",
		Action:   "機関アカウントでログインしてください。",
	}
}

// NewCommentNotFoundError はコメント未検出エラーを生成する。
func NewCommentNotFoundError(commentID string) *APIError {
	return &APIError{
		Code:     ErrCodeCommentNotFound,
		Message:  fmt.Sprintf("指定されたコメントが見つかりません: %s", commentID),
		Category: "comment",
		Action:   "コメントIDを確認してください。",
	}
}

// NewInvalidCommentIDError は不正なコメント識別子エラーを生成する。
func NewInvalidCommentIDError(commentID string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCommentID,
		Message:  fmt.Sprintf("コメントIDの形式が不正です: %s", commentID),
		Category: "validation",
		Action:   "正しい形式のコメントIDを指定してください。",
	}
}

// NewInvalidRequestError はリクエスト検証エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewStoreUnavailableError はコメントストア障害エラーを生成する。
// 永続化層への到達失敗やタイムアウトの場合に返す。
func NewStoreUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeStoreUnavailable,
		Message:  "コメントストアに接続できません。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewUpstreamUnavailableError は外部コラボレーター障害エラーを生成する。
// IdPまたは記事検索APIへの到達失敗の場合に返す。
// 匿名として黙って扱うことはせず、必ず区別されたエラーとして伝播する。
func NewUpstreamUnavailableError(upstream string) *APIError {
	return &APIError{
		Code:     ErrCodeUpstreamUnavailable,
		Message:  fmt.Sprintf("外部サービスに接続できません: %s", upstream),
		Category: "upstream",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
