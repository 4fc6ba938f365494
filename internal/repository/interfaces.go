// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/newsdesk/internal/model"
)

// CommentRepository はコメントデータの永続化インターフェース。
// コメントは物理削除されない。削除はRemovedフラグによるソフトデリートのみ。
type CommentRepository interface {
	// ListByArticle は指定記事のコメントを挿入順で全件返す。
	// Removedなコメントも含めて返す。除去の判断は呼び出し側の責務。
	ListByArticle(ctx context.Context, articleID string) ([]*model.Comment, error)

	// Insert はコメントを永続化する。IDとCreatedAtはストアが採番・設定し、
	// 採番済みのコメントを返す。挿入はアトミックで、中途半端な
	// レコードが残ることはない。
	Insert(ctx context.Context, comment *model.Comment) (*model.Comment, error)

	// MarkRemoved は指定IDのコメントにremoved=trueを設定する。
	// 対象が存在したかどうかをboolで返す。IDがUUIDとして不正な場合は
	// model.ErrCodeInvalidCommentIDのAPIErrorを返す。
	MarkRemoved(ctx context.Context, id string) (bool, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
// セッションがアクティブなIdentityClaimの保持場所となる。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。
	// 期限切れまたは存在しない場合はnilを返す。エラーにはしない。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。冪等で、
	// 存在しないIDに対しても成功する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}
