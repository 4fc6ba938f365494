// Package comment はコメントのライフサイクルと認可のドメインロジックを提供する。
package comment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hitoshi/newsdesk/internal/model"
	"github.com/hitoshi/newsdesk/internal/moderation"
	"github.com/hitoshi/newsdesk/internal/repository"
)

// Sanitizer はコメント本文のサニタイズ機能のインターフェース。
// security.ContentSanitizerServiceを抽象化してテスタビリティを向上させる。
type Sanitizer interface {
	Sanitize(raw string) string
}

// MetricsRecorder はコメント操作のメトリクス記録のインターフェース。
type MetricsRecorder interface {
	RecordCommentCreated()
	RecordCommentRemoved()
	RecordRemoveDenied()
}

// ServiceConfig はコメントサービスの設定。
type ServiceConfig struct {
	// HideRemoved をtrueにすると、一覧からremovedなコメントを
	// サーバー側で除去する。デフォルトはfalseで、フラグを透過的に返し
	// 表示判断をフロントエンドに委ねる（リファレンス挙動）。
	HideRemoved bool
}

// Service はコメントに関するビジネスロジックを提供する。
// 認証状態の検証、モデレーターポリシーの適用、ストア操作の駆動を行う。
// リクエスト間で状態を持たない。
type Service struct {
	repo      repository.CommentRepository
	policy    moderation.Policy
	sanitizer Sanitizer
	metrics   MetricsRecorder
	config    ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	repo repository.CommentRepository,
	policy moderation.Policy,
	sanitizer Sanitizer,
	metrics MetricsRecorder,
	config ServiceConfig,
) *Service {
	return &Service{
		repo:      repo,
		policy:    policy,
		sanitizer: sanitizer,
		metrics:   metrics,
		config:    config,
	}
}

// List は指定記事のコメント一覧を挿入順で返す。
// 認証不要。コメントが無い場合は空のスライスを返し、エラーにはしない。
// HideRemoved設定が無効な場合、removedなコメントも含めて返す。
func (s *Service) List(ctx context.Context, articleID string) ([]*model.Comment, error) {
	if articleID == "" {
		return nil, model.NewInvalidRequestError("article_idは必須です")
	}

	comments, err := s.repo.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, s.storeError("list comments", err)
	}

	if s.config.HideRemoved {
		visible := make([]*model.Comment, 0, len(comments))
		for _, c := range comments {
			if !c.Removed {
				visible = append(visible, c)
			}
		}
		comments = visible
	}

	if comments == nil {
		comments = []*model.Comment{}
	}
	return comments, nil
}

// Create は認証済みアイデンティティの名義でコメントを作成する。
// claimがnil（匿名）の場合はUNAUTHENTICATEDで失敗し、レコードは永続化されない。
// 本文はサニタイズ後に保存する。
func (s *Service) Create(ctx context.Context, claim *model.IdentityClaim, articleID, text string) (*model.Comment, error) {
	if claim == nil || claim.Email == "" {
		return nil, model.NewUnauthenticatedError()
	}
	if articleID == "" {
		return nil, model.NewInvalidRequestError("article_idは必須です")
	}

	sanitized := s.sanitizer.Sanitize(text)
	if sanitized == "" {
		return nil, model.NewInvalidRequestError("textは必須です")
	}

	comment := &model.Comment{
		ArticleID:   articleID,
		AuthorEmail: claim.Email,
		Text:        sanitized,
		Redacted:    false,
		Removed:     false,
	}

	stored, err := s.repo.Insert(ctx, comment)
	if err != nil {
		return nil, s.storeError("insert comment", err)
	}

	if s.metrics != nil {
		s.metrics.RecordCommentCreated()
	}
	slog.Info("comment created",
		slog.String("comment_id", stored.ID),
		slog.String("article_id", stored.ArticleID),
		slog.String("author_email", stored.AuthorEmail),
	)

	return stored, nil
}

// Remove は指定コメントをソフトデリートする。
// 前提条件は順に検証する: 認証済みであること（UNAUTHENTICATED）、
// モデレーターであること（FORBIDDEN）。どちらかを満たさない場合、
// レコードには一切触れない。
// 対象が存在しない場合はCOMMENT_NOT_FOUNDを返す。既にremovedな
// コメントへの再実行は成功する（単調フラグのため冪等）。
func (s *Service) Remove(ctx context.Context, claim *model.IdentityClaim, commentID string) error {
	if claim == nil || claim.Email == "" {
		return model.NewUnauthenticatedError()
	}

	if !s.policy.IsModerator(claim) {
		if s.metrics != nil {
			s.metrics.RecordRemoveDenied()
		}
		slog.Warn("comment removal denied",
			slog.String("comment_id", commentID),
			slog.String("email", claim.Email),
		)
		return model.NewForbiddenError()
	}

	found, err := s.repo.MarkRemoved(ctx, commentID)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			return apiErr
		}
		return s.storeError("mark comment removed", err)
	}
	if !found {
		return model.NewCommentNotFoundError(commentID)
	}

	if s.metrics != nil {
		s.metrics.RecordCommentRemoved()
	}
	slog.Info("comment removed",
		slog.String("comment_id", commentID),
		slog.String("moderator_email", claim.Email),
	)

	return nil
}

// storeError はストア障害をログに残し、STORE_UNAVAILABLEとして返す。
// リトライはしない。リトライ方針は永続化層のクライアント側の責務。
func (s *Service) storeError(op string, err error) error {
	slog.Error("comment store operation failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return model.NewStoreUnavailableError()
}
