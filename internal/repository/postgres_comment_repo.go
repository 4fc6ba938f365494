package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/newsdesk/internal/model"
)

// PostgresCommentRepo はPostgreSQLを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

// ListByArticle は指定記事のコメントを挿入順で全件返す。
// Removedなコメントも含めて返す。
func (r *PostgresCommentRepo) ListByArticle(ctx context.Context, articleID string) ([]*model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, article_id, author_email, body, created_at, redacted, removed
		 FROM comments
		 WHERE article_id = $1
		 ORDER BY created_at, id`,
		articleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		c := &model.Comment{}
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.AuthorEmail, &c.Text, &c.CreatedAt, &c.Redacted, &c.Removed); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

// Insert はコメントを永続化する。IDとCreatedAtはここで採番・設定する。
func (r *PostgresCommentRepo) Insert(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	stored := *comment
	stored.ID = uuid.New().String()
	stored.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, article_id, author_email, body, created_at, redacted, removed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		stored.ID, stored.ArticleID, stored.AuthorEmail, stored.Text, stored.CreatedAt, stored.Redacted, stored.Removed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	return &stored, nil
}

// MarkRemoved は指定IDのコメントにremoved=trueを設定する。
// 既にremovedなコメントへの再実行も「対象あり」として成功する（冪等）。
func (r *PostgresCommentRepo) MarkRemoved(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, model.NewInvalidCommentIDError(id)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET removed = TRUE WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark comment removed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
