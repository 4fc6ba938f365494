package comment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hitoshi/newsdesk/internal/model"
	"github.com/hitoshi/newsdesk/internal/moderation"
	"github.com/hitoshi/newsdesk/internal/repository"
)

// --- モック定義 ---

// mockCommentRepo はインメモリのコメントリポジトリ。
// 挿入順を保持し、MarkRemovedは単調フラグとして振る舞う。
type mockCommentRepo struct {
	comments []*model.Comment
	seq      int

	listErr   error
	insertErr error
	markErr   error
}

func (m *mockCommentRepo) ListByArticle(_ context.Context, articleID string) ([]*model.Comment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*model.Comment
	for _, c := range m.comments {
		if c.ArticleID == articleID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCommentRepo) Insert(_ context.Context, comment *model.Comment) (*model.Comment, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	m.seq++
	stored := *comment
	stored.ID = fmt.Sprintf("0000000%d-0000-4000-8000-000000000000", m.seq)
	stored.CreatedAt = time.Now()
	m.comments = append(m.comments, &stored)
	return &stored, nil
}

func (m *mockCommentRepo) MarkRemoved(_ context.Context, id string) (bool, error) {
	if m.markErr != nil {
		return false, m.markErr
	}
	for _, c := range m.comments {
		if c.ID == id {
			c.Removed = true
			return true, nil
		}
	}
	return false, nil
}

type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(raw string) string { return raw }

type mockMetrics struct {
	created int
	removed int
	denied  int
}

func (m *mockMetrics) RecordCommentCreated() { m.created++ }
func (m *mockMetrics) RecordCommentRemoved() { m.removed++ }
func (m *mockMetrics) RecordRemoveDenied()   { m.denied++ }

// --- compile-time interface checks ---
var _ repository.CommentRepository = (*mockCommentRepo)(nil)
var _ Sanitizer = passthroughSanitizer{}
var _ MetricsRecorder = (*mockMetrics)(nil)

func newTestService(repo *mockCommentRepo) (*Service, *mockMetrics) {
	metrics := &mockMetrics{}
	svc := NewService(repo, moderation.NewPolicy("ucdavis.edu"), passthroughSanitizer{}, metrics, ServiceConfig{})
	return svc, metrics
}

func moderatorClaim() *model.IdentityClaim {
	return &model.IdentityClaim{Email: "mod@ucdavis.edu"}
}

func readerClaim() *model.IdentityClaim {
	return &model.IdentityClaim{Email: "u@x.com"}
}

func assertAPIErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != code {
		t.Errorf("Code = %q, want %q", apiErr.Code, code)
	}
}

// --- List ---

func TestList_EmptyArticle_ReturnsEmptySliceNotError(t *testing.T) {
	svc, _ := newTestService(&mockCommentRepo{})

	comments, err := svc.List(context.Background(), "42")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if comments == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(comments) != 0 {
		t.Errorf("len = %d, want 0", len(comments))
	}
}

func TestList_ReturnsOnlyMatchingArticle(t *testing.T) {
	repo := &mockCommentRepo{}
	svc, _ := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, readerClaim(), "42", "first"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(ctx, readerClaim(), "99", "other article"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(ctx, readerClaim(), "42", "second"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	comments, err := svc.List(ctx, "42")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("len = %d, want 2", len(comments))
	}
	for _, c := range comments {
		if c.ArticleID != "42" {
			t.Errorf("ArticleID = %q, want %q", c.ArticleID, "42")
		}
	}
	// 挿入順
	if comments[0].Text != "first" || comments[1].Text != "second" {
		t.Errorf("insertion order not preserved: %q, %q", comments[0].Text, comments[1].Text)
	}
}

func TestList_IncludesRemovedComments(t *testing.T) {
	repo := &mockCommentRepo{}
	svc, _ := newTestService(repo)
	ctx := context.Background()

	stored, err := svc.Create(ctx, readerClaim(), "42", "to be removed")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := svc.Remove(ctx, moderatorClaim(), stored.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	comments, err := svc.List(ctx, "42")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("len = %d, want 1 (removed comments stay listed)", len(comments))
	}
	if !comments[0].Removed {
		t.Error("Removed = false, want true")
	}
}

func TestList_HideRemovedConfig_FiltersRemoved(t *testing.T) {
	repo := &mockCommentRepo{}
	svc := NewService(repo, moderation.NewPolicy("ucdavis.edu"), passthroughSanitizer{}, nil, ServiceConfig{HideRemoved: true})
	ctx := context.Background()

	kept, err := svc.Create(ctx, readerClaim(), "42", "kept")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	removed, err := svc.Create(ctx, readerClaim(), "42", "removed")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := svc.Remove(ctx, moderatorClaim(), removed.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	comments, err := svc.List(ctx, "42")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("len = %d, want 1", len(comments))
	}
	if comments[0].ID != kept.ID {
		t.Errorf("ID = %q, want %q", comments[0].ID, kept.ID)
	}
}

func TestList_MissingArticleID_ReturnsInvalidRequest(t *testing.T) {
	svc, _ := newTestService(&mockCommentRepo{})

	_, err := svc.List(context.Background(), "")
	assertAPIErrorCode(t, err, model.ErrCodeInvalidRequest)
}

func TestList_StoreFailure_ReturnsStoreUnavailable(t *testing.T) {
	repo := &mockCommentRepo{listErr: errors.New("connection refused")}
	svc, _ := newTestService(repo)

	_, err := svc.List(context.Background(), "42")
	assertAPIErrorCode(t, err, model.ErrCodeStoreUnavailable)
}

// --- Create ---

func TestCreate_WithIdentity_StoresComment(t *testing.T) {
	repo := &mockCommentRepo{}
	svc, metrics := newTestService(repo)

	stored, err := svc.Create(context.Background(), readerClaim(), "42", "hello")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if stored.ID == "" {
		t.Error("expected assigned ID")
	}
	if stored.CreatedAt.IsZero() {
		t.Error("expected assigned CreatedAt")
	}
	if stored.ArticleID != "42" {
		t.Errorf("ArticleID = %q, want %q", stored.ArticleID, "42")
	}
	if stored.AuthorEmail != "u@x.com" {
		t.Errorf("AuthorEmail = %q, want %q", stored.AuthorEmail, "u@x.com")
	}
	if stored.Text != "hello" {
		t.Errorf("Text = %q, want %q", stored.Text, "hello")
	}
	if stored.Removed {
		t.Error("Removed = true, want false")
	}
	if stored.Redacted {
		t.Error("Redacted = true, want false")
	}
	if metrics.created != 1 {
		t.Errorf("created metric = %d, want 1", metrics.created)
	}
}

func TestCreate_Anonymous_FailsAndPersistsNothing(t *testing.T) {
	repo := &mockCommentRepo{}
	svc, _ := newTestService(repo)

	_, err := svc.Create(context.Background(), nil, "42", "hello")
	assertAPIErrorCode(t, err, model.ErrCodeUnauthenticated)

	if len(repo.comments) != 0 {
		t.Errorf("comments persisted = %d, want 0", len(repo.comments))
	}
}

func TestCreate_EmptyEmailClaim_FailsUnauthenticated(t *testing.T) {
	svc, _ := newTestService(&mockCommentRepo{})

	_, err := svc.Create(context.Background(), &model.IdentityClaim{}, "42", "hello")
	assertAPIErrorCode(t, err, model.ErrCodeUnauthenticated)
}

func TestCreate_MissingArticleID_ReturnsInvalidRequest(t *testing.T) {
	svc, _ := newTestService(&mockCommentRepo{})

	_, err := svc.Create(context.Background(), readerClaim(), "", "hello")
	assertAPIErrorCode(t, err, model.ErrCodeInvalidRequest)
}

func TestCreate_EmptyText_ReturnsInvalidRequest(t *testing.T) {
	svc, _ := newTestService(&mockCommentRepo{})

	_, err := svc.Create(context.Background(), readerClaim(), "42", "")
	assertAPIErrorCode(t, err, model.ErrCodeInvalidRequest)
}

func TestCreate_SanitizesText(t *testing.T) {
	repo := &mockCommentRepo{}
	metrics := &mockMetrics{}
	sanitizer := &recordingSanitizer{output: "clean"}
	svc := NewService(repo, moderation.NewPolicy("ucdavis.edu"), sanitizer, metrics, ServiceConfig{})

	stored, err := svc.Create(context.Background(), readerClaim(), "42", "<script>bad</script>")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if sanitizer.input != "<script>bad</script>" {
		t.Errorf("sanitizer input = %q", sanitizer.input)
	}
	if stored.Text != "clean" {
		t.Errorf("Text = %q, want sanitized output", stored.Text)
	}
}

type recordingSanitizer struct {
	input  string
	output string
}

func (s *recordingSanitizer) Sanitize(raw string) string {
	s.input = raw
	return s.output
}

func TestCreate_StoreFailure_ReturnsStoreUnavailable(t *testing.T) {
	repo := &mockCommentRepo{insertErr: errors.New("timeout")}
	svc, _ := newTestService(repo)

	_, err := svc.Create(context.Background(), readerClaim(), "42", "hello")
	assertAPIErrorCode(t, err, model.ErrCodeStoreUnavailable)
}

// --- Remove ---

func TestRemove_Moderator_SetsRemovedOnTargetOnly(t *testing.T) {
	repo := &mockCommentRepo{}
	svc, metrics := newTestService(repo)
	ctx := context.Background()

	target, err := svc.Create(ctx, readerClaim(), "42", "target")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	other, err := svc.Create(ctx, readerClaim(), "42", "other")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Remove(ctx, moderatorClaim(), target.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	comments, err := svc.List(ctx, "42")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, c := range comments {
		switch c.ID {
		case target.ID:
			if !c.Removed {
				t.Error("target.Removed = false, want true")
			}
		case other.ID:
			if c.Removed {
				t.Error("other.Removed = true, want false")
			}
		}
	}
	if metrics.removed != 1 {
		t.Errorf("removed metric = %d, want 1", metrics.removed)
	}
}

func TestRemove_NonModerator_FailsForbiddenAndLeavesStateUnchanged(t *testing.T) {
	repo := &mockCommentRepo{}
	svc, metrics := newTestService(repo)
	ctx := context.Background()

	stored, err := svc.Create(ctx, readerClaim(), "42", "hello")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = svc.Remove(ctx, readerClaim(), stored.ID)
	assertAPIErrorCode(t, err, model.ErrCodeForbidden)

	comments, _ := svc.List(ctx, "42")
	if comments[0].Removed {
		t.Error("comment was mutated despite Forbidden")
	}
	if metrics.denied != 1 {
		t.Errorf("denied metric = %d, want 1", metrics.denied)
	}
	if metrics.removed != 0 {
		t.Errorf("removed metric = %d, want 0", metrics.removed)
	}
}

func TestRemove_Anonymous_FailsUnauthenticated(t *testing.T) {
	svc, _ := newTestService(&mockCommentRepo{})

	err := svc.Remove(context.Background(), nil, "some-id")
	assertAPIErrorCode(t, err, model.ErrCodeUnauthenticated)
}

func TestRemove_NotFound_ReturnsCommentNotFound(t *testing.T) {
	svc, _ := newTestService(&mockCommentRepo{})

	err := svc.Remove(context.Background(), moderatorClaim(), "00000000-0000-4000-8000-999999999999")
	assertAPIErrorCode(t, err, model.ErrCodeCommentNotFound)
}

func TestRemove_InvalidID_PropagatesInvalidCommentID(t *testing.T) {
	repo := &mockCommentRepo{markErr: model.NewInvalidCommentIDError("not-a-uuid")}
	svc, _ := newTestService(repo)

	err := svc.Remove(context.Background(), moderatorClaim(), "not-a-uuid")
	assertAPIErrorCode(t, err, model.ErrCodeInvalidCommentID)
}

func TestRemove_StoreFailure_ReturnsStoreUnavailable(t *testing.T) {
	repo := &mockCommentRepo{markErr: errors.New("connection reset")}
	svc, _ := newTestService(repo)

	err := svc.Remove(context.Background(), moderatorClaim(), "00000001-0000-4000-8000-000000000000")
	assertAPIErrorCode(t, err, model.ErrCodeStoreUnavailable)
}

// removedは単調: 二重削除しても状態は変わらず成功する
func TestRemove_Idempotent(t *testing.T) {
	repo := &mockCommentRepo{}
	svc, _ := newTestService(repo)
	ctx := context.Background()

	stored, err := svc.Create(ctx, readerClaim(), "42", "hello")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Remove(ctx, moderatorClaim(), stored.ID); err != nil {
		t.Fatalf("first Remove failed: %v", err)
	}
	if err := svc.Remove(ctx, moderatorClaim(), stored.ID); err != nil {
		t.Fatalf("second Remove failed: %v", err)
	}

	comments, _ := svc.List(ctx, "42")
	if !comments[0].Removed {
		t.Error("Removed = false after double remove, want true")
	}
}
