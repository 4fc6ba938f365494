package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/newsdesk/internal/model"
	"github.com/hitoshi/newsdesk/internal/repository"
)

// ProviderClaim はIdPから取得した検証済みクレーム。
type ProviderClaim struct {
	Subject string
	Email   string
	Name    string
}

// Provider はOIDC IdPとのやり取りを抽象化する。
type Provider interface {
	// GetLoginURL は認証用URLを生成する
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをクレームに交換する
	ExchangeCode(ctx context.Context, code string) (*ProviderClaim, error)
}

// Service は認証セッションを管理するサービス。
// クレームはセッション行にのみ保持し、セッション満了とともに消える。
type Service struct {
	provider    Provider
	sessionRepo repository.SessionRepository
	maxAge      time.Duration
	logger      *slog.Logger
}

// NewService はServiceを生成する。
func NewService(provider Provider, sessionRepo repository.SessionRepository, maxAge time.Duration, logger *slog.Logger) *Service {
	return &Service{
		provider:    provider,
		sessionRepo: sessionRepo,
		maxAge:      maxAge,
		logger:      logger,
	}
}

// GetLoginURL はOIDC認証URLを生成する。
func (s *Service) GetLoginURL(state string) string {
	return s.provider.GetLoginURL(state)
}

// GenerateState はCSRF対策用のstateパラメータを生成する。
func (s *Service) GenerateState() (string, error) {
	return generateRandomHex(16)
}

// HandleCallback は認可コードを処理し、新しいセッションを作成する。
// IdPとの交換に失敗した場合はエラーを返す。失敗を匿名として
// 扱うことはない。
func (s *Service) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	claim, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Error("OIDCコード交換に失敗しました", "error", err)
		return nil, model.NewUpstreamUnavailableError("identity provider")
	}

	sessionID, err := generateRandomHex(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := time.Now().UTC()
	session := &model.Session{
		ID:        sessionID,
		Email:     claim.Email,
		Name:      claim.Name,
		Subject:   claim.Subject,
		ExpiresAt: now.Add(s.maxAge),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		s.logger.Error("セッションの保存に失敗しました", "error", err)
		return nil, model.NewStoreUnavailableError()
	}

	s.logger.Info("セッションを作成しました", "email", claim.Email, "subject", claim.Subject)
	return session, nil
}

// Logout はセッションを破棄する。存在しないセッションIDでも成功扱い。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		s.logger.Error("セッションの削除に失敗しました", "error", err)
		return model.NewStoreUnavailableError()
	}
	return nil
}

// CurrentClaim はセッションIDに対応するクレームを返す。
// 未認証・期限切れの場合は (nil, nil) を返す。
func (s *Service) CurrentClaim(ctx context.Context, sessionID string) (*model.IdentityClaim, error) {
	if sessionID == "" {
		return nil, nil
	}
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		s.logger.Error("セッションの取得に失敗しました", "error", err)
		return nil, model.NewStoreUnavailableError()
	}
	if session == nil {
		return nil, nil
	}
	return session.Claim(), nil
}

// CleanupExpired は期限切れセッションを削除し、削除件数を返す。
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	count, err := s.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return count, nil
}

// generateRandomHex はcrypto/randからnバイトのランダム値を生成し16進文字列で返す。
func generateRandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
