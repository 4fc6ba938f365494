// Package model はドメインモデルを定義する。
package model

import "time"

// IdentityClaim は外部IdPが認証成功時に表明したアイデンティティを表す。
// メールアドレスをユーザーの一意な識別子として扱う。
// セッションの寿命を超えて永続化されることはない。
type IdentityClaim struct {
	Email   string
	Name    string
	Subject string // IdP側のユーザー識別子
}

// Session はログインセッションを表す。
// アクティブなIdentityClaimの保持場所であり、ログアウトまたは期限切れで消える。
type Session struct {
	ID        string
	Email     string
	Name      string
	Subject   string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Claim はセッションが保持するIdentityClaimを返す。
func (s *Session) Claim() *IdentityClaim {
	return &IdentityClaim{
		Email:   s.Email,
		Name:    s.Name,
		Subject: s.Subject,
	}
}
