// Package moderation はコメント削除権限の判定ポリシーを提供する。
package moderation

import (
	"strings"

	"github.com/hitoshi/newsdesk/internal/model"
)

// Policy はIdentityClaimからモデレーター権限を判定する純粋なポリシー。
// 副作用もI/Oも持たない。判定に使う機関ドメインは設定から注入する。
type Policy struct {
	domain string // 先頭の"@"を除いた機関ドメイン（例: "ucdavis.edu"）
}

// NewPolicy はPolicyを生成する。domainの先頭"@"と大文字小文字の揺れは吸収する。
func NewPolicy(domain string) Policy {
	return Policy{
		domain: strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "@")),
	}
}

// IsModerator はclaimの保持者がコメントを削除できるかを判定する。
// メールアドレスが機関ドメインで終わる場合に限りtrueを返す。
// claimがnil、メールが空、ドメインが未設定の場合は常にfalse。
func (p Policy) IsModerator(claim *model.IdentityClaim) bool {
	if claim == nil || claim.Email == "" || p.domain == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(claim.Email), "@"+p.domain)
}
