// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/newsdesk/internal/model"
)

// SessionCookieName はセッションIDを保持するCookie名。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// claimContextKey はリクエストコンテキストにクレームを格納するためのキー。
var claimContextKey = contextKey("identity_claim")

// ClaimResolver はセッションIDからクレームを解決するインターフェース。
// auth.Serviceの部分集合として定義する。
type ClaimResolver interface {
	CurrentClaim(ctx context.Context, sessionID string) (*model.IdentityClaim, error)
}

// NewIdentityMiddleware はHTTP Only Cookieからセッションを読み取り、
// クレームをリクエストコンテキストに注入するミドルウェアを返す。
// 匿名リクエストは拒否せず、クレームなしでそのまま通す。
// 認可の判断は各ハンドラー・サービスが行う。
func NewIdentityMiddleware(resolver ClaimResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claim, err := resolver.CurrentClaim(r.Context(), cookie.Value)
			if err != nil {
				// セッションストア障害は匿名に落とさずエラーを返す
				slog.Error("failed to resolve session claim",
					slog.String("error", err.Error()),
				)
				WriteErrorResponse(w, http.StatusServiceUnavailable, model.NewStoreUnavailableError())
				return
			}
			if claim == nil {
				// 期限切れ・不明なセッションIDは匿名扱い
				next.ServeHTTP(w, r)
				return
			}

			ctx := ContextWithClaim(r.Context(), claim)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimFromContext はリクエストコンテキストからクレームを取得する。
// 匿名リクエストの場合は nil を返す。
func ClaimFromContext(ctx context.Context) *model.IdentityClaim {
	claim, ok := ctx.Value(claimContextKey).(*model.IdentityClaim)
	if !ok {
		return nil
	}
	return claim
}

// ContextWithClaim はコンテキストにクレームを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithClaim(ctx context.Context, claim *model.IdentityClaim) context.Context {
	return context.WithValue(ctx, claimContextKey, claim)
}
