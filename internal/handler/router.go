package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/newsdesk/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	ClaimResolver     middleware.ClaimResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *LoggerDep
	StatusRecorder    middleware.HTTPStatusRecorder

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// コメント
	CommentService CommentServiceInterface

	// 記事検索
	ArticleSearcher ArticleSearcherInterface

	// 静的ファイル配信。空文字の場合は無効
	StaticPath string

	// ヘルスチェック
	HealthCheck http.HandlerFunc

	// メトリクス公開。nilの場合は無効
	MetricsHandler http.Handler
}

// LoggerDep はロギングミドルウェアの依存を保持する。
type LoggerDep struct {
	Middleware func(next http.Handler) http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → StatusMetrics → Identity → RateLimit(General)
//
// 匿名アクセスも許可するため、Identityは拒否せずクレームの注入のみ行う。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(deps.Logger.Middleware)
	}
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewStatusMetricsMiddleware(deps.StatusRecorder))
	}
	r.Use(middleware.NewIdentityMiddleware(deps.ClaimResolver))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	commentHandler := NewCommentHandler(deps.CommentService)
	articleHandler := NewArticleHandler(deps.ArticleSearcher)

	// --- 運用ルート（レート制限の対象外） ---

	if deps.HealthCheck != nil {
		r.Get("/health", deps.HealthCheck)
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- 認証フロー ---

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", authHandler.Login)
		r.Get("/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
	})

	// --- APIルート ---
	// ミドルウェアスタック: RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/api/user", authHandler.CurrentUser)
		r.Get("/api/articles", articleHandler.SearchArticles)

		r.Route("/api/comments", func(r chi.Router) {
			r.Get("/", commentHandler.ListComments)

			// 変更系にはコメント専用レート制限を追加
			r.With(deps.RateLimiter.MutationMiddleware()).Post("/", commentHandler.CreateComment)
			r.With(deps.RateLimiter.MutationMiddleware()).Delete("/", commentHandler.RemoveComment)
		})
	})

	// --- 静的ファイル配信（SPAフォールバック付き） ---

	if deps.StaticPath != "" {
		staticHandler := NewStaticHandler(deps.StaticPath)
		r.NotFound(staticHandler.ServeHTTP)
	}

	return r
}
