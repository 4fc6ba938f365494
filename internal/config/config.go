package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// OIDC
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
	OIDCAuthURL      string
	OIDCTokenURL     string
	OIDCUserInfoURL  string

	// Session
	SessionMaxAge int

	// Moderation
	// モデレーター判定に使う機関ドメイン。先頭の"@"は持たない
	ModeratorDomain string

	// Comments
	HideRemovedComments bool

	// Article search upstream
	ArticleSearchURL   string
	ArticleSearchQuery string
	ArticleAPIKey      string
	ArticleTimeout     time.Duration

	// Rate Limit（req/min/identity）
	RateLimitGeneral int
	RateLimitPost    int

	// Server
	ServerPort string
	BaseURL    string
	StaticPath string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.OIDCClientID = os.Getenv("OIDC_CLIENT_ID")
	if cfg.OIDCClientID == "" {
		missing = append(missing, "OIDC_CLIENT_ID")
	}

	cfg.OIDCClientSecret = os.Getenv("OIDC_CLIENT_SECRET")
	if cfg.OIDCClientSecret == "" {
		missing = append(missing, "OIDC_CLIENT_SECRET")
	}

	cfg.OIDCRedirectURL = os.Getenv("OIDC_REDIRECT_URL")
	if cfg.OIDCRedirectURL == "" {
		missing = append(missing, "OIDC_REDIRECT_URL")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.OIDCAuthURL = getEnvString("OIDC_AUTH_URL", "")
	cfg.OIDCTokenURL = getEnvString("OIDC_TOKEN_URL", "")
	cfg.OIDCUserInfoURL = getEnvString("OIDC_USERINFO_URL", "")
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.ModeratorDomain = normalizeDomain(getEnvString("MODERATOR_DOMAIN", "ucdavis.edu"))
	cfg.HideRemovedComments = getEnvBool("HIDE_REMOVED_COMMENTS", false)
	cfg.ArticleSearchURL = getEnvString("ARTICLE_SEARCH_URL", "https://api.nytimes.com/svc/search/v2/articlesearch.json")
	cfg.ArticleSearchQuery = getEnvString("ARTICLE_SEARCH_QUERY", "Davis OR Sacramento")
	cfg.ArticleAPIKey = getEnvString("ARTICLE_API_KEY", "")
	cfg.ArticleTimeout = getEnvDuration("ARTICLE_TIMEOUT", 10*time.Second)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitPost = getEnvInt("RATE_LIMIT_POST", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.StaticPath = getEnvString("STATIC_PATH", "dist")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

// normalizeDomain は設定値の揺れ（"@ucdavis.edu" / "ucdavis.edu"）を吸収する。
func normalizeDomain(domain string) string {
	return strings.TrimPrefix(strings.TrimSpace(domain), "@")
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
