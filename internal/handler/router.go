package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sahdilber/moodlog/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	MetricsRecorder   middleware.HTTPMetricsRecorder

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 気分記録
	EntryService EntryServiceInterface

	// ムード目標
	GoalService GoalServiceInterface

	// カレンダー
	CalendarService CalendarServiceInterface

	// ユーザー
	UserService UserServiceInterface

	// ヘルスチェック
	HealthChecker HealthChecker
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → SecurityHeaders → CORS
//	→（認証ルート）SessionMiddleware → CSRFMiddleware → RateLimitMiddleware(GeneralMiddleware)
//
// 認証ルート（/auth/*）と/healthはセッションチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	csrfConfig := middleware.CSRFConfig{
		CookieSecure: deps.AuthConfig.CookieSecure,
		CookieDomain: deps.AuthConfig.CookieDomain,
	}

	// 全ルートに効くミドルウェアを最上位に適用
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	entryHandler := NewEntryHandler(deps.EntryService)
	goalHandler := NewGoalHandler(deps.GoalService)
	calendarHandler := NewCalendarHandler(deps.CalendarService)
	userHandler := NewUserHandler(deps.UserService, deps.AuthConfig)

	// --- 認証不要のルート ---

	// ヘルスチェック
	r.Get("/health", NewHealthHandler(deps.HealthChecker))

	// CSRFトークン取得（ログイン前でも取得できるよう認証外に置く）
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(csrfConfig))

	// 認証ルート
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → CSRF → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(middleware.NewCSRFMiddleware(csrfConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 気分記録（書き込み系には記録書き込み専用レート制限を追加）
		r.Route("/api/entries", func(r chi.Router) {
			r.With(deps.RateLimiter.EntryWriteMiddleware()).Post("/", entryHandler.CreateEntry)
			r.With(deps.RateLimiter.EntryWriteMiddleware()).Post("/bulk-delete", entryHandler.BulkDeleteEntries)
			r.Get("/", entryHandler.ListEntries)

			r.Route("/{id}", func(r chi.Router) {
				r.With(deps.RateLimiter.EntryWriteMiddleware()).Patch("/", entryHandler.UpdateEntry)
				r.With(deps.RateLimiter.EntryWriteMiddleware()).Delete("/", entryHandler.DeleteEntry)
			})
		})

		// ムード目標
		r.Route("/api/goals", func(r chi.Router) {
			r.Post("/", goalHandler.CreateGoal)
			r.Get("/", goalHandler.ListGoals)
			r.Post("/bulk-delete", goalHandler.BulkDeleteGoals)
			r.Post("/completions", goalHandler.RecordCompletions)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", goalHandler.GetGoal)
				r.Delete("/", goalHandler.DeleteGoal)
			})
		})

		// 集計
		r.Get("/api/stats/moods", entryHandler.MoodStats)

		// カレンダー
		r.Get("/api/calendar", calendarHandler.MonthGrid)

		// ユーザー管理
		r.Route("/api/users", func(r chi.Router) {
			r.Put("/me/password", authHandler.ChangePassword)
			r.Delete("/me", userHandler.Withdraw)
		})
	})

	return r
}
