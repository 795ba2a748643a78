// Package app はアプリケーションの起動と依存関係のワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/sahdilber/moodlog/internal/auth"
	"github.com/sahdilber/moodlog/internal/calendar"
	"github.com/sahdilber/moodlog/internal/config"
	"github.com/sahdilber/moodlog/internal/database"
	"github.com/sahdilber/moodlog/internal/entry"
	"github.com/sahdilber/moodlog/internal/goal"
	"github.com/sahdilber/moodlog/internal/handler"
	"github.com/sahdilber/moodlog/internal/logger"
	"github.com/sahdilber/moodlog/internal/metrics"
	"github.com/sahdilber/moodlog/internal/middleware"
	"github.com/sahdilber/moodlog/internal/repository"
	"github.com/sahdilber/moodlog/internal/security"
	"github.com/sahdilber/moodlog/internal/user"
	"github.com/sahdilber/moodlog/internal/worker/cleanup"
	"github.com/sahdilber/moodlog/internal/worker/reminder"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	entryRepo := repository.NewPostgresEntryRepo(db)
	goalRepo := repository.NewPostgresGoalRepo(db)

	// 3. メトリクスとセキュリティサービスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	sanitizer := security.NewNoteSanitizer()

	// 4. ドメインサービスの初期化
	authService := auth.NewService(
		userRepo, sessionRepo,
		auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge},
	)
	goalService := goal.NewService(goalRepo, collector, loc)
	entryService := entry.NewService(entryRepo, sanitizer, goalService, collector, loc)
	calendarService := calendar.NewService(entryRepo, loc)
	userService := user.NewService(userRepo, sessionRepo, entryRepo, goalRepo)

	// 5. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(rateLimiterConfig(cfg))
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		HealthChecker:     db,
		SessionFinder:     sessionRepo,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		MetricsRecorder:   collector,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		EntryService:    entryService,
		GoalService:     goalService,
		CalendarService: calendarService,
		UserService:     userService,
	}

	router := handler.NewRouter(deps)

	// 6. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// メトリクスサーバーは別ポートで公開する（外部非公開前提）
	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metrics.SetupMetricsRoute(registry),
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("metrics server starting",
			slog.String("addr", metricsServer.Addr),
		)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server listen error", slog.String("error", err.Error()))
		}
	}()

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := metricsServer.Shutdown(ctx); err != nil {
		slog.Error("metrics server shutdown failed", slog.String("error", err.Error()))
	}
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker はワーカーモードで起動する。
// DB接続を開き、日次リマインダースケジューラとセッションクリーンアップジョブを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runWorker(cfg *config.Config) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (worker)")

	// 2. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 3. リマインダースケジューラの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	notifier := reminder.NewLogNotifier(slog.Default())
	scheduler := reminder.NewScheduler(
		userRepo, notifier, slog.Default(), collector,
		cfg.ReminderHour, cfg.ReminderMinute, loc, 0,
	)

	// 4. セッションクリーンアップジョブの初期化
	cleanupJob := cleanup.NewCleanupJob(db, slog.Default(), collector)

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Int("reminder_hour", cfg.ReminderHour),
		slog.Int("reminder_minute", cfg.ReminderMinute),
		slog.Duration("cleanup_interval", cfg.SessionCleanupInterval),
	)

	// メトリクスサーバーをバックグラウンドで起動
	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metrics.SetupMetricsRoute(registry),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server listen error", slog.String("error", err.Error()))
		}
	}()
	defer metricsServer.Close()

	// セッションクリーンアップジョブをバックグラウンドで定期実行
	go cleanupJob.RunPeriodically(ctx, cfg.SessionCleanupInterval)

	// リマインダースケジューラをメインgoroutineで実行（ブロッキング）
	scheduler.Start(ctx)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// rateLimiterConfig はConfigのreq/min設定をレートリミッター設定に変換する。
func rateLimiterConfig(cfg *config.Config) middleware.RateLimiterConfig {
	c := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimitGeneral > 0 {
		c.GeneralRate = rateLimitPerSecond(cfg.RateLimitGeneral)
		c.GeneralBurst = cfg.RateLimitGeneral
	}
	if cfg.RateLimitEntryWrite > 0 {
		c.EntryWriteRate = rateLimitPerSecond(cfg.RateLimitEntryWrite)
		c.EntryWriteBurst = cfg.RateLimitEntryWrite
	}
	return c
}

// rateLimitPerSecond はreq/min値をreq/secのレートに変換する。
func rateLimitPerSecond(perMinute int) rate.Limit {
	return rate.Limit(float64(perMinute) / 60.0)
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
