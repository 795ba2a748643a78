// Package cleanup は期限切れセッションの自動削除ジョブを提供する。
// expires_atを超過したセッション行を定期バッチで削除する。
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/sahdilber/moodlog/internal/metrics"
)

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// CleanupJob は期限切れセッションの自動削除ジョブ。
// 定期実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	db      Executor
	logger  *slog.Logger
	metrics metrics.MetricsCollector
}

// NewCleanupJob は新しいCleanupJobを生成する。
// collectorはnilでもよい。
func NewCleanupJob(db Executor, logger *slog.Logger, collector metrics.MetricsCollector) *CleanupJob {
	return &CleanupJob{
		db:      db,
		logger:  logger,
		metrics: collector,
	}
}

// Run は期限切れセッションを削除する。
// 期限の判定はDBサーバーの現在時刻で行う。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	query := `DELETE FROM sessions WHERE expires_at < now()`
	result, err := j.db.ExecContext(ctx, query)
	if err != nil {
		j.logger.Error("セッションクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("セッションクリーンアップの実行に失敗: %w", err)
	}

	deletedCount, err := result.RowsAffected()
	if err != nil {
		j.logger.Error("削除件数の取得に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("削除件数の取得に失敗: %w", err)
	}

	if j.metrics != nil {
		j.metrics.RecordSessionsCleaned(deletedCount)
	}

	duration := time.Since(start)
	j.logger.Info("セッションクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// RunPeriodically はintervalごとにRunを実行し続ける。
// コンテキストのキャンセルで停止する。個々の実行エラーはログに残して継続する。
func (j *CleanupJob) RunPeriodically(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// 起動直後に1回実行する
	if err := j.Run(ctx); err != nil {
		j.logger.Error("初回クリーンアップに失敗しました", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("定期クリーンアップに失敗しました", slog.String("error", err.Error()))
			}
		}
	}
}
