// Package reminder は記録忘れ防止の日次リマインダーワーカーを提供する。
// 設定された時刻（HH:MM）に全ユーザーへ通知を配信する。
package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sahdilber/moodlog/internal/metrics"
	"github.com/sahdilber/moodlog/internal/model"
)

// UserLister はリマインダー配信対象のユーザー一覧を返すインターフェース。
type UserLister interface {
	ListAll(ctx context.Context) ([]*model.User, error)
}

// Notifier はユーザーへのリマインダー通知を配信するインターフェース。
type Notifier interface {
	Notify(ctx context.Context, user *model.User) error
}

// LogNotifier は通知を構造化ログに出力するNotifier実装。
// 外部のプッシュ配信基盤に接続するまでの既定実装。
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier は新しいLogNotifierを生成する。
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify はリマインダー内容をログに記録する。
func (n *LogNotifier) Notify(ctx context.Context, user *model.User) error {
	n.logger.Info("今日の気分を記録しましょう",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	return nil
}

// compile-time interface check
var _ Notifier = (*LogNotifier)(nil)

// Scheduler は毎日決まった時刻にリマインダーを配信するスケジューラ。
// semaphoreパターンで最大並列数を制御しながら通知を配信する。
type Scheduler struct {
	users          UserLister
	notifier       Notifier
	logger         *slog.Logger
	metrics        metrics.MetricsCollector
	hour           int
	minute         int
	location       *time.Location
	maxConcurrency int
}

// NewScheduler はSchedulerの新しいインスタンスを生成する。
// maxConcurrencyが0以下の場合はデフォルト値10を使用する。
func NewScheduler(
	users UserLister,
	notifier Notifier,
	logger *slog.Logger,
	collector metrics.MetricsCollector,
	hour, minute int,
	loc *time.Location,
	maxConcurrency int,
) *Scheduler {
	if maxConcurrency <= 0 {
		maxConcurrency = 10
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		users:          users,
		notifier:       notifier,
		logger:         logger,
		metrics:        collector,
		hour:           hour,
		minute:         minute,
		location:       loc,
		maxConcurrency: maxConcurrency,
	}
}

// Start は次の配信時刻まで待機と配信を繰り返す。
// コンテキストがキャンセルされるまで実行を継続する。
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("リマインダースケジューラを開始しました",
		slog.Int("hour", s.hour),
		slog.Int("minute", s.minute),
		slog.String("timezone", s.location.String()),
	)

	for {
		next := s.nextRunAfter(time.Now().In(s.location))
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("リマインダースケジューラを停止しました")
			return
		case <-timer.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Error("リマインダー配信サイクルに失敗しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// RunOnce は全ユーザーへのリマインダー配信を1回実行する。
// 個々のユーザーへの配信失敗は記録して継続する。
func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := time.Now()

	users, err := s.users.ListAll(ctx)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		s.logger.Info("リマインダー配信対象のユーザーはいません")
		return nil
	}

	s.logger.Info("リマインダー配信サイクルを開始します",
		slog.Int("user_count", len(users)),
	)

	// semaphoreパターンで並列数を制御
	sem := make(chan struct{}, s.maxConcurrency)
	var wg sync.WaitGroup

	for _, u := range users {
		wg.Add(1)
		sem <- struct{}{} // semaphore取得（ブロック）

		go func(user *model.User) {
			defer wg.Done()
			defer func() { <-sem }() // semaphore解放

			if err := s.notifier.Notify(ctx, user); err != nil {
				s.logger.Error("リマインダー通知に失敗しました",
					slog.String("user_id", user.ID),
					slog.String("error", err.Error()),
				)
				return
			}
			if s.metrics != nil {
				s.metrics.RecordReminderSent()
			}
		}(u)
	}

	wg.Wait()

	duration := time.Since(start)
	s.logger.Info("リマインダー配信サイクルが完了しました",
		slog.Int("user_count", len(users)),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// nextRunAfter はnowより後の直近の配信時刻を返す。
// 当日の配信時刻を過ぎている場合は翌日の同時刻になる。
func (s *Scheduler) nextRunAfter(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
