package goal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sahdilber/moodlog/internal/calendar"
	"github.com/sahdilber/moodlog/internal/metrics"
	"github.com/sahdilber/moodlog/internal/model"
	"github.com/sahdilber/moodlog/internal/repository"
)

// Progress は目標の進捗導出値。永続化せず取得時に毎回計算する。
type Progress struct {
	UniqueDays     int
	CompletionRate float64
	IsCompleted    bool
	Streak         int
}

// GoalWithProgress は目標と進捗のペア。
type GoalWithProgress struct {
	Goal     *model.MoodGoal
	Progress Progress
}

// CreateGoalInput は目標の作成・置換入力。
// IDが空の場合はサーバー側で採番する。TargetCountがnilの場合はデフォルト値を使う。
type CreateGoalInput struct {
	ID          string
	Title       string
	Emoji       string
	TargetCount *int
}

// Service はムード目標のアプリケーションサービス。
type Service struct {
	goalRepo repository.GoalRepository
	metrics  metrics.MetricsCollector
	location *time.Location
}

// NewService は新しいServiceを生成する。
// locはストリーク計算の基準日を決めるユーザー向けタイムゾーン。
func NewService(goalRepo repository.GoalRepository, collector metrics.MetricsCollector, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		goalRepo: goalRepo,
		metrics:  collector,
		location: loc,
	}
}

// CreateOrReplace は目標を作成し、進捗付きで返す。
// 同一IDが既に存在する場合は全置換する。達成記録は置換の影響を受けない。
func (s *Service) CreateOrReplace(ctx context.Context, userID string, input CreateGoalInput) (*GoalWithProgress, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, model.NewTitleRequiredError()
	}

	targetCount := model.DefaultGoalTargetCount
	if input.TargetCount != nil {
		if *input.TargetCount <= 0 {
			return nil, model.NewInvalidTargetCountError(*input.TargetCount)
		}
		targetCount = *input.TargetCount
	}

	id := input.ID
	if id == "" {
		id = uuid.New().String()
	}

	goal := &model.MoodGoal{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Emoji:       strings.TrimSpace(input.Emoji),
		CreatedAt:   time.Now(),
		TargetCount: targetCount,
	}

	// 置換時は作成日時を引き継ぐ
	existing, err := s.goalRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find goal: %w", err)
	}
	if existing != nil {
		goal.CreatedAt = existing.CreatedAt
		goal.CompletedDates = existing.CompletedDates
	}

	if err := s.goalRepo.Upsert(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}

	slog.Info("goal saved",
		slog.String("user_id", userID),
		slog.String("goal_id", goal.ID),
		slog.Int("target_count", goal.TargetCount),
	)

	return &GoalWithProgress{
		Goal:     goal,
		Progress: s.progressOf(goal, time.Now().In(s.location)),
	}, nil
}

// List はユーザーの全目標を進捗付きで返す。
func (s *Service) List(ctx context.Context, userID string) ([]*GoalWithProgress, error) {
	goals, err := s.goalRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	asOf := time.Now().In(s.location)
	result := make([]*GoalWithProgress, 0, len(goals))
	for _, g := range goals {
		result = append(result, &GoalWithProgress{
			Goal:     g,
			Progress: s.progressOf(g, asOf),
		})
	}
	return result, nil
}

// Get は指定IDの目標を進捗付きで返す。
func (s *Service) Get(ctx context.Context, userID, id string) (*GoalWithProgress, error) {
	g, err := s.goalRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find goal: %w", err)
	}
	if g == nil {
		return nil, model.NewGoalNotFoundError(id)
	}

	return &GoalWithProgress{
		Goal:     g,
		Progress: s.progressOf(g, time.Now().In(s.location)),
	}, nil
}

// Delete は指定IDの目標を削除する。達成記録も併せて削除される。
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	g, err := s.goalRepo.FindByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to find goal: %w", err)
	}
	if g == nil {
		return model.NewGoalNotFoundError(id)
	}

	if err := s.goalRepo.DeleteByID(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	slog.Info("goal deleted",
		slog.String("user_id", userID),
		slog.String("goal_id", id),
	)
	return nil
}

// DeleteBatch は複数の目標を単一トランザクションで削除する。
// 存在しないIDが混在しても成功扱いとする。
func (s *Service) DeleteBatch(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.goalRepo.DeleteByIDs(ctx, userID, ids); err != nil {
		return fmt.Errorf("failed to delete goals: %w", err)
	}

	slog.Info("goals deleted",
		slog.String("user_id", userID),
		slog.Int("count", len(ids)),
	)
	return nil
}

// RecordCompletionsForDate は指定された各目標について、completedAtの暦日の
// 達成記録を追加する。既に記録済みの日・存在しない目標は黙ってスキップする。
// 一部の目標で失敗しても残りの目標の記録を試み、最初のエラーを返す。
func (s *Service) RecordCompletionsForDate(ctx context.Context, userID string, goalIDs []string, completedAt time.Time) error {
	completedAt = completedAt.In(s.location)

	var firstErr error
	for _, goalID := range goalIDs {
		g, err := s.goalRepo.FindByID(ctx, userID, goalID)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to find goal %s: %w", goalID, err)
			}
			continue
		}
		if g == nil {
			// 削除済み目標への弱参照は無視する
			continue
		}

		added, err := s.goalRepo.AddCompletion(ctx, goalID, completedAt)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to record completion for goal %s: %w", goalID, err)
			}
			continue
		}
		if added {
			if s.metrics != nil {
				s.metrics.RecordGoalCompletion()
			}
			slog.Info("goal completion recorded",
				slog.String("user_id", userID),
				slog.String("goal_id", goalID),
				slog.String("day", calendar.DayKey(completedAt)),
			)
		}
	}
	return firstErr
}

// progressOf は達成記録をサービスのタイムゾーンに揃えてから進捗を計算する。
// ドライバはDBセッションのタイムゾーンで時刻を返すため、
// 暦日ベースの計算の前に必ず変換する。テストからも使う。
func (s *Service) progressOf(g *model.MoodGoal, asOf time.Time) Progress {
	for i, d := range g.CompletedDates {
		g.CompletedDates[i] = d.In(s.location)
	}
	return ProgressOf(g, asOf)
}

// ProgressOf は目標の進捗導出値をasOf時点で計算する。
// 達成記録の時刻表現は呼び出し側でユーザーのタイムゾーンに揃えておくこと。
func ProgressOf(g *model.MoodGoal, asOf time.Time) Progress {
	return Progress{
		UniqueDays:     UniqueDaysCount(g),
		CompletionRate: CompletionRate(g),
		IsCompleted:    IsCompleted(g),
		Streak:         Streak(g, asOf),
	}
}
