// Package entry は気分記録のアプリケーションサービスを提供する。
package entry

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
	"github.com/sahdilber/moodlog/internal/security"
)

// CompletionRecorder は気分記録に紐づく目標の達成記録を追加するインターフェース。
// goalパッケージのServiceが実装する。
type CompletionRecorder interface {
	RecordCompletionsForDate(ctx context.Context, userID string, goalIDs []string, completedAt time.Time) error
}

// CreateEntryInput は気分記録の作成入力。
// IDが空の場合はサーバー側で採番する。Dateがnilの場合は現在時刻を使う。
type CreateEntryInput struct {
	ID      string
	Mood    string
	Note    string
	Date    *time.Time
	GoalIDs []string
}

// UpdateEntryInput は気分記録の部分更新入力。nilのフィールドは変更しない。
type UpdateEntryInput struct {
	Mood    *string
	Note    *string
	Date    *time.Time
	GoalIDs []string // nilは変更なし。空スライスは全解除
}

// Service は気分記録のアプリケーションサービス。
type Service struct {
	entryRepo   repository.EntryRepository
	sanitizer   security.NoteSanitizerService
	completions CompletionRecorder
	metrics     metrics.MetricsCollector
	location    *time.Location
}

// NewService は新しいServiceを生成する。
func NewService(
	entryRepo repository.EntryRepository,
	sanitizer security.NoteSanitizerService,
	completions CompletionRecorder,
	collector metrics.MetricsCollector,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		entryRepo:   entryRepo,
		sanitizer:   sanitizer,
		completions: completions,
		metrics:     collector,
		location:    loc,
	}
}

// Create は気分記録を作成する。同一IDが既に存在する場合は全置換する。
// 目標IDが紐づいている場合は、各目標に記録日の達成記録を追加する。
func (s *Service) Create(ctx context.Context, userID string, input CreateEntryInput) (*model.MoodEntry, error) {
	mood := strings.TrimSpace(input.Mood)
	if mood == "" {
		return nil, model.NewMoodRequiredError()
	}

	id := input.ID
	if id == "" {
		id = uuid.New().String()
	}

	now := time.Now().In(s.location)
	date := now
	if input.Date != nil {
		date = input.Date.In(s.location)
	}

	e := &model.MoodEntry{
		ID:        id,
		UserID:    userID,
		Mood:      mood,
		Note:      s.sanitizer.Sanitize(input.Note),
		Date:      date,
		GoalIDs:   input.GoalIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 置換時は作成日時を引き継ぐ
	existing, err := s.entryRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry: %w", err)
	}
	if existing != nil {
		e.CreatedAt = existing.CreatedAt
	}

	if err := s.entryRepo.Upsert(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	if existing == nil && s.metrics != nil {
		s.metrics.RecordEntryCreated()
	}

	slog.Info("entry saved",
		slog.String("user_id", userID),
		slog.String("entry_id", e.ID),
		slog.String("day", calendar.DayKey(e.Date)),
	)

	// 紐づく目標に記録日の達成を記録する。失敗しても記録自体は成立している
	if len(e.GoalIDs) > 0 {
		if err := s.completions.RecordCompletionsForDate(ctx, userID, e.GoalIDs, e.Date); err != nil {
			slog.Warn("failed to record goal completions",
				slog.String("user_id", userID),
				slog.String("entry_id", e.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return e, nil
}

// Update は気分記録を部分更新する。nilのフィールドは既存値を維持する。
// 新たに目標IDが設定された場合は記録日の達成記録を追加する。
func (s *Service) Update(ctx context.Context, userID, id string, input UpdateEntryInput) (*model.MoodEntry, error) {
	e, err := s.entryRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry: %w", err)
	}
	if e == nil {
		return nil, model.NewEntryNotFoundError(id)
	}

	if input.Mood != nil {
		mood := strings.TrimSpace(*input.Mood)
		if mood == "" {
			return nil, model.NewMoodRequiredError()
		}
		e.Mood = mood
	}
	if input.Note != nil {
		e.Note = s.sanitizer.Sanitize(*input.Note)
	}
	if input.Date != nil {
		e.Date = input.Date.In(s.location)
	}
	if input.GoalIDs != nil {
		e.GoalIDs = input.GoalIDs
	}
	e.UpdatedAt = time.Now().In(s.location)

	if err := s.entryRepo.Upsert(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	slog.Info("entry updated",
		slog.String("user_id", userID),
		slog.String("entry_id", e.ID),
	)

	if len(e.GoalIDs) > 0 {
		if err := s.completions.RecordCompletionsForDate(ctx, userID, e.GoalIDs, e.Date); err != nil {
			slog.Warn("failed to record goal completions",
				slog.String("user_id", userID),
				slog.String("entry_id", e.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return e, nil
}

// List はユーザーの全気分記録を日時の降順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.MoodEntry, error) {
	entries, err := s.entryRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// ListForDay は指定日の暦日に含まれる気分記録を返す。
func (s *Service) ListForDay(ctx context.Context, userID string, day time.Time) ([]*model.MoodEntry, error) {
	from := calendar.StartOfDay(day.In(s.location))
	to := from.AddDate(0, 0, 1)

	entries, err := s.entryRepo.ListByUserIDBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for day: %w", err)
	}
	return entries, nil
}

// ListBetween は[from, to)の期間に含まれる気分記録を返す。
func (s *Service) ListBetween(ctx context.Context, userID string, from, to time.Time) ([]*model.MoodEntry, error) {
	entries, err := s.entryRepo.ListByUserIDBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// Delete は指定IDの気分記録を削除する。
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	e, err := s.entryRepo.FindByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to find entry: %w", err)
	}
	if e == nil {
		return model.NewEntryNotFoundError(id)
	}

	if err := s.entryRepo.DeleteByID(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	slog.Info("entry deleted",
		slog.String("user_id", userID),
		slog.String("entry_id", id),
	)
	return nil
}

// DeleteBatch は複数の気分記録を単一トランザクションで削除する。
// 存在しないIDが混在しても成功扱いとする。
func (s *Service) DeleteBatch(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.entryRepo.DeleteByIDs(ctx, userID, ids); err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}

	slog.Info("entries deleted",
		slog.String("user_id", userID),
		slog.Int("count", len(ids)),
	)
	return nil
}

// MoodStats は気分トークンごとの記録件数を件数の降順で返す。
func (s *Service) MoodStats(ctx context.Context, userID string) ([]model.MoodStat, error) {
	stats, err := s.entryRepo.CountByMood(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries by mood: %w", err)
	}
	return stats, nil
}
