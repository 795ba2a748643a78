// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sahdilber/moodlog/internal/model"
	"github.com/sahdilber/moodlog/internal/repository"
)

// EntryDeleter は気分記録の一括削除インターフェース。
type EntryDeleter interface {
	DeleteByUserID(ctx context.Context, userID string) error
}

// GoalDeleter はムード目標の一括削除インターフェース。
type GoalDeleter interface {
	DeleteByUserID(ctx context.Context, userID string) error
}

// Service はユーザー管理のサービス層。
// 退会処理のビジネスロジックを提供する。
type Service struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	entryDeleter EntryDeleter
	goalDeleter  GoalDeleter
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	entryDeleter EntryDeleter,
	goalDeleter GoalDeleter,
) *Service {
	return &Service{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		entryDeleter: entryDeleter,
		goalDeleter:  goalDeleter,
	}
}

// Withdraw はユーザーの退会処理を実行する。
// 削除順序: mood_entries → mood_goals（+ CASCADE: goal_completions）→ sessions → user
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	// ユーザー存在確認
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	slog.Info("退会処理を開始します",
		slog.String("user_id", userID),
	)

	// 1. 気分記録を削除
	if s.entryDeleter != nil {
		if err := s.entryDeleter.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("気分記録の削除に失敗しました: %w", err)
		}
	}

	// 2. 目標を削除（達成記録はCASCADE削除）
	if s.goalDeleter != nil {
		if err := s.goalDeleter.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("目標の削除に失敗しました: %w", err)
		}
	}

	// 3. セッションを削除
	if s.sessionRepo != nil {
		if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("セッションの削除に失敗しました: %w", err)
		}
	}

	// 4. ユーザーを削除
	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("退会処理が完了しました",
		slog.String("user_id", userID),
	)

	return nil
}
