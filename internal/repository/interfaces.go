// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/sahdilber/moodlog/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。メールアドレス重複はエラーになる。
	Create(ctx context.Context, user *model.User) error

	// UpdatePasswordHash はパスワードハッシュを更新する。
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error

	// DeleteByID は指定IDのユーザーを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteByUserIDExcept は指定ユーザーのセッションのうち1件を除き削除する。
	// パスワード変更時に現在のセッションだけを残すために使う。
	DeleteByUserIDExcept(ctx context.Context, userID, keepSessionID string) error
}

// EntryRepository は気分記録の永続化インターフェース。
// すべての操作はユーザー単位にスコープされる。
type EntryRepository interface {
	// FindByID は指定ユーザー・IDの気分記録を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, userID, id string) (*model.MoodEntry, error)

	// Upsert は気分記録を作成または全置換する（createOrReplace相当）。
	Upsert(ctx context.Context, entry *model.MoodEntry) error

	// ListByUserID はユーザーの全気分記録を日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.MoodEntry, error)

	// ListByUserIDBetween は[from, to)の期間に含まれる気分記録を日時の降順で返す。
	ListByUserIDBetween(ctx context.Context, userID string, from, to time.Time) ([]*model.MoodEntry, error)

	// DeleteByID は指定ユーザー・IDの気分記録を削除する。
	// 対象が存在しない場合はエラーを返す。
	DeleteByID(ctx context.Context, userID, id string) error

	// DeleteByIDs は複数の気分記録を単一トランザクションで削除する。
	// 存在しないIDが混在しても成功扱いとする。
	DeleteByIDs(ctx context.Context, userID string, ids []string) error

	// CountByMood は気分トークンごとの記録件数を件数の降順で返す。
	CountByMood(ctx context.Context, userID string) ([]model.MoodStat, error)

	// DeleteByUserID はユーザーの全気分記録を削除する。退会処理用。
	DeleteByUserID(ctx context.Context, userID string) error
}

// GoalRepository はムード目標の永続化インターフェース。
// 達成記録（goal_completions）の読み書きを含む。
type GoalRepository interface {
	// FindByID は指定ユーザー・IDの目標を達成記録込みで取得する。
	// 見つからない場合はnilを返す。
	FindByID(ctx context.Context, userID, id string) (*model.MoodGoal, error)

	// Upsert は目標を作成または全置換する（createOrReplace相当）。
	// 達成記録は置換対象に含まない。
	Upsert(ctx context.Context, goal *model.MoodGoal) error

	// ListByUserID はユーザーの全目標を作成日時の降順・達成記録込みで返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.MoodGoal, error)

	// AddCompletion は目標の達成記録を追加する。
	// 同一暦日の記録が既に存在する場合は何もせずfalseを返す（冪等）。
	// UNIQUE (goal_id, completed_on) 制約により並行書き込みでも二重追加されない。
	AddCompletion(ctx context.Context, goalID string, completedAt time.Time) (bool, error)

	// DeleteByID は指定ユーザー・IDの目標を削除する。
	// 達成記録はCASCADE削除される。対象が存在しない場合はエラーを返す。
	DeleteByID(ctx context.Context, userID, id string) error

	// DeleteByIDs は複数の目標を単一トランザクションで削除する。
	// 存在しないIDが混在しても成功扱いとする。
	DeleteByIDs(ctx context.Context, userID string, ids []string) error

	// DeleteByUserID はユーザーの全目標を削除する。退会処理用。
	DeleteByUserID(ctx context.Context, userID string) error
}
