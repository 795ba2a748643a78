package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sahdilber/moodlog/internal/model"
)

// PostgresGoalRepo はPostgreSQLを使用したムード目標リポジトリ。
// 達成記録はgoal_completionsテーブルに分離し、
// UNIQUE (goal_id, completed_on) で同一暦日の二重記録をDBレベルで防ぐ。
type PostgresGoalRepo struct {
	db *sql.DB
}

// NewPostgresGoalRepo はPostgresGoalRepoを生成する。
func NewPostgresGoalRepo(db *sql.DB) *PostgresGoalRepo {
	return &PostgresGoalRepo{db: db}
}

// FindByID は指定ユーザー・IDの目標を達成記録込みで取得する。
// 見つからない場合はnilを返す。
func (r *PostgresGoalRepo) FindByID(ctx context.Context, userID, id string) (*model.MoodGoal, error) {
	goal := &model.MoodGoal{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, emoji, target_count, created_at
		 FROM mood_goals
		 WHERE user_id = $1 AND id = $2`,
		userID, id,
	).Scan(&goal.ID, &goal.UserID, &goal.Title, &goal.Emoji, &goal.TargetCount, &goal.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find goal by ID: %w", err)
	}

	completions, err := r.listCompletions(ctx, []string{goal.ID})
	if err != nil {
		return nil, err
	}
	goal.CompletedDates = completions[goal.ID]

	return goal, nil
}

// Upsert は目標を作成または全置換する。達成記録は置換対象に含まない。
// 他ユーザーのIDとの衝突は行が更新されないためエラーになる。
func (r *PostgresGoalRepo) Upsert(ctx context.Context, goal *model.MoodGoal) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO mood_goals (id, user_id, title, emoji, target_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE
		 SET title = EXCLUDED.title,
		     emoji = EXCLUDED.emoji,
		     target_count = EXCLUDED.target_count
		 WHERE mood_goals.user_id = EXCLUDED.user_id`,
		goal.ID, goal.UserID, goal.Title, goal.Emoji, goal.TargetCount, goal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert goal: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("goal ID conflicts with another user: %s", goal.ID)
	}
	return nil
}

// ListByUserID はユーザーの全目標を作成日時の降順・達成記録込みで返す。
func (r *PostgresGoalRepo) ListByUserID(ctx context.Context, userID string) ([]*model.MoodGoal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, emoji, target_count, created_at
		 FROM mood_goals
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*model.MoodGoal
	var goalIDs []string
	for rows.Next() {
		goal := &model.MoodGoal{}
		if err := rows.Scan(&goal.ID, &goal.UserID, &goal.Title, &goal.Emoji,
			&goal.TargetCount, &goal.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
		goalIDs = append(goalIDs, goal.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}

	if len(goals) == 0 {
		return goals, nil
	}

	completions, err := r.listCompletions(ctx, goalIDs)
	if err != nil {
		return nil, err
	}
	for _, goal := range goals {
		goal.CompletedDates = completions[goal.ID]
	}

	return goals, nil
}

// listCompletions は指定目標群の達成記録を記録日時の昇順で取得し、
// 目標IDごとにまとめて返す。
func (r *PostgresGoalRepo) listCompletions(ctx context.Context, goalIDs []string) (map[string][]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT goal_id, completed_at
		 FROM goal_completions
		 WHERE goal_id = ANY($1)
		 ORDER BY completed_at ASC`,
		pq.Array(goalIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list goal completions: %w", err)
	}
	defer rows.Close()

	completions := make(map[string][]time.Time)
	for rows.Next() {
		var goalID string
		var completedAt time.Time
		if err := rows.Scan(&goalID, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal completion: %w", err)
		}
		completions[goalID] = append(completions[goalID], completedAt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goal completions: %w", err)
	}
	return completions, nil
}

// AddCompletion は目標の達成記録を追加する。
// completed_onは暦日に正規化して保存し、同一暦日はON CONFLICT DO NOTHINGで
// 冪等にスキップする。追加した場合はtrueを返す。
func (r *PostgresGoalRepo) AddCompletion(ctx context.Context, goalID string, completedAt time.Time) (bool, error) {
	year, month, day := completedAt.Date()
	completedOn := time.Date(year, month, day, 0, 0, 0, 0, completedAt.Location())

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO goal_completions (id, goal_id, completed_at, completed_on)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (goal_id, completed_on) DO NOTHING`,
		uuid.New().String(), goalID, completedAt, completedOn,
	)
	if err != nil {
		return false, fmt.Errorf("failed to add goal completion: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteByID は指定ユーザー・IDの目標を削除する。達成記録はCASCADE削除される。
func (r *PostgresGoalRepo) DeleteByID(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM mood_goals WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("goal not found: %s", id)
	}
	return nil
}

// DeleteByIDs は複数の目標を単一トランザクションで削除する。
// 存在しないIDが混在しても成功扱いとする。
func (r *PostgresGoalRepo) DeleteByIDs(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM mood_goals WHERE user_id = $1 AND id = ANY($2)`,
		userID, pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to delete goals: %w", err)
	}
	return nil
}

// DeleteByUserID はユーザーの全目標を削除する。
func (r *PostgresGoalRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM mood_goals WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user goals: %w", err)
	}
	return nil
}

// compile-time interface check
var _ GoalRepository = (*PostgresGoalRepo)(nil)
