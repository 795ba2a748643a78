package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sahdilber/moodlog/internal/model"
)

// PostgresEntryRepo はPostgreSQLを使用した気分記録リポジトリ。
// goal_idsカラムはtext[]で保持し、外部キー制約は持たない（弱参照）。
type PostgresEntryRepo struct {
	db *sql.DB
}

// NewPostgresEntryRepo はPostgresEntryRepoを生成する。
func NewPostgresEntryRepo(db *sql.DB) *PostgresEntryRepo {
	return &PostgresEntryRepo{db: db}
}

// FindByID は指定ユーザー・IDの気分記録を取得する。見つからない場合はnilを返す。
func (r *PostgresEntryRepo) FindByID(ctx context.Context, userID, id string) (*model.MoodEntry, error) {
	entry := &model.MoodEntry{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, mood, note, date, goal_ids, created_at, updated_at
		 FROM mood_entries
		 WHERE user_id = $1 AND id = $2`,
		userID, id,
	).Scan(&entry.ID, &entry.UserID, &entry.Mood, &entry.Note, &entry.Date,
		pq.Array(&entry.GoalIDs), &entry.CreatedAt, &entry.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find entry by ID: %w", err)
	}

	return entry, nil
}

// Upsert は気分記録を作成または全置換する。
// IDが衝突した場合は同一ユーザーの記録のみ置換し、他ユーザーのIDとの
// 衝突は行が更新されないためエラーになる。
func (r *PostgresEntryRepo) Upsert(ctx context.Context, entry *model.MoodEntry) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO mood_entries (id, user_id, mood, note, date, goal_ids, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE
		 SET mood = EXCLUDED.mood,
		     note = EXCLUDED.note,
		     date = EXCLUDED.date,
		     goal_ids = EXCLUDED.goal_ids,
		     updated_at = EXCLUDED.updated_at
		 WHERE mood_entries.user_id = EXCLUDED.user_id`,
		entry.ID, entry.UserID, entry.Mood, entry.Note, entry.Date,
		pq.Array(entry.GoalIDs), entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("entry ID conflicts with another user: %s", entry.ID)
	}
	return nil
}

// ListByUserID はユーザーの全気分記録を日時の降順で返す。
func (r *PostgresEntryRepo) ListByUserID(ctx context.Context, userID string) ([]*model.MoodEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, mood, note, date, goal_ids, created_at, updated_at
		 FROM mood_entries
		 WHERE user_id = $1
		 ORDER BY date DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByUserIDBetween は[from, to)の期間に含まれる気分記録を日時の降順で返す。
func (r *PostgresEntryRepo) ListByUserIDBetween(ctx context.Context, userID string, from, to time.Time) ([]*model.MoodEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, mood, note, date, goal_ids, created_at, updated_at
		 FROM mood_entries
		 WHERE user_id = $1 AND date >= $2 AND date < $3
		 ORDER BY date DESC`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries between dates: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// scanEntries は結果セットをMoodEntryスライスに変換する。
func scanEntries(rows *sql.Rows) ([]*model.MoodEntry, error) {
	var entries []*model.MoodEntry
	for rows.Next() {
		entry := &model.MoodEntry{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Mood, &entry.Note,
			&entry.Date, pq.Array(&entry.GoalIDs), &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return entries, nil
}

// DeleteByID は指定ユーザー・IDの気分記録を削除する。
func (r *PostgresEntryRepo) DeleteByID(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM mood_entries WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("entry not found: %s", id)
	}
	return nil
}

// DeleteByIDs は複数の気分記録を単一トランザクションで削除する。
// 存在しないIDが混在しても成功扱いとする。
func (r *PostgresEntryRepo) DeleteByIDs(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM mood_entries WHERE user_id = $1 AND id = ANY($2)`,
		userID, pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	return nil
}

// CountByMood は気分トークンごとの記録件数を件数の降順で返す。
func (r *PostgresEntryRepo) CountByMood(ctx context.Context, userID string) ([]model.MoodStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT mood, COUNT(*) AS cnt
		 FROM mood_entries
		 WHERE user_id = $1
		 GROUP BY mood
		 ORDER BY cnt DESC, mood ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries by mood: %w", err)
	}
	defer rows.Close()

	var stats []model.MoodStat
	for rows.Next() {
		var s model.MoodStat
		if err := rows.Scan(&s.Mood, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan mood stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mood stats: %w", err)
	}
	return stats, nil
}

// DeleteByUserID はユーザーの全気分記録を削除する。
func (r *PostgresEntryRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM mood_entries WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user entries: %w", err)
	}
	return nil
}

// compile-time interface check
var _ EntryRepository = (*PostgresEntryRepo)(nil)
