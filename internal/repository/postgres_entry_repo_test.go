package repository

import (
	"testing"
	"time"

	"github.com/sahdilber/moodlog/internal/calendar"
	"github.com/sahdilber/moodlog/internal/model"
)

// PostgresEntryRepoはEntryRepositoryインターフェースを満たすことを検証
func TestPostgresEntryRepo_ImplementsInterface(t *testing.T) {
	var _ EntryRepository = (*PostgresEntryRepo)(nil)
}

// PostgresEntryRepoはカレンダーサービスのEntryListerとしても使えることを検証
func TestPostgresEntryRepo_ImplementsEntryLister(t *testing.T) {
	var _ calendar.EntryLister = (*PostgresEntryRepo)(nil)
}

// NewPostgresEntryRepoが正しく初期化されることを検証
func TestNewPostgresEntryRepo_Initializes(t *testing.T) {
	repo := NewPostgresEntryRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// MoodEntryモデルのフィールドが正しく構築されることを検証
func TestPostgresEntryRepo_EntryModel_Fields(t *testing.T) {
	now := time.Now()
	entry := &model.MoodEntry{
		ID:        "entry-id-1",
		UserID:    "user-id-1",
		Mood:      "😊",
		Note:      "よく眠れた",
		Date:      now,
		GoalIDs:   []string{"goal-id-1", "goal-id-2"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if entry.ID != "entry-id-1" {
		t.Errorf("entry.ID = %q, want %q", entry.ID, "entry-id-1")
	}
	if entry.Mood != "😊" {
		t.Errorf("entry.Mood = %q, want %q", entry.Mood, "😊")
	}
	if len(entry.GoalIDs) != 2 {
		t.Errorf("len(entry.GoalIDs) = %d, want 2", len(entry.GoalIDs))
	}
}

// GoalIDsは弱参照でnil許容であることを検証
func TestPostgresEntryRepo_EntryModel_NilGoalIDs(t *testing.T) {
	entry := &model.MoodEntry{
		ID:     "entry-id-2",
		UserID: "user-id-1",
		Mood:   "😐",
	}

	if entry.GoalIDs != nil {
		t.Error("goal_ids should be nil by default")
	}
}
