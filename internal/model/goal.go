// Package model はドメインモデルを定義する。
package model

import "time"

// DefaultGoalTargetCount は目標日数のデフォルト値。
const DefaultGoalTargetCount = 30

// MoodGoal は繰り返し達成を目指すムード目標（習慣）を表す。
// CompletedDatesは「この日やった」という記録のタイムスタンプ列で、
// 進捗の導出値はすべて暦日（日単位）に正規化してから計算する。
type MoodGoal struct {
	ID             string
	UserID         string
	Title          string
	Emoji          string
	CreatedAt      time.Time
	CompletedDates []time.Time
	TargetCount    int // 達成に必要なユニーク日数。常に正であることを作成時に検証する
}
