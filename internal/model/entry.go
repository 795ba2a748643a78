// Package model はドメインモデルを定義する。
package model

import "time"

// MoodEntry は1件の気分記録を表す。
// IDは作成時にクライアント側で採番され、以後不変。同一性はIDのみで判定する。
type MoodEntry struct {
	ID        string
	UserID    string
	Mood      string // 絵文字トークン。データモデル上は不透明な文字列として扱う
	Note      string // 自由記述。サニタイズ済みプレーンテキスト
	Date      time.Time
	GoalIDs   []string // 関連付けられたMoodGoal.ID。弱参照であり外部キー制約は持たない
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MoodStat は気分ごとの記録件数を表す集計結果。
type MoodStat struct {
	Mood  string
	Count int
}
