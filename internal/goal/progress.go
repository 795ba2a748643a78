// Package goal はムード目標の進捗モデルとドメインサービスを提供する。
// 進捗計算は暦日（日単位）に正規化した達成日集合の上で行う純粋関数として実装する。
package goal

import (
	"time"

	"github.com/sahdilber/moodlog/internal/calendar"
	"github.com/sahdilber/moodlog/internal/model"
)

// RecordCompletion は目標に達成記録を追加する。
// 同じ暦日が既に記録済みの場合は何もせずfalseを返す（冪等）。
// 追加した場合はtrueを返し、ユニーク日数はちょうど1増える。
// 渡す時刻は呼び出し側でユーザーのタイムゾーンに揃えておくこと。
func RecordCompletion(g *model.MoodGoal, date time.Time) bool {
	key := calendar.DayKey(date)
	for _, d := range g.CompletedDates {
		if calendar.DayKey(d) == key {
			return false
		}
	}
	g.CompletedDates = append(g.CompletedDates, date)
	return true
}

// UniqueDaysCount は達成記録に含まれるユニークな暦日の数を返す。
func UniqueDaysCount(g *model.MoodGoal) int {
	return len(completedDaySet(g))
}

// CompletionRate はユニーク日数 / 目標日数を実数で返す。
// 目標超過時も1.0に丸めない。表示側で[0,1]にクランプする契約。
// TargetCountは作成時に正であることを検証済みの前提。
func CompletionRate(g *model.MoodGoal) float64 {
	return float64(UniqueDaysCount(g)) / float64(g.TargetCount)
}

// IsCompleted はユニーク日数が目標日数に達したかどうかを返す。
func IsCompleted(g *model.MoodGoal) bool {
	return UniqueDaysCount(g) >= g.TargetCount
}

// Streak はasOfの暦日を起点に、過去方向へ連続して達成されている日数を返す。
// asOfの日自体が未達成なら、前日以前が達成済みでも0を返す。
// 過去最長の連続記録ではなく、asOf時点の現行ストリークのみを数える。
func Streak(g *model.MoodGoal, asOf time.Time) int {
	days := completedDaySet(g)

	streak := 0
	cursor := calendar.StartOfDay(asOf)
	for {
		if _, ok := days[calendar.DayKey(cursor)]; !ok {
			return streak
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
}

// completedDaySet は達成記録を暦日キーの集合に変換する。
func completedDaySet(g *model.MoodGoal) map[string]struct{} {
	days := make(map[string]struct{}, len(g.CompletedDates))
	for _, d := range g.CompletedDates {
		days[calendar.DayKey(d)] = struct{}{}
	}
	return days
}
