// Package calendar はカレンダー表示用の月グリッド生成と暦日計算を提供する。
// すべて純粋関数であり、I/Oや共有状態を持たない。
package calendar

import "time"

// Cell は月グリッドの1マスを表す。
// 週の先頭揃えのための空マス（プレースホルダ）か、実在する暦日のどちらか。
type Cell struct {
	Date        time.Time // 日単位に正規化した日付。プレースホルダの場合はゼロ値
	Placeholder bool
}

// MonthCells は基準日からoffsetヶ月ずらした月のグリッドセル列を返す。
// 週の開始は月曜（月曜=0 .. 日曜=6）とし、月初の曜日ぶんの
// プレースホルダを先頭に付与した後、その月の全日を昇順で並べる。
// 月オフセットは年境界を両方向に正しく繰り越す。
func MonthCells(ref time.Time, offset int) []Cell {
	year, month, _ := ref.Date()
	// day=1で構築するためtime.Dateの正規化がそのまま月シフトになる
	first := time.Date(year, month+time.Month(offset), 1, 0, 0, 0, 0, ref.Location())

	// 翌月0日 = 当月末日
	lastDay := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, ref.Location()).Day()

	leading := mondayIndexedWeekday(first.Weekday())

	cells := make([]Cell, 0, leading+lastDay)
	for i := 0; i < leading; i++ {
		cells = append(cells, Cell{Placeholder: true})
	}
	for d := 0; d < lastDay; d++ {
		cells = append(cells, Cell{Date: first.AddDate(0, 0, d)})
	}
	return cells
}

// mondayIndexedWeekday はtime.Weekday（日曜=0）を月曜=0の添字に変換する。
func mondayIndexedWeekday(w time.Weekday) int {
	return (int(w) + 6) % 7
}

// StartOfDay は時刻成分を落とした暦日の開始時刻を返す。
// タイムゾーンは入力のものをそのまま使う。
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay は2つの時刻が同じ暦日かどうかを判定する。
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayKey は暦日を表すキー文字列（YYYY-MM-DD）を返す。
// 日単位の集合演算に使用する。
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
