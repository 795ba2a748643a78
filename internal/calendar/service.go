package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/sahdilber/moodlog/internal/model"
)

// DayCell は月グリッドの1マスと、その日に属する気分記録。
type DayCell struct {
	Date        time.Time
	Placeholder bool
	Entries     []*model.MoodEntry
}

// MonthView はカレンダー1ヶ月分の表示データ。
type MonthView struct {
	Year  int
	Month time.Month
	Cells []DayCell
}

// EntryLister は月範囲の気分記録取得に必要なインターフェース。
// repository.EntryRepositoryの部分集合として定義する。
type EntryLister interface {
	ListByUserIDBetween(ctx context.Context, userID string, from, to time.Time) ([]*model.MoodEntry, error)
}

// Service は月グリッドにユーザーの気分記録を重ねたビューを組み立てる。
type Service struct {
	entryRepo EntryLister
	location  *time.Location
}

// NewService は新しいServiceを生成する。
func NewService(entryRepo EntryLister, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		entryRepo: entryRepo,
		location:  loc,
	}
}

// MonthGrid は現在の月からoffsetヶ月ずらした月のカレンダービューを返す。
// その月に属する気分記録を暦日ごとにセルへ割り当てる。
func (s *Service) MonthGrid(ctx context.Context, userID string, offset int) (*MonthView, error) {
	now := time.Now().In(s.location)
	return s.monthGridAt(ctx, userID, now, offset)
}

// monthGridAt は基準日を固定してビューを組み立てる。テストからも使う。
func (s *Service) monthGridAt(ctx context.Context, userID string, ref time.Time, offset int) (*MonthView, error) {
	year, month, _ := ref.Date()
	first := time.Date(year, month+time.Month(offset), 1, 0, 0, 0, 0, ref.Location())
	next := first.AddDate(0, 1, 0)

	entries, err := s.entryRepo.ListByUserIDBetween(ctx, userID, first, next)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for month: %w", err)
	}

	byDay := make(map[string][]*model.MoodEntry, len(entries))
	for _, e := range entries {
		key := DayKey(e.Date.In(s.location))
		byDay[key] = append(byDay[key], e)
	}

	cells := MonthCells(ref, offset)
	view := &MonthView{
		Year:  first.Year(),
		Month: first.Month(),
		Cells: make([]DayCell, 0, len(cells)),
	}
	for _, c := range cells {
		dc := DayCell{Date: c.Date, Placeholder: c.Placeholder}
		if !c.Placeholder {
			dc.Entries = byDay[DayKey(c.Date)]
		}
		view.Cells = append(view.Cells, dc)
	}
	return view, nil
}
