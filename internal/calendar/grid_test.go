package calendar

import (
	"testing"
	"time"
)

// TestMonthCells_March2024 は2024年3月（金曜始まり・31日）のグリッドを検証する。
// 3月1日は金曜のため、月曜=0の添字では先頭に4個のプレースホルダが入る。
func TestMonthCells_March2024(t *testing.T) {
	ref := time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC)

	cells := MonthCells(ref, 0)

	if len(cells) != 4+31 {
		t.Fatalf("len(cells) = %d, want %d", len(cells), 4+31)
	}
	for i := 0; i < 4; i++ {
		if !cells[i].Placeholder {
			t.Errorf("cells[%d].Placeholder = false, want true", i)
		}
	}
	first := cells[4]
	if first.Placeholder {
		t.Fatal("cells[4] should be a real day")
	}
	if !first.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first real day = %v, want 2024-03-01", first.Date)
	}
	last := cells[len(cells)-1]
	if last.Date.Day() != 31 {
		t.Errorf("last day = %d, want 31", last.Date.Day())
	}
}

// TestMonthCells_PlaceholderCount は月初の曜日とプレースホルダ数が一致することを検証する。
func TestMonthCells_PlaceholderCount(t *testing.T) {
	tests := []struct {
		name         string
		ref          time.Time
		placeholders int
		days         int
	}{
		{
			// 2024年1月1日は月曜
			name:         "月曜始まりはプレースホルダなし",
			ref:          time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			placeholders: 0,
			days:         31,
		},
		{
			// 2023年10月1日は日曜
			name:         "日曜始まりはプレースホルダ6個",
			ref:          time.Date(2023, 10, 20, 0, 0, 0, 0, time.UTC),
			placeholders: 6,
			days:         31,
		},
		{
			// 2024年2月はうるう年で29日、2月1日は木曜
			name:         "うるう年2月",
			ref:          time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
			placeholders: 3,
			days:         29,
		},
		{
			// 2023年2月は平年で28日、2月1日は水曜
			name:         "平年2月",
			ref:          time.Date(2023, 2, 5, 0, 0, 0, 0, time.UTC),
			placeholders: 2,
			days:         28,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := MonthCells(tt.ref, 0)

			got := 0
			for _, c := range cells {
				if c.Placeholder {
					got++
				} else {
					break
				}
			}
			if got != tt.placeholders {
				t.Errorf("placeholders = %d, want %d", got, tt.placeholders)
			}
			if len(cells)-got != tt.days {
				t.Errorf("real days = %d, want %d", len(cells)-got, tt.days)
			}
		})
	}
}

// TestMonthCells_Offset は月オフセットの年跨ぎが両方向で正しいことを検証する。
func TestMonthCells_Offset(t *testing.T) {
	ref := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		offset int
		year   int
		month  time.Month
	}{
		{"前月は前年12月", -1, 2023, time.December},
		{"13ヶ月前", -13, 2022, time.December},
		{"翌月", 1, 2024, time.February},
		{"12ヶ月後は翌年1月", 12, 2025, time.January},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := MonthCells(ref, tt.offset)

			var first time.Time
			for _, c := range cells {
				if !c.Placeholder {
					first = c.Date
					break
				}
			}
			if first.Year() != tt.year || first.Month() != tt.month {
				t.Errorf("first day = %v, want %d-%d", first, tt.year, tt.month)
			}
			if first.Day() != 1 {
				t.Errorf("first day of month = %d, want 1", first.Day())
			}
		})
	}
}

// TestMonthCells_EndOfMonthReference は月末基準日でも正規化で月がずれないことを検証する。
// 1月31日基準でoffset=1の場合、2月31日→3月へ溢れずに2月のグリッドを返す。
func TestMonthCells_EndOfMonthReference(t *testing.T) {
	ref := time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)

	cells := MonthCells(ref, 1)

	var first time.Time
	for _, c := range cells {
		if !c.Placeholder {
			first = c.Date
			break
		}
	}
	if first.Month() != time.February || first.Year() != 2024 {
		t.Errorf("first day = %v, want 2024-02-01", first)
	}
}

// TestMonthCells_AscendingOrder は実日セルが昇順かつ連続であることを検証する。
func TestMonthCells_AscendingOrder(t *testing.T) {
	cells := MonthCells(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 0)

	var prev time.Time
	for _, c := range cells {
		if c.Placeholder {
			continue
		}
		if !prev.IsZero() && !c.Date.Equal(prev.AddDate(0, 0, 1)) {
			t.Fatalf("dates not consecutive: %v follows %v", c.Date, prev)
		}
		prev = c.Date
	}
}

// TestStartOfDay は時刻成分の切り捨てを検証する。
func TestStartOfDay(t *testing.T) {
	got := StartOfDay(time.Date(2024, 5, 3, 18, 30, 45, 123, time.UTC))
	want := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}

// TestSameDay は暦日比較を検証する。
func TestSameDay(t *testing.T) {
	a := time.Date(2024, 5, 3, 0, 0, 1, 0, time.UTC)
	b := time.Date(2024, 5, 3, 23, 59, 59, 0, time.UTC)
	c := time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)

	if !SameDay(a, b) {
		t.Error("SameDay(a, b) = false, want true")
	}
	if SameDay(b, c) {
		t.Error("SameDay(b, c) = true, want false")
	}
}
