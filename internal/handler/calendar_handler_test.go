package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sahdilber/moodlog/internal/calendar"
	"github.com/sahdilber/moodlog/internal/model"
)

// mockCalendarService はCalendarServiceInterfaceのモック実装。
type mockCalendarService struct {
	monthGridFn func(ctx context.Context, userID string, offset int) (*calendar.MonthView, error)
}

func (m *mockCalendarService) MonthGrid(ctx context.Context, userID string, offset int) (*calendar.MonthView, error) {
	if m.monthGridFn != nil {
		return m.monthGridFn(ctx, userID, offset)
	}
	return nil, nil
}

func TestCalendarHandler_MonthGrid_Success(t *testing.T) {
	svc := &mockCalendarService{
		monthGridFn: func(ctx context.Context, userID string, offset int) (*calendar.MonthView, error) {
			if offset != 0 {
				t.Errorf("offset = %d, want 0", offset)
			}
			return &calendar.MonthView{
				Year:  2024,
				Month: time.March,
				Cells: []calendar.DayCell{
					{Placeholder: true},
					{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Entries: []*model.MoodEntry{
						{ID: "entry-1", Mood: "😀", Date: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
					}},
				},
			}, nil
		},
	}
	h := NewCalendarHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/calendar", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.MonthGrid(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result monthViewResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Year != 2024 || result.Month != 3 {
		t.Errorf("year/month = %d/%d, want 2024/3", result.Year, result.Month)
	}
	if len(result.Cells) != 2 {
		t.Fatalf("cells = %d, want 2", len(result.Cells))
	}
	// プレースホルダセルはdate=null
	if result.Cells[0].Date != nil {
		t.Errorf("placeholder date = %v, want nil", *result.Cells[0].Date)
	}
	if !result.Cells[0].Placeholder {
		t.Error("cells[0] should be a placeholder")
	}
	if result.Cells[1].Date == nil || *result.Cells[1].Date != "2024-03-01" {
		t.Errorf("cells[1].date = %v, want 2024-03-01", result.Cells[1].Date)
	}
	if len(result.Cells[1].Entries) != 1 {
		t.Errorf("cells[1].entries = %d, want 1", len(result.Cells[1].Entries))
	}
}

func TestCalendarHandler_MonthGrid_Offset(t *testing.T) {
	var gotOffset int
	svc := &mockCalendarService{
		monthGridFn: func(ctx context.Context, userID string, offset int) (*calendar.MonthView, error) {
			gotOffset = offset
			return &calendar.MonthView{Year: 2023, Month: time.December}, nil
		},
	}
	h := NewCalendarHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/calendar?offset=-3", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.MonthGrid(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotOffset != -3 {
		t.Errorf("offset = %d, want -3", gotOffset)
	}
}

func TestCalendarHandler_MonthGrid_InvalidOffset(t *testing.T) {
	h := NewCalendarHandler(&mockCalendarService{})

	req := httptest.NewRequest(http.MethodGet, "/api/calendar?offset=abc", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.MonthGrid(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCalendarHandler_MonthGrid_Unauthorized(t *testing.T) {
	h := NewCalendarHandler(&mockCalendarService{})

	req := httptest.NewRequest(http.MethodGet, "/api/calendar", nil)
	w := httptest.NewRecorder()

	h.MonthGrid(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// --- SetupCalendarRoutes テスト ---

// TestSetupCalendarRoutes_RoutesRequests はルーティング設定を通じて
// カレンダーエンドポイントに到達できることを検証する。
func TestSetupCalendarRoutes_RoutesRequests(t *testing.T) {
	svc := &mockCalendarService{
		monthGridFn: func(ctx context.Context, userID string, offset int) (*calendar.MonthView, error) {
			if offset != -2 {
				t.Errorf("offset = %d, want -2", offset)
			}
			return &calendar.MonthView{Year: 2024, Month: time.January}, nil
		},
	}
	router := SetupCalendarRoutes(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/calendar?offset=-2", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var result monthViewResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Year != 2024 || result.Month != 1 {
		t.Errorf("month = %d-%d, want 2024-1", result.Year, result.Month)
	}
}
