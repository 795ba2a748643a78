package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sahdilber/moodlog/internal/calendar"
	"github.com/sahdilber/moodlog/internal/middleware"
	"github.com/sahdilber/moodlog/internal/model"
)

// CalendarServiceInterface はカレンダーハンドラーが必要とするサービスインターフェース。
type CalendarServiceInterface interface {
	// MonthGrid は現在の月からoffsetヶ月ずらした月のカレンダービューを返す。
	MonthGrid(ctx context.Context, userID string, offset int) (*calendar.MonthView, error)
}

// CalendarHandler はカレンダービューのHTTPハンドラー。
type CalendarHandler struct {
	service CalendarServiceInterface
}

// NewCalendarHandler はCalendarHandlerを生成する。
func NewCalendarHandler(service CalendarServiceInterface) *CalendarHandler {
	return &CalendarHandler{
		service: service,
	}
}

// dayCellResponse は月グリッド1マスのAPIレスポンス。
// プレースホルダセルのdateはnull。
type dayCellResponse struct {
	Date        *string         `json:"date"`
	Placeholder bool            `json:"placeholder"`
	Entries     []entryResponse `json:"entries"`
}

// monthViewResponse はカレンダー1ヶ月分のAPIレスポンス。
type monthViewResponse struct {
	Year  int               `json:"year"`
	Month int               `json:"month"`
	Cells []dayCellResponse `json:"cells"`
}

// MonthGrid は月グリッドビューを返す。
// GET /api/calendar?offset=N（offset省略時は当月）
func (h *CalendarHandler) MonthGrid(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	offset := 0
	if offsetParam := r.URL.Query().Get("offset"); offsetParam != "" {
		parsed, parseErr := strconv.Atoi(offsetParam)
		if parseErr != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDateError(offsetParam))
			return
		}
		offset = parsed
	}

	view, err := h.service.MonthGrid(r.Context(), userID, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toMonthViewResponse(view))
}

// SetupCalendarRoutes はカレンダー関連のルーティングを設定したchi.Routerを返す。
func SetupCalendarRoutes(service CalendarServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewCalendarHandler(service)

	r.Get("/api/calendar", h.MonthGrid)

	return r
}

// toMonthViewResponse はcalendar.MonthViewからAPIレスポンスに変換する。
func toMonthViewResponse(view *calendar.MonthView) monthViewResponse {
	cells := make([]dayCellResponse, 0, len(view.Cells))
	for _, c := range view.Cells {
		cell := dayCellResponse{
			Placeholder: c.Placeholder,
			Entries:     []entryResponse{},
		}
		if !c.Placeholder {
			dayKey := calendar.DayKey(c.Date)
			cell.Date = &dayKey
		}
		for _, e := range c.Entries {
			cell.Entries = append(cell.Entries, toEntryResponse(e))
		}
		cells = append(cells, cell)
	}
	return monthViewResponse{
		Year:  view.Year,
		Month: int(view.Month),
		Cells: cells,
	}
}
