package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sahdilber/moodlog/internal/calendar"
	"github.com/sahdilber/moodlog/internal/goal"
	"github.com/sahdilber/moodlog/internal/middleware"
	"github.com/sahdilber/moodlog/internal/model"
)

// GoalServiceInterface はムード目標ハンドラーが必要とするサービスインターフェース。
type GoalServiceInterface interface {
	// CreateOrReplace は目標を作成し、進捗付きで返す。
	// 同一IDが既に存在する場合は全置換する。
	CreateOrReplace(ctx context.Context, userID string, input goal.CreateGoalInput) (*goal.GoalWithProgress, error)
	List(ctx context.Context, userID string) ([]*goal.GoalWithProgress, error)
	Get(ctx context.Context, userID, id string) (*goal.GoalWithProgress, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteBatch(ctx context.Context, userID string, ids []string) error
	// RecordCompletionsForDate は指定された各目標にcompletedAtの暦日の達成記録を追加する。
	RecordCompletionsForDate(ctx context.Context, userID string, goalIDs []string, completedAt time.Time) error
}

// GoalHandler はムード目標のHTTPハンドラー。
type GoalHandler struct {
	service GoalServiceInterface
}

// NewGoalHandler はGoalHandlerを生成する。
func NewGoalHandler(service GoalServiceInterface) *GoalHandler {
	return &GoalHandler{
		service: service,
	}
}

// createGoalRequest は目標作成リクエストのボディ。
type createGoalRequest struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Emoji       string `json:"emoji"`
	TargetCount *int   `json:"target_count,omitempty"`
}

// recordCompletionsRequest は達成記録リクエストのボディ。
// dateを省略した場合は現在日時の暦日に記録する。
type recordCompletionsRequest struct {
	GoalIDs []string `json:"goal_ids"`
	Date    string   `json:"date,omitempty"`
}

// goalResponse はムード目標のAPIレスポンス。進捗導出値を含む。
type goalResponse struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Emoji          string   `json:"emoji"`
	TargetCount    int      `json:"target_count"`
	CreatedAt      string   `json:"created_at"`
	CompletedDates []string `json:"completed_dates"`
	UniqueDays     int      `json:"unique_days"`
	CompletionRate float64  `json:"completion_rate"`
	IsCompleted    bool     `json:"is_completed"`
	Streak         int      `json:"streak"`
}

// CreateGoal は目標の作成・置換を処理する。
// POST /api/goals
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	created, err := h.service.CreateOrReplace(r.Context(), userID, goal.CreateGoalInput{
		ID:          req.ID,
		Title:       req.Title,
		Emoji:       req.Emoji,
		TargetCount: req.TargetCount,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toGoalResponse(created.Goal, created.Progress))
}

// ListGoals は目標の一覧を進捗付きで返す。
// GET /api/goals
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	goals, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		responses = append(responses, toGoalResponse(g.Goal, g.Progress))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// GetGoal は目標を進捗付きで返す。
// GET /api/goals/{id}
func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	goalID := chi.URLParam(r, "id")

	g, err := h.service.Get(r.Context(), userID, goalID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toGoalResponse(g.Goal, g.Progress))
}

// DeleteGoal は目標の削除を処理する。
// DELETE /api/goals/{id}
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	goalID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, goalID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BulkDeleteGoals は目標の一括削除を処理する。
// POST /api/goals/bulk-delete
func (h *GoalHandler) BulkDeleteGoals(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if err := h.service.DeleteBatch(r.Context(), userID, req.IDs); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RecordCompletions は複数目標への達成記録を処理する。
// POST /api/goals/completions
func (h *GoalHandler) RecordCompletions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req recordCompletionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	completedAt := time.Now()
	if req.Date != "" {
		parsed, parseErr := parseDateParam(req.Date)
		if parseErr != nil {
			handleServiceError(w, parseErr)
			return
		}
		completedAt = parsed
	}

	if err := h.service.RecordCompletionsForDate(r.Context(), userID, req.GoalIDs, completedAt); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetupGoalRoutes はムード目標関連のルーティングを設定したchi.Routerを返す。
func SetupGoalRoutes(service GoalServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewGoalHandler(service)

	r.Route("/api/goals", func(r chi.Router) {
		r.Post("/", h.CreateGoal)
		r.Get("/", h.ListGoals)
		r.Post("/bulk-delete", h.BulkDeleteGoals)
		r.Post("/completions", h.RecordCompletions)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetGoal)
			r.Delete("/", h.DeleteGoal)
		})
	})

	return r
}

// toGoalResponse はmodel.MoodGoalと進捗からAPIレスポンスに変換する。
// 達成記録は暦日キーに正規化して返す。
func toGoalResponse(g *model.MoodGoal, p goal.Progress) goalResponse {
	dates := make([]string, 0, len(g.CompletedDates))
	for _, d := range g.CompletedDates {
		dates = append(dates, calendar.DayKey(d))
	}
	return goalResponse{
		ID:             g.ID,
		Title:          g.Title,
		Emoji:          g.Emoji,
		TargetCount:    g.TargetCount,
		CreatedAt:      g.CreatedAt.Format(time.RFC3339),
		CompletedDates: dates,
		UniqueDays:     p.UniqueDays,
		CompletionRate: p.CompletionRate,
		IsCompleted:    p.IsCompleted,
		Streak:         p.Streak,
	}
}
