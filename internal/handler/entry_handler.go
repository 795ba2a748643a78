package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sahdilber/moodlog/internal/entry"
	"github.com/sahdilber/moodlog/internal/middleware"
	"github.com/sahdilber/moodlog/internal/model"
)

// EntryServiceInterface は気分記録ハンドラーが必要とするサービスインターフェース。
type EntryServiceInterface interface {
	// Create は気分記録を作成する。同一IDが既に存在する場合は置き換える。
	Create(ctx context.Context, userID string, input entry.CreateEntryInput) (*model.MoodEntry, error)
	// Update は既存の気分記録を部分更新する。
	Update(ctx context.Context, userID, id string, input entry.UpdateEntryInput) (*model.MoodEntry, error)
	List(ctx context.Context, userID string) ([]*model.MoodEntry, error)
	// ListForDay は指定した暦日に属する記録のみを返す。
	ListForDay(ctx context.Context, userID string, day time.Time) ([]*model.MoodEntry, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteBatch(ctx context.Context, userID string, ids []string) error
	// MoodStats は気分ごとの記録件数を集計する。
	MoodStats(ctx context.Context, userID string) ([]model.MoodStat, error)
}

// EntryHandler は気分記録のHTTPハンドラー。
type EntryHandler struct {
	service EntryServiceInterface
}

// NewEntryHandler はEntryHandlerを生成する。
func NewEntryHandler(service EntryServiceInterface) *EntryHandler {
	return &EntryHandler{
		service: service,
	}
}

// createEntryRequest は気分記録作成リクエストのボディ。
type createEntryRequest struct {
	ID      string   `json:"id,omitempty"`
	Mood    string   `json:"mood"`
	Note    string   `json:"note"`
	Date    string   `json:"date,omitempty"`
	GoalIDs []string `json:"goal_ids,omitempty"`
}

// updateEntryRequest は気分記録更新リクエストのボディ。
// nilのフィールドは変更しない。
type updateEntryRequest struct {
	Mood    *string  `json:"mood,omitempty"`
	Note    *string  `json:"note,omitempty"`
	Date    *string  `json:"date,omitempty"`
	GoalIDs []string `json:"goal_ids,omitempty"`
}

// bulkDeleteRequest は一括削除リクエストのボディ。
type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// entryResponse は気分記録のAPIレスポンス。
type entryResponse struct {
	ID        string   `json:"id"`
	Mood      string   `json:"mood"`
	Note      string   `json:"note"`
	Date      string   `json:"date"`
	GoalIDs   []string `json:"goal_ids"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// moodStatResponse は気分別集計のAPIレスポンス。
type moodStatResponse struct {
	Mood  string `json:"mood"`
	Count int    `json:"count"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// CreateEntry は気分記録の作成を処理する。
// POST /api/entries
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	input := entry.CreateEntryInput{
		ID:      req.ID,
		Mood:    req.Mood,
		Note:    req.Note,
		GoalIDs: req.GoalIDs,
	}

	if req.Date != "" {
		date, parseErr := parseDateParam(req.Date)
		if parseErr != nil {
			handleServiceError(w, parseErr)
			return
		}
		input.Date = &date
	}

	created, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toEntryResponse(created))
}

// ListEntries は気分記録の一覧を返す。
// GET /api/entries（?day=2006-01-02 で暦日フィルタ）
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var entries []*model.MoodEntry
	if dayParam := r.URL.Query().Get("day"); dayParam != "" {
		day, parseErr := parseDateParam(dayParam)
		if parseErr != nil {
			handleServiceError(w, parseErr)
			return
		}
		entries, err = h.service.ListForDay(r.Context(), userID, day)
	} else {
		entries, err = h.service.List(r.Context(), userID)
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, toEntryResponse(e))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// UpdateEntry は気分記録の部分更新を処理する。
// PATCH /api/entries/{id}
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	entryID := chi.URLParam(r, "id")

	var req updateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	input := entry.UpdateEntryInput{
		Mood:    req.Mood,
		Note:    req.Note,
		GoalIDs: req.GoalIDs,
	}

	if req.Date != nil {
		date, parseErr := parseDateParam(*req.Date)
		if parseErr != nil {
			handleServiceError(w, parseErr)
			return
		}
		input.Date = &date
	}

	updated, err := h.service.Update(r.Context(), userID, entryID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toEntryResponse(updated))
}

// DeleteEntry は気分記録の削除を処理する。
// DELETE /api/entries/{id}
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	entryID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, entryID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BulkDeleteEntries は気分記録の一括削除を処理する。
// POST /api/entries/bulk-delete
func (h *EntryHandler) BulkDeleteEntries(w http.ResponseWriter, r *http.Request) {
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

// MoodStats は気分別の記録件数を返す。
// GET /api/stats/moods
func (h *EntryHandler) MoodStats(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	stats, err := h.service.MoodStats(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]moodStatResponse, 0, len(stats))
	for _, s := range stats {
		responses = append(responses, moodStatResponse{Mood: s.Mood, Count: s.Count})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// SetupEntryRoutes は気分記録関連のルーティングを設定したchi.Routerを返す。
// writeMiddleware が nil でない場合、書き込み系エンドポイントに記録書き込み専用レート制限を適用する。
func SetupEntryRoutes(service EntryServiceInterface, writeMiddleware func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	h := NewEntryHandler(service)

	r.Route("/api/entries", func(r chi.Router) {
		if writeMiddleware != nil {
			r.With(writeMiddleware).Post("/", h.CreateEntry)
			r.With(writeMiddleware).Post("/bulk-delete", h.BulkDeleteEntries)
		} else {
			r.Post("/", h.CreateEntry)
			r.Post("/bulk-delete", h.BulkDeleteEntries)
		}

		r.Get("/", h.ListEntries)

		r.Route("/{id}", func(r chi.Router) {
			if writeMiddleware != nil {
				r.With(writeMiddleware).Patch("/", h.UpdateEntry)
				r.With(writeMiddleware).Delete("/", h.DeleteEntry)
			} else {
				r.Patch("/", h.UpdateEntry)
				r.Delete("/", h.DeleteEntry)
			}
		})
	})

	return r
}

// --- ヘルパー関数 ---

// dateParamLayouts はリクエストボディとクエリで受け付ける日付フォーマット。
var dateParamLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDateParam は日付文字列をパースする。
// RFC3339と暦日（2006-01-02）の両形式を受け付ける。
func parseDateParam(value string) (time.Time, error) {
	for _, layout := range dateParamLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, model.NewInvalidDateError(value)
}

// toEntryResponse はmodel.MoodEntryからAPIレスポンスに変換する。
func toEntryResponse(e *model.MoodEntry) entryResponse {
	goalIDs := e.GoalIDs
	if goalIDs == nil {
		goalIDs = []string{}
	}
	return entryResponse{
		ID:        e.ID,
		Mood:      e.Mood,
		Note:      e.Note,
		Date:      e.Date.Format(time.RFC3339),
		GoalIDs:   goalIDs,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// writeInvalidRequestBody はリクエストボディのデコード失敗レスポンスを書き込む。
func writeInvalidRequestBody(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの形式が正しくありません。",
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized, model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeEmailTaken:
		return http.StatusConflict
	case model.ErrCodeWeakPassword, model.ErrCodeInvalidEmail:
		return http.StatusBadRequest
	case model.ErrCodeMoodRequired, model.ErrCodeTitleRequired:
		return http.StatusBadRequest
	case model.ErrCodeInvalidTargetCount, model.ErrCodeInvalidDate, "INVALID_REQUEST":
		return http.StatusBadRequest
	case model.ErrCodeUserNotFound, model.ErrCodeEntryNotFound, model.ErrCodeGoalNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
