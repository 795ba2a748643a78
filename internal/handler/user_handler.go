package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sahdilber/moodlog/internal/middleware"
	"github.com/sahdilber/moodlog/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Withdraw はユーザーの退会処理を実行する。
	// 気分記録、ムード目標（達成記録含む）、セッション、ユーザー本体を一括削除する。
	Withdraw(ctx context.Context, userID string) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
	config  AuthHandlerConfig
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface, config AuthHandlerConfig) *UserHandler {
	return &UserHandler{
		service: service,
		config:  config,
	}
}

// Withdraw はユーザーの退会処理を実行する。
// DELETE /api/users/me
func (h *UserHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := h.service.Withdraw(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	// 退会後はセッションCookieも無効化する
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

// SetupUserRoutes はユーザー管理関連のルーティングを設定したchi.Routerを返す。
func SetupUserRoutes(service UserServiceInterface, config AuthHandlerConfig) http.Handler {
	r := chi.NewRouter()
	h := NewUserHandler(service, config)

	r.Route("/api/users", func(r chi.Router) {
		r.Delete("/me", h.Withdraw)
	})

	return r
}
