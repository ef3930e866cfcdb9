package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-portal/internal/handler/dto"
	"github.com/yourusername/exam-portal/internal/middleware"
	"github.com/yourusername/exam-portal/internal/service"
	"github.com/yourusername/exam-portal/internal/view"
)

// CookieConfig - параметры cookie сессии
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// AuthHandler обрабатывает вход и выход
type AuthHandler struct {
	authService *service.AuthService
	sessions    *middleware.SessionMiddleware
	cookie      CookieConfig
	views       viewBuilder
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService, examService *service.ExamService, sessions *middleware.SessionMiddleware, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		cookie:      cookie,
		views:       viewBuilder{examService: examService},
	}
}

// Login проверяет учетные данные и открывает новую сессию
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body", ErrorType: "validation"})
		return
	}

	ctx := c.Request.Context()
	state, err := h.authService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		handleError(c, err, nil)
		return
	}

	// Старая сессия этого браузера больше не нужна
	if oldID, err := c.Cookie(h.cookie.Name); err == nil && oldID != "" {
		if _, err := h.sessions.Destroy(ctx, oldID); err != nil {
			log.Printf("[AuthHandler] Не удалось удалить старую сессию: %v", err)
		}
	}

	sessionID, err := h.sessions.Create(ctx, state)
	if err != nil {
		log.Printf("[AuthHandler] Ошибка сохранения сессии: %v", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error", ErrorType: "internal"})
		return
	}

	h.setCookie(c, sessionID, int(h.cookie.TTL.Seconds()))
	c.JSON(http.StatusOK, dto.ViewResponse{View: h.views.build(state)})
}

// Logout закрывает сессию. Работает и для истекшей сессии, чтобы очистить cookie.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(h.cookie.Name); err == nil && sessionID != "" {
		state, err := h.sessions.Destroy(c.Request.Context(), sessionID)
		if err != nil {
			log.Printf("[AuthHandler] Ошибка удаления сессии: %v", err)
		}
		h.authService.Logout(state)
	}

	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, dto.ViewResponse{View: view.Build(nil, nil, 0)})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
