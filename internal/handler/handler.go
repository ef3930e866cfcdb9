package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-portal/internal/domain/entity"
	"github.com/yourusername/exam-portal/internal/handler/dto"
	"github.com/yourusername/exam-portal/internal/middleware"
	apperrors "github.com/yourusername/exam-portal/internal/pkg/errors"
	"github.com/yourusername/exam-portal/internal/service"
	"github.com/yourusername/exam-portal/internal/view"
)

// viewBuilder строит модель экрана для ответа клиенту
type viewBuilder struct {
	examService *service.ExamService
}

func (b viewBuilder) build(state *entity.AppState) view.Model {
	return view.Build(state, b.examService.VisibleTests(state), b.examService.PassThreshold())
}

// stateFromContext достает состояние сессии; без него запрос не должен был дойти до обработчика
func stateFromContext(c *gin.Context) (*entity.AppState, bool) {
	state, ok := middleware.StateFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Please sign in", ErrorType: "session_missing"})
		return nil, false
	}
	return state, true
}

// handleError переводит ошибки сервисов в HTTP-ответ. model добавляется в ответ,
// если клиенту нужно перерисовать экран (например, после неудачной загрузки теста).
func handleError(c *gin.Context, err error, model *view.Model) {
	resp := dto.ErrorResponse{Error: service.UserMessage(err), View: model}

	var status int
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status, resp.ErrorType = http.StatusBadRequest, "validation"
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, resp.ErrorType = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperrors.ErrForbidden):
		status, resp.ErrorType = http.StatusForbidden, "forbidden"
	case errors.Is(err, apperrors.ErrNotFound):
		status, resp.ErrorType = http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrUpstream):
		status, resp.ErrorType = http.StatusBadGateway, "upstream"
	default:
		log.Printf("ERROR: Internal server error in handler %s: %v", c.FullPath(), err)
		status, resp.ErrorType = http.StatusInternalServerError, "internal"
		resp.Error = "Internal server error"
	}
	c.JSON(status, resp)
}
