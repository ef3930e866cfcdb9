package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-portal/internal/domain/entity"
	"github.com/yourusername/exam-portal/internal/handler/dto"
	"github.com/yourusername/exam-portal/internal/service"
)

// ExamHandler обрабатывает выбор и прохождение теста
type ExamHandler struct {
	examService *service.ExamService
	views       viewBuilder
}

// NewExamHandler создает новый обработчик экзамена
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{
		examService: examService,
		views:       viewBuilder{examService: examService},
	}
}

// GetView возвращает модель текущего экрана
// GET /api/view
func (h *ExamHandler) GetView(c *gin.Context) {
	state, ok := stateFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ViewResponse{View: h.views.build(state)})
}

// ListTests возвращает тесты, доступные пользователю
// GET /api/tests
func (h *ExamHandler) ListTests(c *gin.Context) {
	state, ok := stateFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"tests": dto.NewTestResponses(h.examService.VisibleTests(state))})
}

// StartTest загружает и перемешивает вопросы теста
// POST /api/tests/:sheet/start
func (h *ExamHandler) StartTest(c *gin.Context) {
	state, ok := stateFromContext(c)
	if !ok {
		return
	}

	if _, err := h.examService.LoadTest(c.Request.Context(), state, c.Param("sheet")); err != nil {
		model := h.views.build(state)
		handleError(c, err, &model)
		return
	}
	c.JSON(http.StatusOK, dto.ViewResponse{View: h.views.build(state)})
}

// Submit проверяет ответы и возвращает экран результата
// POST /api/exam/submit
func (h *ExamHandler) Submit(c *gin.Context) {
	state, ok := stateFromContext(c)
	if !ok {
		return
	}

	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body", ErrorType: "validation"})
		return
	}

	result, err := h.examService.Submit(c.Request.Context(), state, req.Answers)
	if err != nil {
		handleError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, dto.ViewResponse{View: h.views.build(state), Result: result})
}

// BackToTests возвращает к выбору теста или в панель администратора
// POST /api/exam/back
func (h *ExamHandler) BackToTests(c *gin.Context) {
	h.transition(c, h.examService.BackToTests)
}

// AdminTakeTests включает режим прохождения тестов для администратора
// POST /api/admin/take-tests
func (h *ExamHandler) AdminTakeTests(c *gin.Context) {
	h.transition(c, h.examService.AdminTakeTests)
}

// AdminPanel возвращает администратора в панель
// POST /api/admin/panel
func (h *ExamHandler) AdminPanel(c *gin.Context) {
	h.transition(c, h.examService.AdminPanel)
}

func (h *ExamHandler) transition(c *gin.Context, apply func(*entity.AppState) error) {
	state, ok := stateFromContext(c)
	if !ok {
		return
	}
	if err := apply(state); err != nil {
		handleError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, dto.ViewResponse{View: h.views.build(state)})
}
