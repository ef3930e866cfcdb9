package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-portal/internal/handler/dto"
	"github.com/yourusername/exam-portal/internal/service"
)

// ContextResultIndex - ключ индекса результата в контексте gin
const ContextResultIndex = "resultIndex"

// ResultHandler - вкладка результатов администратора
type ResultHandler struct {
	resultService *service.ResultService
}

// NewResultHandler создает новый обработчик результатов
func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

func filterFromQuery(c *gin.Context) service.ResultFilter {
	return service.ResultFilter{
		Username: c.Query("username"),
		Test:     c.Query("test"),
		Passed:   c.Query("passed"),
	}
}

// ListResults возвращает результаты с фильтрами, от новых к старым
// GET /api/admin/results?username=&test=&passed=YES|NO
func (h *ResultHandler) ListResults(c *gin.Context) {
	state, ok := stateFromContext(c)
	if !ok {
		return
	}

	rows, filters, err := h.resultService.ListResults(c.Request.Context(), state, filterFromQuery(c))
	if err != nil {
		handleError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, dto.NewResultListResponse(rows, filters))
}

// GetResultDetail возвращает ответы одной попытки
// GET /api/admin/results/:index
func (h *ResultHandler) GetResultDetail(c *gin.Context) {
	state, ok := stateFromContext(c)
	if !ok {
		return
	}

	detail, err := h.resultService.Detail(c.Request.Context(), state, c.GetInt(ContextResultIndex))
	if err != nil {
		handleError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, dto.NewResultDetailResponse(detail))
}

// ExportResults выгружает результаты в CSV или Excel
// GET /api/admin/results/export?format=csv|xlsx
func (h *ResultHandler) ExportResults(c *gin.Context) {
	state, ok := stateFromContext(c)
	if !ok {
		return
	}
	// Пустой ?format= означает CSV, как и отсутствие параметра
	format := strings.ToLower(strings.TrimSpace(c.Query("format")))
	if format == "" {
		format = "csv"
	}

	buf, err := h.resultService.ExportBuffer(c.Request.Context(), state, filterFromQuery(c), format)
	if err != nil {
		handleError(c, err, nil)
		return
	}

	filename := fmt.Sprintf("exam_results_%s.%s", time.Now().Format("2006-01-02"), format)
	contentType := "text/csv; charset=utf-8"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
