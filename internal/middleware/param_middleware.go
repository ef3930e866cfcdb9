package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExtractIndexParam создает middleware для извлечения неотрицательного индекса из URL.
// paramName - имя параметра в URL (например, "index").
// contextKey - ключ, под которым значение будет сохранено в контексте Gin.
func ExtractIndexParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		idx, err := strconv.Atoi(raw)
		if err != nil || idx < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", paramName)})
			return
		}
		c.Set(contextKey, idx)
		c.Next()
	}
}
