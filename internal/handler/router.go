package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-portal/internal/middleware"
)

// Routes - обработчики и middleware, из которых собирается API портала
type Routes struct {
	Auth     *AuthHandler
	Exam     *ExamHandler
	Results  *ResultHandler
	Sessions *middleware.SessionMiddleware
}

// Register настраивает маршруты API в группе api
func (r Routes) Register(api *gin.RouterGroup) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", r.Auth.Login)
		authGroup.POST("/logout", r.Auth.Logout)
	}

	authed := api.Group("", r.Sessions.RequireSession())
	{
		authed.GET("/view", r.Exam.GetView)
		authed.GET("/tests", r.Exam.ListTests)
		authed.POST("/tests/:sheet/start", r.Exam.StartTest)
		authed.POST("/exam/submit", r.Exam.Submit)
		authed.POST("/exam/back", r.Exam.BackToTests)

		admin := authed.Group("/admin", r.Sessions.AdminOnly())
		{
			admin.POST("/take-tests", r.Exam.AdminTakeTests)
			admin.POST("/panel", r.Exam.AdminPanel)
			admin.GET("/results", r.Results.ListResults)
			admin.GET("/results/export", r.Results.ExportResults)
			admin.GET("/results/:index",
				middleware.ExtractIndexParam("index", ContextResultIndex),
				r.Results.GetResultDetail)
		}
	}
}
