package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tradebridge/legalai/internal/common"
	"github.com/tradebridge/legalai/internal/config"
	"github.com/tradebridge/legalai/internal/httpapi/handlers"
	"github.com/tradebridge/legalai/internal/httpapi/middleware"
	"github.com/tradebridge/legalai/internal/models"
)

func NewRouter(h *handlers.Handler, cfg config.Config, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.GET("/ping", h.Ping)

	// registration + auth
	r.POST("/captcha", h.SendCaptcha)
	r.POST("/users", h.CreateUser)
	r.POST("/login", h.Login)

	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret))
	authGroup.GET("/me", h.Me)

	// Legal chat (JWT required)
	authGroup.POST("/chat/sessions", h.CreateChatSession)
	authGroup.GET("/chat/sessions", h.ListChatSessions)
	authGroup.POST("/chat/messages", h.SendChatMessage)
	authGroup.POST("/chat/messages/async", h.SendChatMessageAsync)
	authGroup.GET("/chat/jobs/:job_id", h.GetChatJob)
	authGroup.GET("/chat/sessions/:session_id/messages", h.GetChatHistory)
	authGroup.GET("/chat/sessions/:session_id/context", h.GetChatContext)

	// Admin surface
	adminGroup := authGroup.Group("/admin")
	adminGroup.Use(middleware.RequireRole(models.RoleAdmin))
	adminGroup.GET("/assistant-settings", h.GetAssistantSettings)
	adminGroup.PUT("/assistant-settings", h.UpdateAssistantSettings)

	return r
}
