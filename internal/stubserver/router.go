// Package stubserver es un backend falso en memoria que respeta el contrato
// HTTP de /auth y /chat. Sirve a los tests y a cmd/stub_api.
package stubserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	JWTSecret  string
	AccessTTL  time.Duration
	BcryptCost int
	Responder  Responder
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(logger *zap.Logger, opts Options) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.JWTSecret == "" {
		opts.JWTSecret = "stub-secret"
	}
	if opts.Responder == nil {
		opts.Responder = EchoResponder
	}

	store := newMemoryStore(opts.BcryptCost)
	tokens := newTokenIssuer(opts.JWTSecret, opts.AccessTTL)
	authH := &authHandler{logger: logger, store: store, tokens: tokens}
	chatH := &chatHandler{logger: logger, store: store, responder: opts.Responder}

	r := gin.New()
	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	auth := r.Group("/auth")
	auth.POST("/register", authH.register)
	auth.POST("/login", authH.login)

	chat := r.Group("/chat", bearerAuthMiddleware(tokens))
	chat.POST("/", chatH.sendMessage)
	chat.GET("/history", chatH.history)
	chat.DELETE("/history/clear", chatH.clearHistory)
	chat.GET("/tasks", chatH.pendingTasks)
	chat.GET("/tasks/history", chatH.completedTasks)
	chat.POST("/tasks", chatH.createTask)
	chat.PUT("/tasks/:id", chatH.updateTask)
	chat.PUT("/tasks/:id/done", chatH.markDone)

	return r
}
