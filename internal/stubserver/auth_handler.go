package stubserver

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type authHandler struct {
	logger *zap.Logger
	store  *memoryStore
	tokens *tokenIssuer
}

// register maneja POST /auth/register (JSON).
func (h *authHandler) register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "body", "invalid JSON body")
		return
	}
	email := strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		validationError(c, "email", "value is not a valid email address")
		return
	}
	if req.Password == "" {
		validationError(c, "password", "field required")
		return
	}

	u, err := h.store.Register(email, req.Password)
	if errors.Is(err, errEmailTaken) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
		return
	}
	if err != nil {
		h.logger.Error("register failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not register user"})
		return
	}
	c.JSON(http.StatusCreated, u)
}

// login maneja POST /auth/login (form-encoded username/password).
func (h *authHandler) login(c *gin.Context) {
	if !strings.HasPrefix(c.ContentType(), "application/x-www-form-urlencoded") {
		validationError(c, "username", "field required")
		return
	}
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" {
		validationError(c, "username", "field required")
		return
	}
	if password == "" {
		validationError(c, "password", "field required")
		return
	}

	if err := h.store.Authenticate(username, password); err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect email or password"})
		return
	}
	pair, err := h.tokens.Issue(username)
	if err != nil {
		h.logger.Error("issue tokens failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not issue tokens"})
		return
	}
	c.JSON(http.StatusOK, pair)
}
