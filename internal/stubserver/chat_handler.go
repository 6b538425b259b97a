package stubserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"assistant-client/internal/domain"
)

// Responder genera la respuesta del asistente para un mensaje.
type Responder func(ctx context.Context, email, message string) (string, error)

// EchoResponder devuelve el mensaje recibido.
func EchoResponder(_ context.Context, _ string, message string) (string, error) {
	return "You said: " + message, nil
}

type chatHandler struct {
	logger    *zap.Logger
	store     *memoryStore
	responder Responder
}

// sendMessage maneja POST /chat/.
func (h *chatHandler) sendMessage(c *gin.Context) {
	var req struct {
		Message *string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == nil {
		validationError(c, "message", "field required")
		return
	}
	email := currentEmail(c)
	reply, err := h.responder(c.Request.Context(), email, *req.Message)
	if err != nil {
		h.logger.Error("responder failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "assistant unavailable"})
		return
	}
	h.store.AppendHistory(email, domain.UserMessage(*req.Message), domain.AssistantMessage(reply))
	c.JSON(http.StatusOK, gin.H{"response": reply})
}

func (h *chatHandler) history(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.History(currentEmail(c)))
}

func (h *chatHandler) clearHistory(c *gin.Context) {
	h.store.ClearHistory(currentEmail(c))
	c.JSON(http.StatusOK, gin.H{"message": "Chat history cleared"})
}

func (h *chatHandler) pendingTasks(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Tasks(currentEmail(c), false))
}

func (h *chatHandler) completedTasks(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Tasks(currentEmail(c), true))
}

func (h *chatHandler) createTask(c *gin.Context) {
	fields, ok := bindTaskFields(c)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, h.store.CreateTask(currentEmail(c), fields))
}

func (h *chatHandler) updateTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}
	fields, ok := bindTaskFields(c)
	if !ok {
		return
	}
	t, err := h.store.UpdateTask(currentEmail(c), id, fields)
	h.writeTask(c, t, err)
}

func (h *chatHandler) markDone(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}
	t, err := h.store.MarkDone(currentEmail(c), id)
	h.writeTask(c, t, err)
}

func (h *chatHandler) writeTask(c *gin.Context, t domain.Task, err error) {
	if errors.Is(err, errTaskNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
		return
	}
	if err != nil {
		h.logger.Error("task update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not update task"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func bindTaskFields(c *gin.Context) (domain.TaskFields, bool) {
	var fields domain.TaskFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		validationError(c, "body", "invalid JSON body")
		return fields, false
	}
	if fields.Content == "" {
		validationError(c, "content", "field required")
		return fields, false
	}
	return fields, true
}

func taskIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		validationError(c, "id", "value is not a valid integer")
		return 0, false
	}
	return id, true
}
