package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"assistant-client/internal/apiclient"
	"assistant-client/internal/domain"
)

// ChatService mapea cada operacion de /chat a una llamada autenticada.
type ChatService struct {
	client *apiclient.Client
}

func NewChatService(client *apiclient.Client) *ChatService {
	return &ChatService{client: client}
}

// SendMessage devuelve el texto de respuesta del asistente.
func (s *ChatService) SendMessage(ctx context.Context, text string) (string, error) {
	var out struct {
		Response *string `json:"response"`
	}
	err := s.client.DoJSON(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/chat/",
		JSON:   map[string]string{"message": text},
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Response == nil {
		return "", fmt.Errorf("%w: chat reply without response field", apiclient.ErrUnexpectedResponse)
	}
	return *out.Response, nil
}

func (s *ChatService) GetHistory(ctx context.Context) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := s.client.DoJSON(ctx, apiclient.Request{Method: http.MethodGet, Path: "/chat/history"}, &out)
	return out, err
}

func (s *ChatService) ClearHistory(ctx context.Context) error {
	_, err := s.client.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: "/chat/history/clear"})
	return err
}

// GetTasks lista las tareas pendientes.
func (s *ChatService) GetTasks(ctx context.Context) ([]domain.Task, error) {
	var out []domain.Task
	err := s.client.DoJSON(ctx, apiclient.Request{Method: http.MethodGet, Path: "/chat/tasks"}, &out)
	return out, err
}

// GetTaskHistory lista las tareas completadas.
func (s *ChatService) GetTaskHistory(ctx context.Context) ([]domain.Task, error) {
	var out []domain.Task
	err := s.client.DoJSON(ctx, apiclient.Request{Method: http.MethodGet, Path: "/chat/tasks/history"}, &out)
	return out, err
}

func (s *ChatService) CreateTask(ctx context.Context, content, dueDate string) (*apiclient.Response, error) {
	return s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/chat/tasks",
		JSON:   domain.TaskFields{Content: content, DueDate: dueDate},
	})
}

func (s *ChatService) UpdateTask(ctx context.Context, id domain.TaskID, fields domain.TaskFields) (*apiclient.Response, error) {
	return s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPut,
		Path:   taskPath(id),
		JSON:   fields,
	})
}

func (s *ChatService) MarkDone(ctx context.Context, id domain.TaskID) (*apiclient.Response, error) {
	return s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPut,
		Path:   taskPath(id) + "/done",
	})
}

func taskPath(id domain.TaskID) string {
	return "/chat/tasks/" + url.PathEscape(id.String())
}
