// Package dashboard mantiene el estado en memoria de la vista principal:
// transcript del chat y las dos particiones de tareas.
package dashboard

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"assistant-client/internal/apiclient"
	"assistant-client/internal/domain"
)

const (
	Greeting     = "Hello! How can I assist you today?"
	SendErrorMsg = "Sorry, I encountered an error. Please try again."
)

// ChatAPI es el subconjunto de service.ChatService que usa el dashboard.
type ChatAPI interface {
	SendMessage(ctx context.Context, text string) (string, error)
	GetHistory(ctx context.Context) ([]domain.ChatMessage, error)
	ClearHistory(ctx context.Context) error
	GetTasks(ctx context.Context) ([]domain.Task, error)
	GetTaskHistory(ctx context.Context) ([]domain.Task, error)
	CreateTask(ctx context.Context, content, dueDate string) (*apiclient.Response, error)
	UpdateTask(ctx context.Context, id domain.TaskID, fields domain.TaskFields) (*apiclient.Response, error)
	MarkDone(ctx context.Context, id domain.TaskID) (*apiclient.Response, error)
}

// Identity resuelve el email del usuario actual.
type Identity interface {
	Subject() string
}

type Dashboard struct {
	chat     ChatAPI
	identity Identity
	logger   *zap.Logger

	mu        sync.Mutex
	messages  []domain.ChatMessage
	pending   []domain.Task
	completed []domain.Task
	loading   bool
}

func New(chat ChatAPI, identity Identity, logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{chat: chat, identity: identity, logger: logger}
}

// CurrentUser devuelve el email del token, o "" si no hay sesion.
func (d *Dashboard) CurrentUser() string {
	if d.identity == nil {
		return ""
	}
	return d.identity.Subject()
}

// Load trae el historial y las tareas. Sin historial se muestra el saludo.
func (d *Dashboard) Load(ctx context.Context) error {
	history, err := d.chat.GetHistory(ctx)
	if err != nil {
		d.logger.Warn("failed to load history", zap.Error(err))
		d.resetTranscript()
		return err
	}
	d.mu.Lock()
	if len(history) > 0 {
		d.messages = history
	} else {
		d.messages = []domain.ChatMessage{domain.AssistantMessage(Greeting)}
	}
	d.mu.Unlock()
	return d.RefreshTasks(ctx)
}

// RefreshTasks reemplaza ambas listas con lo que devuelve el backend.
func (d *Dashboard) RefreshTasks(ctx context.Context) error {
	var pending, completed []domain.Task
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pending, err = d.chat.GetTasks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		completed, err = d.chat.GetTaskHistory(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		d.logger.Warn("failed to fetch tasks", zap.Error(err))
		return err
	}
	d.mu.Lock()
	d.pending = pending
	d.completed = completed
	d.mu.Unlock()
	return nil
}

// Send agrega el mensaje del usuario y la respuesta del asistente. Si el envio
// falla se agrega un unico mensaje de error; no se reintenta. Devuelve false
// cuando el input se ignora (vacio o con otro envio en curso).
func (d *Dashboard) Send(ctx context.Context, text string) (bool, error) {
	d.mu.Lock()
	if strings.TrimSpace(text) == "" || d.loading {
		d.mu.Unlock()
		return false, nil
	}
	d.messages = append(d.messages, domain.UserMessage(text))
	d.loading = true
	d.mu.Unlock()

	reply, err := d.chat.SendMessage(ctx, text)

	d.mu.Lock()
	d.loading = false
	if err != nil {
		d.messages = append(d.messages, domain.AssistantMessage(SendErrorMsg))
		d.mu.Unlock()
		d.logger.Warn("error sending message", zap.Error(err))
		return true, err
	}
	d.messages = append(d.messages, domain.AssistantMessage(reply))
	d.mu.Unlock()

	// El asistente puede crear tareas a partir del mensaje; un fallo del
	// refresh ya queda logueado y no invalida la respuesta.
	_ = d.RefreshTasks(ctx)
	return true, nil
}

// SaveTask crea la tarea si id es vacio; si no, la edita.
func (d *Dashboard) SaveTask(ctx context.Context, id domain.TaskID, fields domain.TaskFields) error {
	var err error
	if id == "" {
		_, err = d.chat.CreateTask(ctx, fields.Content, fields.DueDate)
	} else {
		_, err = d.chat.UpdateTask(ctx, id, fields)
	}
	if err != nil {
		d.logger.Warn("failed to save task", zap.Error(err))
		return err
	}
	return d.RefreshTasks(ctx)
}

func (d *Dashboard) MarkDone(ctx context.Context, id domain.TaskID) error {
	if _, err := d.chat.MarkDone(ctx, id); err != nil {
		d.logger.Warn("failed to mark task as done", zap.Error(err))
		return err
	}
	return d.RefreshTasks(ctx)
}

// ClearChat borra el historial remoto y vuelve al saludo.
func (d *Dashboard) ClearChat(ctx context.Context) error {
	if err := d.chat.ClearHistory(ctx); err != nil {
		d.logger.Warn("failed to clear chat history", zap.Error(err))
		return err
	}
	d.resetTranscript()
	return nil
}

func (d *Dashboard) resetTranscript() {
	d.mu.Lock()
	d.messages = []domain.ChatMessage{domain.AssistantMessage(Greeting)}
	d.mu.Unlock()
}

func (d *Dashboard) Messages() []domain.ChatMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.ChatMessage(nil), d.messages...)
}

func (d *Dashboard) PendingTasks() []domain.Task {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.Task(nil), d.pending...)
}

func (d *Dashboard) CompletedTasks() []domain.Task {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.Task(nil), d.completed...)
}

// FindPending busca una tarea pendiente por id en la cache local.
func (d *Dashboard) FindPending(id domain.TaskID) (domain.Task, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range d.pending {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

func (d *Dashboard) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}
