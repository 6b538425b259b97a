package dashboard

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"assistant-client/internal/apiclient"
	"assistant-client/internal/domain"
	"assistant-client/internal/service"
	"assistant-client/internal/session"
	"assistant-client/internal/stubserver"
)

func newSignedInDashboard(t *testing.T, responder stubserver.Responder) *Dashboard {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(stubserver.NewRouter(nil, stubserver.Options{BcryptCost: bcrypt.MinCost, Responder: responder}))
	t.Cleanup(srv.Close)

	sessions := session.NewStore(session.NewMemoryStorage(), nil)
	client := apiclient.NewClient(srv.URL, sessions, 0, nil)
	auth := service.NewAuthService(client, sessions, nil)
	ctx := context.Background()
	_, err := auth.Register(ctx, "a@b.com", "pw")
	require.NoError(t, err)
	_, err = auth.SignIn(ctx, "a@b.com", "pw")
	require.NoError(t, err)

	return New(service.NewChatService(client), sessions, nil)
}

type failingChat struct {
	ChatAPI
	err error
}

func (f failingChat) GetHistory(context.Context) ([]domain.ChatMessage, error) {
	return nil, f.err
}

func (f failingChat) SendMessage(context.Context, string) (string, error) {
	return "", f.err
}

func TestLoad_EmptyHistoryShowsGreeting(t *testing.T) {
	d := newSignedInDashboard(t, nil)
	require.NoError(t, d.Load(context.Background()))

	assert.Equal(t, []domain.ChatMessage{domain.AssistantMessage(Greeting)}, d.Messages())
	assert.Empty(t, d.PendingTasks())
	assert.Empty(t, d.CompletedTasks())
	assert.Equal(t, "a@b.com", d.CurrentUser())
}

func TestLoad_HistoryFailureFallsBackToGreeting(t *testing.T) {
	d := New(failingChat{err: errors.New("down")}, nil, nil)
	assert.Error(t, d.Load(context.Background()))
	assert.Equal(t, []domain.ChatMessage{domain.AssistantMessage(Greeting)}, d.Messages())
	assert.Equal(t, "", d.CurrentUser())
}

func TestSend_AppendsInOrder(t *testing.T) {
	d := newSignedInDashboard(t, nil)
	ctx := context.Background()
	require.NoError(t, d.Load(ctx))

	sent, err := d.Send(ctx, "hola")
	require.NoError(t, err)
	assert.True(t, sent)

	assert.Equal(t, []domain.ChatMessage{
		domain.AssistantMessage(Greeting),
		domain.UserMessage("hola"),
		domain.AssistantMessage("You said: hola"),
	}, d.Messages())
	assert.False(t, d.Loading())
}

func TestSend_IgnoresBlankInput(t *testing.T) {
	d := newSignedInDashboard(t, nil)
	sent, err := d.Send(context.Background(), "   ")
	assert.NoError(t, err)
	assert.False(t, sent)
	assert.Empty(t, d.Messages())
}

func TestSend_FailureAppendsSingleErrorMessage(t *testing.T) {
	d := New(failingChat{err: errors.New("boom")}, nil, nil)
	sent, err := d.Send(context.Background(), "hola")
	assert.True(t, sent)
	assert.Error(t, err)
	assert.Equal(t, []domain.ChatMessage{
		domain.UserMessage("hola"),
		domain.AssistantMessage(SendErrorMsg),
	}, d.Messages())
}

func TestSend_RefreshesTasksCreatedByAssistant(t *testing.T) {
	d := newSignedInDashboard(t, func(context.Context, string, string) (string, error) {
		return "noted", nil
	})
	chat := d.chat.(*service.ChatService)
	ctx := context.Background()

	_, err := chat.CreateTask(ctx, "from assistant", "today")
	require.NoError(t, err)
	_, err = d.Send(ctx, "remind me")
	require.NoError(t, err)
	require.Len(t, d.PendingTasks(), 1)
	assert.Equal(t, "from assistant", d.PendingTasks()[0].Content)
}

func TestSaveTaskAndMarkDone(t *testing.T) {
	d := newSignedInDashboard(t, nil)
	ctx := context.Background()
	require.NoError(t, d.Load(ctx))

	require.NoError(t, d.SaveTask(ctx, "", domain.TaskFields{Content: "Buy milk", DueDate: "Tomorrow"}))
	pending := d.PendingTasks()
	require.Len(t, pending, 1)
	assert.Equal(t, "Buy milk", pending[0].Content)

	id := pending[0].ID
	task, ok := d.FindPending(id)
	require.True(t, ok)
	assert.Equal(t, "Tomorrow", task.DueDate)

	require.NoError(t, d.SaveTask(ctx, id, domain.TaskFields{Content: "Buy oat milk", DueDate: "Friday"}))
	assert.Equal(t, "Buy oat milk", d.PendingTasks()[0].Content)

	require.NoError(t, d.MarkDone(ctx, id))
	assert.Empty(t, d.PendingTasks())
	completed := d.CompletedTasks()
	require.Len(t, completed, 1)
	assert.Equal(t, id, completed[0].ID)
	_, ok = d.FindPending(id)
	assert.False(t, ok)
}

func TestClearChat_ResetsToGreeting(t *testing.T) {
	d := newSignedInDashboard(t, nil)
	ctx := context.Background()
	_, err := d.Send(ctx, "hola")
	require.NoError(t, err)

	require.NoError(t, d.ClearChat(ctx))
	assert.Equal(t, []domain.ChatMessage{domain.AssistantMessage(Greeting)}, d.Messages())

	require.NoError(t, d.Load(ctx))
	assert.Equal(t, []domain.ChatMessage{domain.AssistantMessage(Greeting)}, d.Messages())
}
