package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"assistant-client/internal/domain"
	"assistant-client/internal/service"
	"assistant-client/internal/session"
)

type stepResult struct {
	Name string
	Err  error
}

var errSkipped = errors.New("skipped after earlier failure")

// runScenario recorre register, login, alta de tarea y completado. Corta en el
// primer fallo y marca el resto como omitido.
func runScenario(ctx context.Context, authSvc *service.AuthService, chatSvc *service.ChatService, sessions *session.Store, email, password string) []stepResult {
	var created domain.Task
	const content = "Buy milk"

	steps := []struct {
		name string
		run  func() error
	}{
		{"register", func() error {
			_, err := authSvc.Register(ctx, email, password)
			return err
		}},
		{"login stores session", func() error {
			if _, err := authSvc.SignIn(ctx, email, password); err != nil {
				return err
			}
			if _, ok := sessions.State().(session.Authenticated); !ok {
				return errors.New("session not stored after login")
			}
			return nil
		}},
		{"create task", func() error {
			if _, err := chatSvc.CreateTask(ctx, content, "Tomorrow"); err != nil {
				return err
			}
			pending, err := chatSvc.GetTasks(ctx)
			if err != nil {
				return err
			}
			for _, t := range pending {
				if t.Content == content {
					created = t
					return nil
				}
			}
			return fmt.Errorf("task %q not in pending list", content)
		}},
		{"mark done", func() error {
			if _, err := chatSvc.MarkDone(ctx, created.ID); err != nil {
				return err
			}
			pending, err := chatSvc.GetTasks(ctx)
			if err != nil {
				return err
			}
			for _, t := range pending {
				if t.ID == created.ID {
					return fmt.Errorf("task %s still pending", created.ID)
				}
			}
			completed, err := chatSvc.GetTaskHistory(ctx)
			if err != nil {
				return err
			}
			for _, t := range completed {
				if t.ID == created.ID {
					return nil
				}
			}
			return fmt.Errorf("task %s not in completed list", created.ID)
		}},
		{"chat reply", func() error {
			reply, err := chatSvc.SendMessage(ctx, "ping")
			if err != nil {
				return err
			}
			if strings.TrimSpace(reply) == "" {
				return errors.New("empty reply")
			}
			return nil
		}},
		{"logout", func() error {
			if err := authSvc.SignOut(); err != nil {
				return err
			}
			if _, ok := sessions.State().(session.Anonymous); !ok {
				return errors.New("session still present after logout")
			}
			return nil
		}},
	}

	results := make([]stepResult, 0, len(steps))
	failed := false
	for _, s := range steps {
		if failed {
			results = append(results, stepResult{Name: s.name, Err: errSkipped})
			continue
		}
		err := s.run()
		results = append(results, stepResult{Name: s.name, Err: err})
		failed = err != nil
	}
	return results
}
