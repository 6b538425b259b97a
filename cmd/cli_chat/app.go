package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"assistant-client/internal/apiclient"
	"assistant-client/internal/dashboard"
	"assistant-client/internal/domain"
	"assistant-client/internal/service"
	"assistant-client/internal/session"
)

// cliApp es el loop de menus. loaded indica si el dashboard ya hizo su carga
// inicial para la sesion actual.
type cliApp struct {
	reader   *bufio.Reader
	out      io.Writer
	sessions *session.Store
	auth     *service.AuthService
	dash     *dashboard.Dashboard
	loaded   bool
}

func (a *cliApp) run(ctx context.Context) {
	for {
		switch a.sessions.State().(type) {
		case session.Anonymous:
			a.loaded = false
			if !a.authMenu(ctx) {
				return
			}
		case session.Authenticated:
			if !a.loaded {
				a.loaded = true
				if err := a.dash.Load(ctx); err != nil {
					a.printError(err, "Failed to load initial data")
				}
			}
			if !a.dashboardMenu(ctx) {
				return
			}
		}
	}
}

// authMenu devuelve false cuando el usuario pide salir.
func (a *cliApp) authMenu(ctx context.Context) bool {
	fmt.Fprintln(a.out, "\n===== Assistant =====")
	fmt.Fprintln(a.out, "[1] Iniciar sesion")
	fmt.Fprintln(a.out, "[2] Crear cuenta")
	fmt.Fprintln(a.out, "[3] Salir")
	fmt.Fprint(a.out, "Selecciona una opcion: ")

	switch a.readLine() {
	case "1":
		email := a.prompt("Email: ")
		password := a.prompt("Password: ")
		if _, err := a.auth.SignIn(ctx, email, password); err != nil {
			fmt.Fprintln(a.out, service.UserMessage(err, "Login failed"))
		}
	case "2":
		email := a.prompt("Email: ")
		password := a.prompt("Password: ")
		if _, err := a.auth.Register(ctx, email, password); err != nil {
			fmt.Fprintln(a.out, service.UserMessage(err, "Registration failed"))
			return true
		}
		fmt.Fprintln(a.out, "Registration successful! You can now log in.")
	case "3", "":
		return false
	default:
		fmt.Fprintln(a.out, "Opcion invalida.")
	}
	return true
}

func (a *cliApp) dashboardMenu(ctx context.Context) bool {
	user := a.dash.CurrentUser()
	if user == "" {
		user = "Loading..."
	}
	fmt.Fprintf(a.out, "\n--- %s ---\n", user)
	fmt.Fprintln(a.out, "[1] Chatear")
	fmt.Fprintln(a.out, "[2] Ver tareas")
	fmt.Fprintln(a.out, "[3] Nueva tarea")
	fmt.Fprintln(a.out, "[4] Editar tarea")
	fmt.Fprintln(a.out, "[5] Completar tarea")
	fmt.Fprintln(a.out, "[6] Borrar historial")
	fmt.Fprintln(a.out, "[7] Cerrar sesion")
	fmt.Fprintln(a.out, "[8] Salir")
	fmt.Fprint(a.out, "Selecciona una opcion: ")

	switch a.readLine() {
	case "1":
		a.chat(ctx)
	case "2":
		if err := a.dash.RefreshTasks(ctx); err != nil {
			a.printError(err, "Failed to fetch tasks")
		}
		a.printTasks()
	case "3":
		fields := a.readTaskFields(domain.TaskFields{})
		if err := a.dash.SaveTask(ctx, "", fields); err != nil {
			a.printError(err, "Failed to save task")
		}
	case "4":
		id := domain.TaskID(a.prompt("ID de la tarea: "))
		current, ok := a.dash.FindPending(id)
		if !ok {
			fmt.Fprintln(a.out, "No hay una tarea pendiente con ese ID.")
			return true
		}
		if err := a.dash.SaveTask(ctx, id, a.readTaskFields(domain.TaskFields{Content: current.Content, DueDate: current.DueDate})); err != nil {
			a.printError(err, "Failed to save task")
		}
	case "5":
		id := domain.TaskID(a.prompt("ID de la tarea: "))
		if err := a.dash.MarkDone(ctx, id); err != nil {
			a.printError(err, "Failed to mark task as done")
		}
	case "6":
		if !strings.EqualFold(a.prompt("Are you sure you want to delete your entire chat history? [s/N]: "), "s") {
			return true
		}
		if err := a.dash.ClearChat(ctx); err != nil {
			a.printError(err, "Failed to clear chat history")
		}
	case "7":
		if err := a.auth.SignOut(); err != nil {
			a.printError(err, "Failed to sign out")
		}
		a.loaded = false
	case "8", "":
		return false
	default:
		fmt.Fprintln(a.out, "Opcion invalida.")
	}
	return true
}

func (a *cliApp) chat(ctx context.Context) {
	for _, msg := range a.dash.Messages() {
		a.printMessage(msg)
	}
	fmt.Fprintln(a.out, "---- Modo Chat (escribe 'salir' para terminar chat) ----")
	for {
		fmt.Fprint(a.out, "Tu > ")
		text, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "salir") || strings.EqualFold(text, "exit") {
			return
		}

		before := len(a.dash.Messages())
		pending := apiclient.Async(ctx, func(ctx context.Context) (bool, error) {
			return a.dash.Send(ctx, text)
		})
		fmt.Fprintln(a.out, "assistant > Typing...")
		sent, err := apiclient.Await(ctx, pending).Unwrap()
		if !sent {
			continue
		}
		if apiclient.IsUnauthorized(err) {
			fmt.Fprintln(a.out, "(la sesion fue rechazada; cierra sesion y vuelve a entrar)")
		}
		msgs := a.dash.Messages()
		// El mensaje del usuario ya esta en pantalla.
		for _, msg := range msgs[min(before+1, len(msgs)):] {
			a.printMessage(msg)
		}
	}
}

func (a *cliApp) printMessage(msg domain.ChatMessage) {
	if msg.Sender == domain.SenderUser {
		fmt.Fprintf(a.out, "Tu > %s\n", msg.Text)
		return
	}
	fmt.Fprintf(a.out, "assistant > %s\n", msg.Text)
}

func (a *cliApp) printTasks() {
	pending := a.dash.PendingTasks()
	fmt.Fprintf(a.out, "Upcoming Tasks (%d)\n", len(pending))
	if len(pending) == 0 {
		fmt.Fprintln(a.out, "  No pending tasks.")
	}
	for _, t := range pending {
		fmt.Fprintf(a.out, "  [%s] %s (%s)\n", t.ID, t.Content, t.DueDate)
	}

	completed := a.dash.CompletedTasks()
	fmt.Fprintln(a.out, "Completed Tasks")
	if len(completed) == 0 {
		fmt.Fprintln(a.out, "  No completed tasks yet.")
	}
	for _, t := range completed {
		fmt.Fprintf(a.out, "  [%s] %s\n", t.ID, t.Content)
	}
}

func (a *cliApp) readTaskFields(current domain.TaskFields) domain.TaskFields {
	content := a.readDefault("Tarea", current.Content)
	dueDate := a.readDefault("Vencimiento (ej: Tomorrow at 5pm)", current.DueDate)
	return domain.TaskFields{Content: content, DueDate: dueDate}
}

func (a *cliApp) printError(err error, fallback string) {
	fmt.Fprintln(a.out, service.UserMessage(err, fallback))
	if apiclient.IsUnauthorized(err) {
		fmt.Fprintln(a.out, "(la sesion fue rechazada; cierra sesion y vuelve a entrar)")
	}
}

func (a *cliApp) readDefault(label, def string) string {
	if def != "" {
		label = fmt.Sprintf("%s [%s]", label, def)
	}
	v := a.prompt(label + ": ")
	if v == "" {
		return def
	}
	return v
}

func (a *cliApp) prompt(label string) string {
	fmt.Fprint(a.out, label)
	return a.readLine()
}

func (a *cliApp) readLine() string {
	line, _ := a.reader.ReadString('\n')
	return strings.TrimSpace(line)
}
