package stubserver

import (
	"errors"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"assistant-client/internal/domain"
)

var (
	errEmailTaken   = errors.New("email already registered")
	errBadLogin     = errors.New("incorrect email or password")
	errTaskNotFound = errors.New("task not found")
)

type user struct {
	id           string
	email        string
	passwordHash []byte
}

type task struct {
	id      int64
	owner   string
	content string
	dueDate string
	done    bool
}

func (t task) toDomain() domain.Task {
	return domain.Task{
		ID:      domain.TaskID(strconv.FormatInt(t.id, 10)),
		Content: t.content,
		DueDate: t.dueDate,
		Done:    t.done,
	}
}

// memoryStore guarda usuarios, historial y tareas del stub.
type memoryStore struct {
	mu         sync.Mutex
	bcryptCost int
	users      map[string]user
	history    map[string][]domain.ChatMessage
	tasks      []task
	nextTaskID int64
}

func newMemoryStore(bcryptCost int) *memoryStore {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &memoryStore{
		bcryptCost: bcryptCost,
		users:      make(map[string]user),
		history:    make(map[string][]domain.ChatMessage),
		nextTaskID: 1,
	}
}

func (s *memoryStore) Register(email, password string) (domain.RegisteredUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return domain.RegisteredUser{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return domain.RegisteredUser{}, errEmailTaken
	}
	u := user{id: uuid.NewString(), email: email, passwordHash: hash}
	s.users[email] = u
	return domain.RegisteredUser{ID: u.id, Email: u.email}, nil
}

func (s *memoryStore) Authenticate(email, password string) error {
	s.mu.Lock()
	u, ok := s.users[email]
	s.mu.Unlock()
	if !ok {
		return errBadLogin
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return errBadLogin
	}
	return nil
}

func (s *memoryStore) AppendHistory(email string, msgs ...domain.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[email] = append(s.history[email], msgs...)
}

func (s *memoryStore) History(email string) []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.history[email]))
	copy(out, s.history[email])
	return out
}

func (s *memoryStore) ClearHistory(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.history, email)
}

func (s *memoryStore) CreateTask(email string, fields domain.TaskFields) domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := task{
		id:      s.nextTaskID,
		owner:   email,
		content: fields.Content,
		dueDate: fields.DueDate,
	}
	s.nextTaskID++
	s.tasks = append(s.tasks, t)
	return t.toDomain()
}

// Tasks lista las tareas del usuario con done igual al pedido, en orden de creacion.
func (s *memoryStore) Tasks(email string, done bool) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Task, 0)
	for _, t := range s.tasks {
		if t.owner == email && t.done == done {
			out = append(out, t.toDomain())
		}
	}
	return out
}

func (s *memoryStore) UpdateTask(email string, id int64, fields domain.TaskFields) (domain.Task, error) {
	return s.mutateTask(email, id, func(t *task) {
		t.content = fields.Content
		t.dueDate = fields.DueDate
	})
}

func (s *memoryStore) MarkDone(email string, id int64) (domain.Task, error) {
	return s.mutateTask(email, id, func(t *task) { t.done = true })
}

func (s *memoryStore) mutateTask(email string, id int64, fn func(*task)) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].id == id && s.tasks[i].owner == email {
			fn(&s.tasks[i])
			return s.tasks[i].toDomain(), nil
		}
	}
	return domain.Task{}, errTaskNotFound
}
