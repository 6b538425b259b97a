package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// TaskID es opaco para el cliente: el backend puede mandarlo como numero o string.
type TaskID string

func (id TaskID) String() string { return string(id) }

func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	*id = TaskID(n.String())
	return nil
}

func (id TaskID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// IntTaskID formatea un id numerico.
func IntTaskID(n int64) TaskID {
	return TaskID(strconv.FormatInt(n, 10))
}

type Task struct {
	ID      TaskID `json:"id"`
	Content string `json:"content"`
	DueDate string `json:"due_date"`
	Done    bool   `json:"done,omitempty"`
}

// TaskFields es el payload de creacion y edicion de tareas.
type TaskFields struct {
	Content string `json:"content"`
	DueDate string `json:"due_date"`
}
