package domain

import "time"

// TaskStatus enumerates Kanban columns. Tasks move only through explicit
// status transitions.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "inprogress"
	TaskStatusDone       TaskStatus = "done"
)

// Task is a single Kanban item inside a project.
type Task struct {
	ID      string     `json:"id"`
	Content string     `json:"content"`
	Status  TaskStatus `json:"status"`
}

// Project is a per-user workspace holding asset references, tasks and notes.
// Gallery items are shared, so only their IDs are held here.
type Project struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	ItemIDs     []string  `json:"itemIds"`
	Tasks       []Task    `json:"tasks"`
	Notes       string    `json:"notes"`
}
