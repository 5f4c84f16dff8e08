package tasks

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// TaskStatus is the closed set of task states, stored as an integer.
type TaskStatus int

const (
	// StatusTodo is the initial state
	StatusTodo TaskStatus = 0
	// StatusInProgress marks work that has started
	StatusInProgress TaskStatus = 1
	// StatusDone is the terminal state
	StatusDone TaskStatus = 2
)

// Validate rejects values outside the enumerated set. Runs at the data-model
// boundary so handlers and repositories can assume a valid status.
func (s TaskStatus) Validate() error {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return nil
	}
	return fmt.Errorf("invalid task status: %d", int(s))
}

func (s TaskStatus) String() string {
	switch s {
	case StatusTodo:
		return "todo"
	case StatusInProgress:
		return "in_progress"
	case StatusDone:
		return "done"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Confirmed     bool       `bun:"confirmed,notnull,default:false" json:"confirmed"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Task is the task model. OwnerID is set once on create and never mutated.
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:tsk"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	Title         string     `bun:"title,notnull" json:"title"`
	Status        TaskStatus `bun:"status,notnull,default:0" json:"status"`
	EndDate       *time.Time `bun:"end_date,nullzero" json:"end_date,omitempty"`
	OwnerID       int64      `bun:"owner_id,notnull" json:"owner_id"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
