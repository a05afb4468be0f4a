// Package outbox persists the reminders emitted by the chat so they outlive the
// process and can be delivered by a notifier.
package outbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/shahar-caura/marino/internal/dialogue"
)

// ErrNotFound is returned when no reminder has the requested ID.
var ErrNotFound = errors.New("reminder not found")

// Status tracks delivery of a stored reminder.
type Status string

const (
	StatusPending      Status = "pending"
	StatusNotified     Status = "notified"
	StatusNotifyFailed Status = "notify_failed"
)

// Reminder is one persisted reminder request.
type Reminder struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description"`
	Date        string    `yaml:"date" json:"date"`
	Priority    string    `yaml:"priority" json:"priority"`
	Message     string    `yaml:"message" json:"message"` // user message that produced it
	Status      Status    `yaml:"status" json:"status"`
	NotifyError string    `yaml:"notify_error,omitempty" json:"notify_error,omitempty"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at" json:"updated_at"`
}

// New creates a pending Reminder with a fresh ID.
func New(req dialogue.ReminderRequest, message string) *Reminder {
	now := time.Now()
	return &Reminder{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Priority:    req.Priority,
		Message:     message,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Store keeps one YAML file per reminder in a directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. The directory is created on first Save.
func NewStore(dir string) *Store { return &Store{dir: dir} }

// Dir returns the directory reminders are written to.
func (s *Store) Dir() string { return s.dir }

// Save writes r atomically to <dir>/<id>.yaml.
func (s *Store) Save(r *Reminder) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating outbox dir: %w", err)
	}

	r.UpdatedAt = time.Now()

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling reminder: %w", err)
	}

	dest := s.path(r.ID)
	tmp := dest + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp reminder file: %w", err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("renaming reminder file: %w", err)
	}

	return nil
}

// Load reads the reminder with the given ID.
func (s *Store) Load(id string) (*Reminder, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}
	return LoadFile(s.path(id))
}

// LoadFile reads a reminder from an arbitrary file path.
func LoadFile(path string) (*Reminder, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("loading reminder %q: %w", path, err)
	}

	var r Reminder
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing reminder %q: %w", path, err)
	}
	return &r, nil
}

// List returns all reminders sorted by created_at descending. A positive
// limit caps the result.
func (s *Store) List(limit int) ([]*Reminder, error) {
	entries, err := filepath.Glob(filepath.Join(s.dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("listing reminders: %w", err)
	}

	var out []*Reminder
	for _, path := range entries {
		r, err := LoadFile(path)
		if err != nil {
			continue // skip unreadable or corrupt files
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MarkNotified records the outcome of delivering r and saves it.
func (s *Store) MarkNotified(r *Reminder, notifyErr error) error {
	if notifyErr != nil {
		r.Status = StatusNotifyFailed
		r.NotifyError = notifyErr.Error()
	} else {
		r.Status = StatusNotified
		r.NotifyError = ""
	}
	return s.Save(r)
}

// Cleanup deletes notified reminders last updated before the retention window.
// Returns the number of files deleted.
func (s *Store) Cleanup(retention time.Duration) (int, error) {
	reminders, err := s.List(0)
	if err != nil {
		return 0, fmt.Errorf("listing reminders for cleanup: %w", err)
	}

	cutoff := time.Now().Add(-retention)
	deleted := 0

	for _, r := range reminders {
		if r.Status != StatusNotified {
			continue // keep anything not yet delivered
		}
		if r.UpdatedAt.After(cutoff) {
			continue // not old enough
		}
		if err := os.Remove(s.path(r.ID)); err == nil {
			deleted++
		}
	}

	return deleted, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".yaml")
}
