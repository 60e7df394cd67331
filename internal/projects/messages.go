package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// MainPageTag marks messages shown for every project.
const MainPageTag = "main"

// Message is a notification shown next to a project's results.
type Message struct {
	Text       string    `yaml:"text" json:"text"`
	CSSClass   string    `yaml:"css_class" json:"cssClass"`
	Tags       []string  `yaml:"tags" json:"tags"`
	Created    time.Time `yaml:"created" json:"created"`
	Expiration time.Time `yaml:"expiration" json:"expiration"` // zero means never
}

type messagesFile struct {
	Messages []Message `yaml:"messages"`
}

// Store holds the current messages. It is safe for concurrent use; the file
// watcher replaces the set while requests read it.
type Store struct {
	path string
	now  func() time.Time

	mu   sync.RWMutex
	msgs []Message
}

// NewStore returns a store holding msgs.
func NewStore(msgs ...Message) *Store {
	return &Store{now: time.Now, msgs: msgs}
}

// LoadStore reads messages from a YAML file.
func LoadStore(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the backing file. A missing file means no messages.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.Set(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("projects: read messages %s: %w", s.path, err)
	}
	var f messagesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("projects: parse messages %s: %w", s.path, err)
	}
	s.Set(f.Messages)
	return nil
}

// Set replaces the messages.
func (s *Store) Set(msgs []Message) {
	s.mu.Lock()
	s.msgs = msgs
	s.mu.Unlock()
}

// Pending returns the unexpired messages tagged with the project's name or
// MainPageTag, oldest first.
func (s *Store) Pending(p Project) []Message {
	if s == nil {
		return nil
	}
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Message
	for _, m := range s.msgs {
		if !m.Expiration.IsZero() && !now.Before(m.Expiration) {
			continue
		}
		if slices.Contains(m.Tags, p.Name) || slices.Contains(m.Tags, MainPageTag) {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b Message) int { return a.Created.Compare(b.Created) })
	return out
}

// EncodeJSON renders msgs as a JSON array.
func EncodeJSON(msgs []Message) (string, error) {
	if msgs == nil {
		msgs = []Message{}
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return "", fmt.Errorf("projects: encode messages: %w", err)
	}
	return string(data), nil
}

// Watch reloads the store whenever its file changes, until ctx is
// cancelled. The parent directory is watched so that editors replacing the
// file are noticed.
func (s *Store) Watch(ctx context.Context, logger *slog.Logger) error {
	if s.path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	target := filepath.Clean(s.path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("projects: watch %s: %w", target, err)
	}
	logger.Info("messages watcher: started", slog.String("path", target))

	for {
		select {
		case <-ctx.Done():
			logger.Info("messages watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := s.Reload(); err != nil {
				logger.Warn("messages watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			logger.Debug("messages watcher: reloaded", slog.String("op", ev.Op.String()))

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("messages watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
