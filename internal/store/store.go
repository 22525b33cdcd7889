package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"orbitcloud/internal/models"
)

const (
	usersFile        = "users.json"
	transactionsFile = "transactions.json"
)

// Store is a flat-file JSON document store: one array document per entity.
// Every mutation is a full read-modify-rewrite of the document, serialized by
// a process-local mutex. There is no isolation beyond that mutex and no
// durability guarantee stronger than the underlying filesystem.
type Store struct {
	mu  sync.Mutex
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// readDoc loads a JSON array document. A missing or unreadable file reads as
// an empty list so a fresh deployment starts clean.
func readDoc[T any](s *Store, name string) []T {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func writeDoc[T any](s *Store, name string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), raw, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", name, err)
	}
	return nil
}

// Users returns all users.
func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readDoc[models.User](s, usersFile)
}

// SaveUser inserts or overwrites a user keyed by id.
func (s *Store) SaveUser(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := readDoc[models.User](s, usersFile)
	replaced := false
	for i := range users {
		if users[i].ID == u.ID {
			users[i] = u
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, u)
	}
	return writeDoc(s, usersFile, users)
}

// Transactions returns all transactions.
func (s *Store) Transactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readDoc[models.Transaction](s, transactionsFile)
}

// SaveTransaction inserts or overwrites a transaction keyed by order id.
func (s *Store) SaveTransaction(t models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	trxs := readDoc[models.Transaction](s, transactionsFile)
	replaced := false
	for i := range trxs {
		if trxs[i].OrderID == t.OrderID {
			trxs[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		trxs = append(trxs, t)
	}
	return writeDoc(s, transactionsFile, trxs)
}
