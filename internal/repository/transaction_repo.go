package repository

import (
	"errors"

	"orbitcloud/internal/models"
	"orbitcloud/internal/store"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type TransactionRepository struct {
	store *store.Store
}

func NewTransactionRepository(s *store.Store) *TransactionRepository {
	return &TransactionRepository{store: s}
}

// Save inserts or overwrites by order id.
func (r *TransactionRepository) Save(t *models.Transaction) error {
	return r.store.SaveTransaction(*t)
}

func (r *TransactionRepository) GetByOrderID(orderID string) (*models.Transaction, error) {
	for _, t := range r.store.Transactions() {
		if t.OrderID == orderID {
			return &t, nil
		}
	}
	return nil, ErrTransactionNotFound
}

// ListByEmail returns every transaction owned by the given email, oldest first.
func (r *TransactionRepository) ListByEmail(email string) []models.Transaction {
	var out []models.Transaction
	for _, t := range r.store.Transactions() {
		if t.UserEmail == email {
			out = append(out, t)
		}
	}
	return out
}
