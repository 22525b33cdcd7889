package repository

import (
	"errors"

	"orbitcloud/internal/models"
	"orbitcloud/internal/store"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	store *store.Store
}

func NewUserRepository(s *store.Store) *UserRepository {
	return &UserRepository{store: s}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.store.SaveUser(*u)
}

func (r *UserRepository) Update(u *models.User) error {
	return r.store.SaveUser(*u)
}

func (r *UserRepository) GetByID(id string) (*models.User, error) {
	for _, u := range r.store.Users() {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.store.Users() {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}
