package inmemdb

import (
	"context"
	"time"

	userRepo "edubooking/database/repository/user"
	"edubooking/models"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) userRepo.UserRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if u, ok := repo.db.users[id]; ok {
		return &u, nil
	}
	return nil, userRepo.ErrUserNotFound
}

func (repo *userRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, u := range repo.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, userRepo.ErrUserNotFound
}

func (repo *userRepository) Create(_ context.Context, usr *models.User) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, u := range repo.db.users {
		if u.Email == usr.Email {
			return userRepo.ErrDuplicateEmail
		}
	}
	now := time.Now()
	usr.CreatedAt = now
	usr.UpdatedAt = now
	repo.db.users[usr.ID] = *usr
	return nil
}
