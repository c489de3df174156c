package inmemdb

import (
	"context"

	sessionRepo "edubooking/database/repository/session"
	"edubooking/models"
)

type sessionRepository struct {
	db *DB
}

func NewSessionRepository(db *DB) sessionRepo.SessionRepository {
	return &sessionRepository{db: db}
}

func (repo *sessionRepository) Save(_ context.Context, s *models.BookingSession) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cp := *s
	cp.Data.CompletedSteps = append([]models.Step(nil), s.Data.CompletedSteps...)
	repo.db.sessions[s.ID] = cp
	return nil
}

func (repo *sessionRepository) Get(_ context.Context, id string) (*models.BookingSession, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	s, ok := repo.db.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	s.Data.CompletedSteps = append([]models.Step(nil), s.Data.CompletedSteps...)
	return &s, nil
}

func (repo *sessionRepository) Delete(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.sessions, id)
	return nil
}
