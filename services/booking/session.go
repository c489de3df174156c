package booking

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	sessionRepo "edubooking/database/repository/session"
	"edubooking/models"
	"edubooking/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSessionTTL is the sliding expiry window applied on create and on every update.
const DefaultSessionTTL = 2 * time.Hour

// SessionStore implements SessionService on top of a SessionRepository.
type SessionStore struct {
	repo     sessionRepo.SessionRepository
	ttl      time.Duration
	now      func() time.Time
	validate *validator.Validate
	logger   *zap.Logger
}

// NewSessionStore builds a store. A zero ttl means DefaultSessionTTL; a nil clock means time.Now.
func NewSessionStore(repo sessionRepo.SessionRepository, ttl time.Duration, logger *zap.Logger, now func() time.Time) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		repo:     repo,
		ttl:      ttl,
		now:      now,
		validate: validator.New(),
		logger:   logger,
	}
}

var _ SessionService = (*SessionStore)(nil)

func (s *SessionStore) Create(ctx context.Context, id Identity, step models.Step, data models.BookingDetails) (*models.BookingSession, string, error) {
	if step == "" {
		step = models.StepInstructorSelection
	}
	if !ValidStep(step) {
		return nil, "", newValidationError(CodeInvalidStep, "unknown booking step "+string(step))
	}
	initial := models.BookingDetails{}.Merge(data)
	if err := validateContact(s.validate, initial.Contact); err != nil {
		return nil, "", err
	}

	now := s.now()
	session := &models.BookingSession{
		ID:          uuid.New().String(),
		CurrentStep: step,
		Data:        initial,
		ExpiresAt:   now.Add(s.ttl),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var token string
	if id.Authenticated() {
		session.OwnerID = id.UserID
	} else {
		var err error
		if token, err = NewToken(now); err != nil {
			return nil, "", newDependencyError(CodeStorageFailed, "could not issue booking token", err)
		}
		session.TokenHash = utils.HashToken(token)
	}

	if err := s.repo.Save(ctx, session); err != nil {
		return nil, "", newDependencyError(CodeStorageFailed, "could not store booking session", err)
	}
	s.logger.Info("Booking session created",
		zap.String("sessionID", session.ID),
		zap.Bool("anonymous", session.Anonymous()),
		zap.String("step", string(step)),
	)
	return session, token, nil
}

func (s *SessionStore) Get(ctx context.Context, sessionID string, id Identity) (*models.BookingSession, error) {
	now := s.now()
	if !id.Authenticated() {
		if id.Token == "" {
			return nil, newUnauthorizedError("booking token required")
		}
		if err := ValidateToken(id.Token, now, s.ttl); err != nil {
			return nil, err
		}
	}

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, newDependencyError(CodeStorageFailed, "could not load booking session", err)
	}
	if session.Expired(now) || !owns(session, id) {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// owns reports whether id may act on session.
func owns(session *models.BookingSession, id Identity) bool {
	if id.Authenticated() {
		return session.OwnerID == id.UserID
	}
	if !session.Anonymous() || session.TokenHash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(utils.HashToken(id.Token)), []byte(session.TokenHash)) == 1
}

// Update merges partial into the session data, then zeroes the fields named in clear.
func (s *SessionStore) Update(ctx context.Context, sessionID string, id Identity, partial models.BookingDetails, step *models.Step, clear ...string) (*models.BookingSession, string, error) {
	session, err := s.Get(ctx, sessionID, id)
	if err != nil {
		return nil, "", err
	}

	merged := session.Data.Merge(partial).Clear(clear...)
	if err := validateContact(s.validate, merged.Contact); err != nil {
		return nil, "", err
	}

	target := session.CurrentStep
	if step != nil {
		target = *step
	}
	if err := checkTransition(s.validate, session.CurrentStep, target, merged, session.Anonymous()); err != nil {
		return nil, "", err
	}
	if stepDone(session.CurrentStep, target, merged, session.Anonymous()) && !merged.HasCompleted(session.CurrentStep) {
		merged.CompletedSteps = append(merged.CompletedSteps, session.CurrentStep)
	}

	now := s.now()
	session.Data = merged
	session.CurrentStep = target
	session.ExpiresAt = now.Add(s.ttl)
	session.UpdatedAt = now

	var token string
	if session.Anonymous() {
		if token, err = NewToken(now); err != nil {
			return nil, "", newDependencyError(CodeStorageFailed, "could not issue booking token", err)
		}
		session.TokenHash = utils.HashToken(token)
	}

	if err := s.repo.Save(ctx, session); err != nil {
		return nil, "", newDependencyError(CodeStorageFailed, "could not store booking session", err)
	}
	s.logger.Debug("Booking session updated",
		zap.String("sessionID", session.ID),
		zap.String("step", string(session.CurrentStep)),
	)
	return session, token, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string, id Identity) error {
	if _, err := s.Get(ctx, sessionID, id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return err
	}
	return s.discard(ctx, sessionID)
}

// discard removes a session without an ownership check. Callers must have verified ownership.
func (s *SessionStore) discard(ctx context.Context, sessionID string) error {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return newDependencyError(CodeStorageFailed, "could not delete booking session", err)
	}
	return nil
}
