package inmemdb

import (
	"context"
	"sort"

	appointmentTypeRepo "edubooking/database/repository/appointmenttype"
	recordsRepo "edubooking/database/repository/records"
	"edubooking/models"
)

type notificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) recordsRepo.NotificationRepository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) InsertMany(_ context.Context, records []models.NotificationRecord) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.notifications = append(repo.db.notifications, records...)
	return nil
}

func (repo *notificationRepository) GetByAppointmentID(_ context.Context, appointmentID string) ([]models.NotificationRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var out []models.NotificationRecord
	for _, r := range repo.db.notifications {
		if r.AppointmentID == appointmentID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

type appointmentTypeRepository struct {
	db *DB
}

func NewAppointmentTypeRepository(db *DB) appointmentTypeRepo.AppointmentTypeRepository {
	return &appointmentTypeRepository{db: db}
}

func (repo *appointmentTypeRepository) GetByID(_ context.Context, id string) (*models.AppointmentType, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.types[id]; ok {
		return &t, nil
	}
	return nil, appointmentTypeRepo.ErrTypeNotFound
}

func (repo *appointmentTypeRepository) ListActive(_ context.Context) ([]models.AppointmentType, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var out []models.AppointmentType
	for _, t := range repo.db.types {
		if t.Active {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
