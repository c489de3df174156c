package inmemdb

import (
	"context"
	"sort"
	"time"

	schedulerRepo "edubooking/database/repository/scheduler"
	"edubooking/models"
)

// SchedulerRepository serves both appointments and availability data.
type SchedulerRepository struct {
	db *DB
}

func NewSchedulerRepository(db *DB) *SchedulerRepository {
	return &SchedulerRepository{db: db}
}

var (
	_ schedulerRepo.AppointmentRepository  = (*SchedulerRepository)(nil)
	_ schedulerRepo.AvailabilityRepository = (*SchedulerRepository)(nil)
)

func (repo *SchedulerRepository) overlapping(instructorID, date string, start, end int) []models.Appointment {
	var out []models.Appointment
	for _, a := range repo.db.appointments {
		if a.InstructorID != instructorID || a.Date != date || a.Status == models.AppointmentStatusCancelled {
			continue
		}
		if models.Overlaps(a.Start, a.End, start, end) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func (repo *SchedulerRepository) FindOverlappingAppointments(_ context.Context, instructorID, date string, start, end int) ([]models.Appointment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.overlapping(instructorID, date, start, end), nil
}

func (repo *SchedulerRepository) InsertAppointment(_ context.Context, appt *models.Appointment) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if len(repo.overlapping(appt.InstructorID, appt.Date, appt.Start, appt.End)) > 0 {
		return schedulerRepo.ErrSlotTaken
	}
	if _, exists := repo.db.appointments[appt.ID]; exists {
		return schedulerRepo.ErrSlotTaken
	}
	repo.db.appointments[appt.ID] = *appt
	return nil
}

func (repo *SchedulerRepository) GetAppointmentByID(_ context.Context, id string) (*models.Appointment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	a, ok := repo.db.appointments[id]
	if !ok {
		return nil, schedulerRepo.ErrAppointmentNotFound
	}
	return &a, nil
}

func (repo *SchedulerRepository) GetActiveRules(_ context.Context, instructorID string, day time.Weekday) ([]models.AvailabilityRule, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var out []models.AvailabilityRule
	for _, r := range repo.db.rules {
		if r.InstructorID == instructorID && r.DayOfWeek == day && r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (repo *SchedulerRepository) GetActiveBlocks(_ context.Context, instructorID, date string) ([]models.TimeBlock, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var out []models.TimeBlock
	for _, b := range repo.db.blocks {
		if b.InstructorID == instructorID && b.Date == date && b.Blocked {
			out = append(out, b)
		}
	}
	return out, nil
}
