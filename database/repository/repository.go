package repository

import (
	inmemdb "edubooking/database/inmem"
	appointmentTypeRepo "edubooking/database/repository/appointmenttype"
	lockRepo "edubooking/database/repository/lock"
	recordsRepo "edubooking/database/repository/records"
	schedulerRepo "edubooking/database/repository/scheduler"
	sessionRepo "edubooking/database/repository/session"
	userRepo "edubooking/database/repository/user"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repositories bundles every store the booking engine reads or writes.
type Repositories struct {
	Sessions      sessionRepo.SessionRepository
	Appointments  schedulerRepo.AppointmentRepository
	Availability  schedulerRepo.AvailabilityRepository
	Users         userRepo.UserRepository
	Notifications recordsRepo.NotificationRepository
	Types         appointmentTypeRepo.AppointmentTypeRepository
	Locker        lockRepo.SlotLocker
}

// NewMongoRepositories wires MongoDB for durable data and Redis for sessions and slot locks.
func NewMongoRepositories(db *mongo.Database, sessionClient, lockClient *redis.Client) Repositories {
	scheduler := schedulerRepo.NewMongoSchedulerRepo(db)
	return Repositories{
		Sessions:      sessionRepo.NewRedisSessionRepo(sessionClient),
		Appointments:  scheduler,
		Availability:  scheduler,
		Users:         userRepo.NewMongoUserRepo(db),
		Notifications: recordsRepo.NewMongoNotificationRepo(db),
		Types:         appointmentTypeRepo.NewMongoAppointmentTypeRepo(db),
		Locker:        lockRepo.NewRedisSlotLocker(lockClient),
	}
}

// NewMemoryRepositories serves every store from one in-process DB.
func NewMemoryRepositories(db *inmemdb.DB) Repositories {
	scheduler := inmemdb.NewSchedulerRepository(db)
	return Repositories{
		Sessions:      inmemdb.NewSessionRepository(db),
		Appointments:  scheduler,
		Availability:  scheduler,
		Users:         inmemdb.NewUserRepository(db),
		Notifications: inmemdb.NewNotificationRepository(db),
		Types:         inmemdb.NewAppointmentTypeRepository(db),
		Locker:        inmemdb.NewSlotLocker(db),
	}
}
