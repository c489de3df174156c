package inmemdb

import (
	"sync"

	"edubooking/models"
)

// DB is a process-local store holding every collection the booking engine touches.
// It backs tests and STORAGE_DRIVER=memory.
type DB struct {
	mutex         sync.RWMutex
	sessions      map[string]models.BookingSession
	appointments  map[string]models.Appointment
	rules         []models.AvailabilityRule
	blocks        []models.TimeBlock
	users         map[string]models.User
	types         map[string]models.AppointmentType
	notifications []models.NotificationRecord

	locks *lockTable
}

func NewDB() *DB {
	return &DB{
		sessions:     make(map[string]models.BookingSession),
		appointments: make(map[string]models.Appointment),
		users:        make(map[string]models.User),
		types:        make(map[string]models.AppointmentType),
		locks:        &lockTable{held: make(map[string]lease)},
	}
}

// AddRule seeds a weekly availability rule.
func (db *DB) AddRule(rule models.AvailabilityRule) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.rules = append(db.rules, rule)
}

// AddBlock seeds a one-off time block.
func (db *DB) AddBlock(block models.TimeBlock) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.blocks = append(db.blocks, block)
}

// AddType seeds an appointment type.
func (db *DB) AddType(t models.AppointmentType) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.types[t.ID] = t
}

// AddUser seeds a user account.
func (db *DB) AddUser(u models.User) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.users[u.ID] = u
}

// Appointments returns a snapshot of every stored appointment.
func (db *DB) Appointments() []models.Appointment {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	out := make([]models.Appointment, 0, len(db.appointments))
	for _, a := range db.appointments {
		out = append(out, a)
	}
	return out
}

// Users returns a snapshot of every stored user.
func (db *DB) Users() []models.User {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	out := make([]models.User, 0, len(db.users))
	for _, u := range db.users {
		out = append(out, u)
	}
	return out
}

// Notifications returns a snapshot of every stored notification record.
func (db *DB) Notifications() []models.NotificationRecord {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return append([]models.NotificationRecord(nil), db.notifications...)
}

// HasSession reports whether a session row is physically present, expired or not.
func (db *DB) HasSession(id string) bool {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	_, ok := db.sessions[id]
	return ok
}
