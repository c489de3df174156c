package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	inmemdb "edubooking/database/inmem"
	"edubooking/models"
	"edubooking/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeQueue struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	fail  error
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.fail != nil {
		return nil, q.fail
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{}, nil
}

type failingRepo struct{}

func (failingRepo) InsertMany(context.Context, []models.NotificationRecord) error {
	return errors.New("mongo down")
}

func (failingRepo) GetByAppointmentID(context.Context, string) ([]models.NotificationRecord, error) {
	return nil, errors.New("mongo down")
}

func testAppointment() models.Appointment {
	return models.Appointment{
		ID:          "a1",
		UserID:      "u1",
		Date:        "2025-03-10",
		Start:       14 * 60,
		End:         15 * 60,
		Title:       "Mentoring",
		MeetingType: "online",
	}
}

func TestScheduleCascade(t *testing.T) {
	db := inmemdb.NewDB()
	queue := &fakeQueue{}
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewNotificationScheduler(inmemdb.NewNotificationRepository(db), queue, zap.NewNop(), func() time.Time { return now })

	startsAt := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	records, err := s.Schedule(context.Background(), testAppointment(), startsAt)
	require.NoError(t, err)
	require.Len(t, records, 3)

	byKind := map[models.NotificationKind]models.NotificationRecord{}
	for _, r := range records {
		byKind[r.Kind] = r
		assert.False(t, r.Sent)
		assert.Equal(t, "a1", r.AppointmentID)
		assert.Equal(t, "Mentoring", r.TemplateData["title"])
	}
	assert.True(t, now.Equal(byKind[models.NotificationConfirmation].ScheduledAt))
	assert.True(t, time.Date(2025, 3, 9, 14, 0, 0, 0, time.UTC).Equal(byKind[models.NotificationReminder24h].ScheduledAt))
	assert.True(t, time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC).Equal(byKind[models.NotificationReminder1h].ScheduledAt))

	assert.Len(t, db.Notifications(), 3)
	require.Len(t, queue.tasks, 3)
	for _, task := range queue.tasks {
		assert.Equal(t, tasks.TypeNotificationDispatch, task.Type())
	}
}

func TestSchedulePersistsPastDueReminders(t *testing.T) {
	db := inmemdb.NewDB()
	now := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
	s := NewNotificationScheduler(inmemdb.NewNotificationRepository(db), nil, zap.NewNop(), func() time.Time { return now })

	records, err := s.Schedule(context.Background(), testAppointment(), time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		if r.Kind == models.NotificationReminder24h {
			assert.True(t, r.ScheduledAt.Before(now))
		}
		assert.False(t, r.Sent)
	}
	assert.Len(t, db.Notifications(), 3)
}

func TestScheduleEnqueueFailureIsNotFatal(t *testing.T) {
	db := inmemdb.NewDB()
	queue := &fakeQueue{fail: errors.New("redis down")}
	s := NewNotificationScheduler(inmemdb.NewNotificationRepository(db), queue, zap.NewNop(), nil)

	records, err := s.Schedule(context.Background(), testAppointment(), time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Len(t, db.Notifications(), 3)
}

func TestSchedulePersistFailure(t *testing.T) {
	queue := &fakeQueue{}
	s := NewNotificationScheduler(failingRepo{}, queue, zap.NewNop(), nil)

	_, err := s.Schedule(context.Background(), testAppointment(), time.Now())
	assert.Error(t, err)
	assert.Empty(t, queue.tasks, "nothing is enqueued when records were not stored")
}
