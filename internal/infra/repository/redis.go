package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/callminder/callminder/internal/domain"
)

const reminderKeyPrefix = "reminder:"

type reminderRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Phone       string    `json:"phone"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Timezone    string    `json:"timezone"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	LastError   string    `json:"last_error,omitempty"`
}

// RedisRepository persists reminders as JSON records keyed by id. Listing
// walks the keyspace with SCAN; the data set is a single user's reminders,
// so full scans stay cheap.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{
		client: client,
	}
}

var _ domain.ReminderRepository = (*RedisRepository)(nil)

func (r *RedisRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Reminder, error) {
	all, err := r.scanAll(ctx)
	if err != nil {
		return nil, err
	}

	out := all[:0]
	for _, reminder := range all {
		if filter.Matches(reminder) {
			out = append(out, reminder)
		}
	}
	sortBySchedule(out)
	return out, nil
}

func (r *RedisRepository) Get(ctx context.Context, id string) (*domain.Reminder, error) {
	data, err := r.client.Get(ctx, reminderKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	reminder, err := decodeRecord(data)
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (r *RedisRepository) Create(ctx context.Context, reminder *domain.Reminder) error {
	return r.save(ctx, reminder)
}

func (r *RedisRepository) Update(ctx context.Context, reminder *domain.Reminder) error {
	if reminder == nil || reminder.ID == "" {
		return ErrInvalidReminderData
	}

	exists, err := r.client.Exists(ctx, reminderKeyPrefix+reminder.ID).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return domain.ErrNotFound
	}
	return r.save(ctx, reminder)
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	deleted, err := r.client.Del(ctx, reminderKeyPrefix+id).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RedisRepository) ListDue(ctx context.Context, now time.Time) ([]domain.Reminder, error) {
	all, err := r.scanAll(ctx)
	if err != nil {
		return nil, err
	}

	due := all[:0]
	for _, reminder := range all {
		if reminder.Due(now) {
			due = append(due, reminder)
		}
	}
	sortBySchedule(due)
	return due, nil
}

func (r *RedisRepository) save(ctx context.Context, reminder *domain.Reminder) error {
	if reminder == nil || reminder.ID == "" {
		return ErrInvalidReminderData
	}

	record := reminderRecord{
		ID:          reminder.ID,
		Title:       reminder.Title,
		Message:     reminder.Message,
		Phone:       reminder.Phone,
		ScheduledAt: reminder.ScheduledAt.UTC(),
		Timezone:    reminder.Timezone,
		Status:      string(reminder.Status),
		CreatedAt:   reminder.CreatedAt.UTC(),
		UpdatedAt:   reminder.UpdatedAt.UTC(),
		LastError:   reminder.LastError,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return ErrInvalidReminderData
	}

	return r.client.Set(ctx, reminderKeyPrefix+reminder.ID, data, 0).Err()
}

func (r *RedisRepository) scanAll(ctx context.Context) ([]domain.Reminder, error) {
	var reminders []domain.Reminder

	iter := r.client.Scan(ctx, 0, reminderKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, err
		}
		reminder, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return reminders, nil
}

func decodeRecord(data []byte) (domain.Reminder, error) {
	var record reminderRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.Reminder{}, ErrInvalidReminderData
	}

	return domain.Reminder{
		ID:          record.ID,
		Title:       record.Title,
		Message:     record.Message,
		Phone:       record.Phone,
		ScheduledAt: record.ScheduledAt.UTC(),
		Timezone:    record.Timezone,
		Status:      domain.Status(record.Status),
		CreatedAt:   record.CreatedAt.UTC(),
		UpdatedAt:   record.UpdatedAt.UTC(),
		LastError:   record.LastError,
	}, nil
}
