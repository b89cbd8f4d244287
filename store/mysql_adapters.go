package store

import (
	"context"
	"time"

	"github.com/JohnBaeGH/smio-app/models"
)

// Thin adapters exposing the shared *MySQLStore as the two repository
// interfaces.

type mysqlRoomStore struct{ s *MySQLStore }

func (a mysqlRoomStore) Save(ctx context.Context, room *models.Room) error {
	return a.s.SaveRoom(ctx, room)
}

func (a mysqlRoomStore) Load(ctx context.Context, id string) (*models.Room, error) {
	return a.s.LoadRoom(ctx, id)
}

func (a mysqlRoomStore) Update(ctx context.Context, id string, fn func(*models.Room) error) error {
	return a.s.UpdateRoom(ctx, id, fn)
}

type mysqlLogStore struct{ s *MySQLStore }

func (a mysqlLogStore) Append(ctx context.Context, entry models.LogEntry) error {
	return a.s.AppendLog(ctx, entry)
}

func (a mysqlLogStore) Months(ctx context.Context) ([]string, error) {
	return a.s.Months(ctx)
}

func (a mysqlLogStore) Load(ctx context.Context, month string) ([]models.LogEntry, error) {
	return a.s.LoadMonth(ctx, month)
}

func (a mysqlLogStore) DeleteEntry(ctx context.Context, month string, ts time.Time) error {
	return a.s.DeleteEntry(ctx, month, ts)
}

func (a mysqlLogStore) DeleteRoom(ctx context.Context, month, roomID string) error {
	return a.s.DeleteRoom(ctx, month, roomID)
}

func (a mysqlLogStore) DeleteMonth(ctx context.Context, month string) error {
	return a.s.DeleteMonth(ctx, month)
}

func (s *MySQLStore) Rooms() RoomStore { return mysqlRoomStore{s} }
func (s *MySQLStore) Logs() LogStore   { return mysqlLogStore{s} }
