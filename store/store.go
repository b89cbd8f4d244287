// Package store persists rooms and the monthly order log behind small
// repository interfaces, so the handlers never touch files or SQL
// directly.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/JohnBaeGH/smio-app/models"
)

var ErrNotFound = errors.New("not found")

// RoomStore is a keyed save/load store. Load returns (nil, nil) for an
// unknown id; errors are reserved for I/O failures. Update runs the
// whole read-modify-write cycle under the store's lock, so two
// participants mutating the same room cannot overwrite each other;
// it returns ErrNotFound for an unknown id and propagates fn's error
// without saving.
type RoomStore interface {
	Save(ctx context.Context, room *models.Room) error
	Load(ctx context.Context, id string) (*models.Room, error)
	Update(ctx context.Context, id string, fn func(*models.Room) error) error
}

// LogStore accumulates order events per calendar month ("2006-01").
type LogStore interface {
	Append(ctx context.Context, entry models.LogEntry) error
	Months(ctx context.Context) ([]string, error)
	Load(ctx context.Context, month string) ([]models.LogEntry, error)
	DeleteEntry(ctx context.Context, month string, ts time.Time) error
	DeleteRoom(ctx context.Context, month, roomID string) error
	DeleteMonth(ctx context.Context, month string) error
}

// MonthKey is the log bucket for a timestamp.
func MonthKey(t time.Time) string { return t.Format("2006-01") }
