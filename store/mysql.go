package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/JohnBaeGH/smio-app/models"
)

// MySQLStore backs both repositories with one database. Rooms stay a
// keyed JSON document, matching the file layout; log entries are
// flattened into columns so months can be filtered and deleted in SQL.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(ctx context.Context, dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	s := &MySQLStore{db: db}
	if err := s.ensureRoomsTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.ensureOrderLogsTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MySQLStore) Close() error { return s.db.Close() }

func (s *MySQLStore) ensureRoomsTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS rooms (
  id VARCHAR(16) NOT NULL PRIMARY KEY,
  data MEDIUMTEXT NOT NULL,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

func (s *MySQLStore) ensureOrderLogsTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS order_logs (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  month VARCHAR(7) NOT NULL,
  ts DATETIME(6) NOT NULL,
  room_id VARCHAR(16) NOT NULL,
  restaurant_name VARCHAR(255) NOT NULL,
  place_id VARCHAR(32) NULL,
  address VARCHAR(255) NULL,
  category VARCHAR(255) NULL,
  user_name VARCHAR(255) NOT NULL,
  menu VARCHAR(255) NOT NULL,
  quantity INT NOT NULL,
  price INT NOT NULL,
  beverage_option VARCHAR(16) NULL,
  special_request TEXT NULL,
  user_agent TEXT NULL,
  ip_hash VARCHAR(16) NULL,
  KEY idx_month (month),
  KEY idx_month_room (month, room_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

func (s *MySQLStore) SaveRoom(ctx context.Context, room *models.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO rooms (id, data, created_at) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE data = VALUES(data)`,
		room.ID, string(data), room.CreatedAt)
	return err
}

func (s *MySQLStore) LoadRoom(ctx context.Context, id string) (*models.Room, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM rooms WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var room models.Room
	if err := json.Unmarshal([]byte(data), &room); err != nil {
		return nil, err
	}
	room.ID = id
	return &room, nil
}

// UpdateRoom runs the read-modify-write cycle inside one transaction,
// with the row locked for its duration.
func (s *MySQLStore) UpdateRoom(ctx context.Context, id string, fn func(*models.Room) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRowContext(ctx, `SELECT data FROM rooms WHERE id = ? FOR UPDATE`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var room models.Room
	if err := json.Unmarshal([]byte(data), &room); err != nil {
		return err
	}
	room.ID = id

	if err := fn(&room); err != nil {
		return err
	}

	updated, err := json.Marshal(&room)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE rooms SET data = ? WHERE id = ?`, string(updated), id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *MySQLStore) AppendLog(ctx context.Context, entry models.LogEntry) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO order_logs
  (month, ts, room_id, restaurant_name, place_id, address, category,
   user_name, menu, quantity, price, beverage_option, special_request,
   user_agent, ip_hash)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		MonthKey(entry.Timestamp),
		entry.Timestamp,
		entry.RoomID,
		entry.Restaurant.Name,
		nullString(entry.Restaurant.PlaceID),
		nullString(entry.Restaurant.Address),
		nullString(entry.Restaurant.Category),
		entry.Order.UserName,
		entry.Order.Menu,
		entry.Order.Quantity,
		entry.Order.Price,
		nullString(entry.Order.BeverageOption),
		nullString(entry.Order.SpecialRequest),
		nullString(entry.Session.UserAgent),
		nullString(entry.Session.IPHash),
	)
	return err
}

func (s *MySQLStore) Months(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT month FROM order_logs ORDER BY month DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var months []string
	for rows.Next() {
		var month string
		if err := rows.Scan(&month); err != nil {
			return nil, err
		}
		months = append(months, month)
	}
	return months, rows.Err()
}

func (s *MySQLStore) LoadMonth(ctx context.Context, month string) ([]models.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT ts, room_id, restaurant_name, IFNULL(place_id,''), IFNULL(address,''),
       IFNULL(category,''), user_name, menu, quantity, price,
       IFNULL(beverage_option,''), IFNULL(special_request,''),
       IFNULL(user_agent,''), IFNULL(ip_hash,'')
FROM order_logs WHERE month = ? ORDER BY ts ASC`, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(
			&e.Timestamp, &e.RoomID, &e.Restaurant.Name, &e.Restaurant.PlaceID,
			&e.Restaurant.Address, &e.Restaurant.Category, &e.Order.UserName,
			&e.Order.Menu, &e.Order.Quantity, &e.Order.Price,
			&e.Order.BeverageOption, &e.Order.SpecialRequest,
			&e.Session.UserAgent, &e.Session.IPHash,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *MySQLStore) DeleteEntry(ctx context.Context, month string, ts time.Time) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM order_logs WHERE month = ? AND ts = ?`, month, ts)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQLStore) DeleteRoom(ctx context.Context, month, roomID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM order_logs WHERE month = ? AND room_id = ?`, month, roomID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQLStore) DeleteMonth(ctx context.Context, month string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM order_logs WHERE month = ?`, month)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
