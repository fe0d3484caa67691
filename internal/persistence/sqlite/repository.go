// Package sqlite persists the application snapshot in a SQLite database
// using the modernc.org/sqlite driver. The snapshot is normalized across a
// handful of tables but keeps the same overwrite semantics as the file
// backend: every save replaces the stored state in one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/social-battery/internal/battery"
	"github.com/example/social-battery/internal/persistence"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	weekdays TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	frequency_unit TEXT NOT NULL,
	frequency_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS friends (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	color TEXT NOT NULL,
	last_met TEXT,
	frequency_unit TEXT,
	frequency_count INTEGER,
	remote_battery INTEGER,
	owner_email TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS connection_requests (
	id TEXT NOT NULL,
	box TEXT NOT NULL CHECK (box IN ('incoming', 'sent')),
	sender_email TEXT NOT NULL,
	receiver_email TEXT NOT NULL,
	preferences TEXT NOT NULL DEFAULT '',
	sent_at TEXT NOT NULL,
	status TEXT NOT NULL,
	PRIMARY KEY (id, box)
);
CREATE TABLE IF NOT EXISTS scheduled_meetings (
	id TEXT PRIMARY KEY,
	friend_id TEXT NOT NULL,
	date TEXT NOT NULL,
	created_at TEXT NOT NULL,
	accepted INTEGER NOT NULL DEFAULT 0
);
`

// Repository implements persistence.SnapshotRepository on SQLite.
type Repository struct {
	db *sql.DB
}

// Open connects to the database identified by dsn and initialises the
// schema.
func Open(dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	// The modernc driver serialises access through a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: initialise schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close releases the underlying database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save replaces the stored snapshot within a single transaction.
func (r *Repository) Save(ctx context.Context, snap persistence.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}
	if err := saveTx(ctx, tx, snap); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("sqlite: save failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit snapshot: %w", err)
	}
	return nil
}

func saveTx(ctx context.Context, tx *sql.Tx, snap persistence.Snapshot) error {
	for _, table := range []string{"settings", "friends", "connection_requests", "scheduled_meetings"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("sqlite: clear %s: %w", table, err)
		}
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO settings (id, weekdays, notes, frequency_unit, frequency_count) VALUES (1, ?, ?, ?, ?)`,
		encodeWeekdays(snap.Availability.Weekdays),
		snap.Availability.Notes,
		string(snap.Frequency.Unit),
		snap.Frequency.Count,
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert settings: %w", err)
	}

	for _, friend := range snap.Friends {
		var lastMet, freqUnit sql.NullString
		var freqCount, remoteBattery sql.NullInt64
		if friend.LastMet != nil {
			lastMet = sql.NullString{String: friend.LastMet.Format(time.RFC3339Nano), Valid: true}
		}
		if friend.MaxFrequency != nil {
			freqUnit = sql.NullString{String: string(friend.MaxFrequency.Unit), Valid: true}
			freqCount = sql.NullInt64{Int64: int64(friend.MaxFrequency.Count), Valid: true}
		}
		if friend.RemoteBattery != nil {
			remoteBattery = sql.NullInt64{Int64: int64(*friend.RemoteBattery), Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO friends (id, name, color, last_met, frequency_unit, frequency_count, remote_battery, owner_email)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			friend.ID, friend.Name, friend.Color, lastMet, freqUnit, freqCount, remoteBattery, friend.OwnerEmail,
		)
		if err != nil {
			return fmt.Errorf("sqlite: insert friend %s: %w", friend.ID, err)
		}
	}

	insertRequests := func(box string, requests []persistence.ConnectionRequest) error {
		for _, req := range requests {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO connection_requests (id, box, sender_email, receiver_email, preferences, sent_at, status)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				req.ID, box, req.SenderEmail, req.ReceiverEmail, req.Preferences,
				req.SentAt.Format(time.RFC3339Nano), req.Status,
			)
			if err != nil {
				return fmt.Errorf("sqlite: insert %s request %s: %w", box, req.ID, err)
			}
		}
		return nil
	}
	if err := insertRequests("incoming", snap.Incoming); err != nil {
		return err
	}
	if err := insertRequests("sent", snap.Sent); err != nil {
		return err
	}

	for _, meeting := range snap.Meetings {
		accepted := 0
		if meeting.Accepted {
			accepted = 1
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO scheduled_meetings (id, friend_id, date, created_at, accepted) VALUES (?, ?, ?, ?, ?)`,
			meeting.ID, meeting.FriendID,
			meeting.Date.Format(time.RFC3339Nano),
			meeting.CreatedAt.Format(time.RFC3339Nano),
			accepted,
		)
		if err != nil {
			return fmt.Errorf("sqlite: insert meeting %s: %w", meeting.ID, err)
		}
	}

	return nil
}

// Load reads the stored snapshot. A database without a settings row has
// never been saved to and maps to persistence.ErrNotFound.
func (r *Repository) Load(ctx context.Context) (persistence.Snapshot, error) {
	var snap persistence.Snapshot

	var weekdays, notes, freqUnit string
	var freqCount int
	err := r.db.QueryRowContext(ctx,
		`SELECT weekdays, notes, frequency_unit, frequency_count FROM settings WHERE id = 1`,
	).Scan(&weekdays, &notes, &freqUnit, &freqCount)
	if err == sql.ErrNoRows {
		return persistence.Snapshot{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Snapshot{}, fmt.Errorf("sqlite: load settings: %w", err)
	}

	days, err := decodeWeekdays(weekdays)
	if err != nil {
		return persistence.Snapshot{}, fmt.Errorf("sqlite: load settings: %w", err)
	}
	snap.Availability = battery.Availability{Weekdays: days, Notes: notes}
	snap.Frequency = battery.FrequencyLimit{Unit: battery.FrequencyUnit(freqUnit), Count: freqCount}

	if snap.Friends, err = r.loadFriends(ctx); err != nil {
		return persistence.Snapshot{}, err
	}
	if snap.Incoming, err = r.loadRequests(ctx, "incoming"); err != nil {
		return persistence.Snapshot{}, err
	}
	if snap.Sent, err = r.loadRequests(ctx, "sent"); err != nil {
		return persistence.Snapshot{}, err
	}
	if snap.Meetings, err = r.loadMeetings(ctx); err != nil {
		return persistence.Snapshot{}, err
	}

	return snap, nil
}

func (r *Repository) loadFriends(ctx context.Context) ([]persistence.Friend, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color, last_met, frequency_unit, frequency_count, remote_battery, owner_email
		 FROM friends ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load friends: %w", err)
	}
	defer rows.Close()

	var friends []persistence.Friend
	for rows.Next() {
		var f persistence.Friend
		var lastMet, freqUnit sql.NullString
		var freqCount, remoteBattery sql.NullInt64
		if err := rows.Scan(&f.ID, &f.Name, &f.Color, &lastMet, &freqUnit, &freqCount, &remoteBattery, &f.OwnerEmail); err != nil {
			return nil, fmt.Errorf("sqlite: scan friend: %w", err)
		}
		if lastMet.Valid {
			t, err := time.Parse(time.RFC3339Nano, lastMet.String)
			if err != nil {
				return nil, fmt.Errorf("sqlite: parse last_met for %s: %w", f.ID, err)
			}
			f.LastMet = &t
		}
		if freqUnit.Valid && freqCount.Valid {
			limit := battery.FrequencyLimit{Unit: battery.FrequencyUnit(freqUnit.String), Count: int(freqCount.Int64)}
			f.MaxFrequency = &limit
		}
		if remoteBattery.Valid {
			value := int(remoteBattery.Int64)
			f.RemoteBattery = &value
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}

func (r *Repository) loadRequests(ctx context.Context, box string) ([]persistence.ConnectionRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sender_email, receiver_email, preferences, sent_at, status
		 FROM connection_requests WHERE box = ? ORDER BY rowid`, box,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load %s requests: %w", box, err)
	}
	defer rows.Close()

	var requests []persistence.ConnectionRequest
	for rows.Next() {
		var req persistence.ConnectionRequest
		var sentAt string
		if err := rows.Scan(&req.ID, &req.SenderEmail, &req.ReceiverEmail, &req.Preferences, &sentAt, &req.Status); err != nil {
			return nil, fmt.Errorf("sqlite: scan %s request: %w", box, err)
		}
		req.SentAt, err = time.Parse(time.RFC3339Nano, sentAt)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse sent_at for %s: %w", req.ID, err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (r *Repository) loadMeetings(ctx context.Context) ([]persistence.ScheduledMeeting, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, friend_id, date, created_at, accepted FROM scheduled_meetings ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load meetings: %w", err)
	}
	defer rows.Close()

	var meetings []persistence.ScheduledMeeting
	for rows.Next() {
		var m persistence.ScheduledMeeting
		var date, createdAt string
		var accepted int
		if err := rows.Scan(&m.ID, &m.FriendID, &date, &createdAt, &accepted); err != nil {
			return nil, fmt.Errorf("sqlite: scan meeting: %w", err)
		}
		if m.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return nil, fmt.Errorf("sqlite: parse date for %s: %w", m.ID, err)
		}
		if m.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: parse created_at for %s: %w", m.ID, err)
		}
		m.Accepted = accepted != 0
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

func encodeWeekdays(days []time.Weekday) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(value string) ([]time.Weekday, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}
