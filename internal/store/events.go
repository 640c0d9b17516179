package store

import (
	"context"
	"database/sql"
	"time"
)

// CreateEventParams はイベント作成クエリのパラメータ。
type CreateEventParams struct {
	// ID はイベントの一意識別子（UUID）。
	ID string
	// UserID は所有ユーザーのID。
	UserID string
	// Title はイベントのタイトル。
	Title string
	// StartTime は開始日時。
	StartTime time.Time
	// EndTime は終了日時。
	EndTime time.Time
}

// CreateEvent は新しいカレンダーイベントを作成する。
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO events (id, user_id, title, start_time, end_time) VALUES (?, ?, ?, ?, ?)`,
		arg.ID, arg.UserID, arg.Title, arg.StartTime.UTC(), arg.EndTime.UTC(),
	)
	return err
}

// GetEventByID はIDでイベントを取得する。
func (q *Queries) GetEventByID(ctx context.Context, id string) (Event, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, start_time, end_time, created_at FROM events WHERE id = ?`, id)
	var e Event
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.StartTime, &e.EndTime, &e.CreatedAt)
	return e, err
}

// ListEventsByUserID はユーザーのイベントを開始時刻昇順で取得する。
func (q *Queries) ListEventsByUserID(ctx context.Context, userID string) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, title, start_time, end_time, created_at FROM events
		 WHERE user_id = ? ORDER BY start_time`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanEvents(rows)
}

// DeleteEvent はイベントを削除する。
func (q *Queries) DeleteEvent(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	return err
}

// ListEventsStartingBetweenParams は開始時刻範囲検索クエリのパラメータ。
type ListEventsStartingBetweenParams struct {
	// After は範囲の開始（この時刻を含まない）。
	After time.Time
	// Until は範囲の終了（この時刻を含む）。
	Until time.Time
}

// ListEventsStartingBetween は開始時刻が (After, Until] に入るイベントを
// 全ユーザー横断で取得する。通知スキャンが使用する。
func (q *Queries) ListEventsStartingBetween(ctx context.Context, arg ListEventsStartingBetweenParams) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, title, start_time, end_time, created_at FROM events
		 WHERE start_time > ? AND start_time <= ?`,
		arg.After.UTC(), arg.Until.UTC())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanEvents(rows)
}

// scanEvents は結果セットをEventのスライスに変換する。
func scanEvents(rows *sql.Rows) ([]Event, error) {
	events := make([]Event, 0)
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.StartTime, &e.EndTime, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
