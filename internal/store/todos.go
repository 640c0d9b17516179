package store

import (
	"context"
	"database/sql"
	"time"
)

// CreateTodoParams はTodo作成クエリのパラメータ。
type CreateTodoParams struct {
	// ID はTodoの一意識別子（UUID）。
	ID string
	// UserID は所有ユーザーのID。
	UserID string
	// Title はTodoのタイトル。
	Title string
	// DueDate は期限日時。期限なしなら無効値。
	DueDate sql.NullTime
}

// CreateTodo は新しいTodoを作成する。
func (q *Queries) CreateTodo(ctx context.Context, arg CreateTodoParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO todos (id, user_id, title, due_date) VALUES (?, ?, ?, ?)`,
		arg.ID, arg.UserID, arg.Title, normalizeNullTime(arg.DueDate),
	)
	return err
}

// GetTodoByID はIDでTodoを取得する。
func (q *Queries) GetTodoByID(ctx context.Context, id string) (Todo, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, completed, due_date, created_at FROM todos WHERE id = ?`, id)
	var t Todo
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.DueDate, &t.CreatedAt)
	return t, err
}

// ListTodosByUserID はユーザーのTodoを期限昇順で取得する。
// 期限なしのTodoは末尾に並ぶ。
func (q *Queries) ListTodosByUserID(ctx context.Context, userID string) ([]Todo, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, title, completed, due_date, created_at FROM todos
		 WHERE user_id = ? ORDER BY due_date IS NULL, due_date, created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	todos := make([]Todo, 0)
	for rows.Next() {
		var t Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.DueDate, &t.CreatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// UpdateTodoParams はTodo更新クエリのパラメータ。
type UpdateTodoParams struct {
	// ID は対象TodoのID。
	ID string
	// Title は新しいタイトル。
	Title string
	// Completed は新しい完了フラグ。
	Completed int64
	// DueDate は新しい期限日時。期限なしなら無効値。
	DueDate sql.NullTime
}

// UpdateTodo はTodoのタイトル・完了フラグ・期限を更新する。
func (q *Queries) UpdateTodo(ctx context.Context, arg UpdateTodoParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, completed = ?, due_date = ? WHERE id = ?`,
		arg.Title, arg.Completed, normalizeNullTime(arg.DueDate), arg.ID)
	return err
}

// DeleteTodo はTodoを削除する。
func (q *Queries) DeleteTodo(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	return err
}

// ListTodosDueBetweenParams は期限範囲検索クエリのパラメータ。
type ListTodosDueBetweenParams struct {
	// Start は範囲の開始（この時刻を含む）。
	Start time.Time
	// End は範囲の終了（この時刻を含まない）。
	End time.Time
}

// ListTodosDueBetween は期限が [Start, End) に入るTodoを全ユーザー横断で取得する。
// 通知スキャンが使用する。
func (q *Queries) ListTodosDueBetween(ctx context.Context, arg ListTodosDueBetweenParams) ([]Todo, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, title, completed, due_date, created_at FROM todos
		 WHERE due_date IS NOT NULL AND due_date >= ? AND due_date < ?`,
		arg.Start.UTC(), arg.End.UTC())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	todos := make([]Todo, 0)
	for rows.Next() {
		var t Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.DueDate, &t.CreatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// normalizeNullTime は有効な時刻をUTCに正規化する。
// 時刻カラムの範囲比較を文字列順で成立させるため、保存は常にUTCで行う。
func normalizeNullTime(t sql.NullTime) sql.NullTime {
	if t.Valid {
		t.Time = t.Time.UTC()
	}
	return t
}
