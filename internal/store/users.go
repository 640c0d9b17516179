package store

import (
	"context"
	"database/sql"
)

// CreateUserParams はユーザー作成クエリのパラメータ。
type CreateUserParams struct {
	// ID はユーザーの一意識別子（UUID）。
	ID string
	// Email はログイン用メールアドレス。
	Email string
	// PasswordHash はbcryptでハッシュ化されたパスワード。
	PasswordHash string
	// DisplayName は表示名。
	DisplayName string
}

// CreateUser は新しいユーザーを作成する。
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, display_name) VALUES (?, ?, ?, ?)`,
		arg.ID, arg.Email, arg.PasswordHash, arg.DisplayName,
	)
	return err
}

// GetUserByID はIDでユーザーを取得する。
func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, display_name, fcm_token, created_at FROM users WHERE id = ?`, id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.FCMToken, &u.CreatedAt)
	return u, err
}

// GetUserByEmail はメールアドレスでユーザーを取得する。
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, display_name, fcm_token, created_at FROM users WHERE email = ?`, email)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.FCMToken, &u.CreatedAt)
	return u, err
}

// UpdateFCMTokenParams はプッシュトークン更新クエリのパラメータ。
type UpdateFCMTokenParams struct {
	// UserID は対象ユーザーのID。
	UserID string
	// FCMToken は新しいデバイストークン。登録解除なら無効値。
	FCMToken sql.NullString
}

// UpdateFCMToken はユーザーのプッシュ通知用トークンを更新する。
func (q *Queries) UpdateFCMToken(ctx context.Context, arg UpdateFCMTokenParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET fcm_token = ? WHERE id = ?`, arg.FCMToken, arg.UserID)
	return err
}
