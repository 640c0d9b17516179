package store

import (
	"database/sql"
	"time"
)

// User はアプリケーションのユーザーアカウント。
type User struct {
	// ID はユーザーの一意識別子（UUID）。
	ID string
	// Email はログイン用メールアドレス。
	Email string
	// PasswordHash はbcryptでハッシュ化されたパスワード。
	PasswordHash string
	// DisplayName は表示名。
	DisplayName string
	// FCMToken はプッシュ通知用デバイストークン。未登録なら無効値。
	FCMToken sql.NullString
	// CreatedAt はアカウント作成日時。
	CreatedAt time.Time
}

// Todo はユーザーのTodo項目。
type Todo struct {
	// ID はTodoの一意識別子（UUID）。
	ID string
	// UserID は所有ユーザーのID。
	UserID string
	// Title はTodoのタイトル。
	Title string
	// Completed は完了フラグ。
	Completed int64
	// DueDate は期限日時。期限なしなら無効値。
	DueDate sql.NullTime
	// CreatedAt は作成日時。
	CreatedAt time.Time
}

// Event はカレンダーイベント。
type Event struct {
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
	// CreatedAt は作成日時。
	CreatedAt time.Time
}

// SleepSchedule は特定曜日の就寝・起床時刻設定。
type SleepSchedule struct {
	// UserID は所有ユーザーのID。
	UserID string
	// Day は曜日（monday〜sunday）。
	Day string
	// Bedtime は就寝時刻（HH:mm形式）。
	Bedtime string
	// WakeUpTime は起床時刻（HH:mm形式）。
	WakeUpTime string
}
