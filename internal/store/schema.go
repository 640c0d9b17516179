package store

import (
	"database/sql"
	"fmt"
)

// スキーマ定義。時刻カラムはすべてUTCで保存する。
const schema = `
CREATE TABLE IF NOT EXISTS users (
    -- ユーザーの一意識別子（UUID）
    id TEXT PRIMARY KEY,
    -- ログイン用メールアドレス
    email TEXT NOT NULL UNIQUE,
    -- bcryptでハッシュ化されたパスワード
    password_hash TEXT NOT NULL,
    -- 表示名
    display_name TEXT NOT NULL,
    -- プッシュ通知用デバイストークン。未登録ならNULL
    fcm_token TEXT,
    -- アカウント作成日時
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS todos (
    -- Todoの一意識別子（UUID）
    id TEXT PRIMARY KEY,
    -- 所有ユーザーのID
    user_id TEXT NOT NULL,
    -- Todoのタイトル
    title TEXT NOT NULL,
    -- 完了フラグ
    completed INTEGER NOT NULL DEFAULT 0,
    -- 期限日時。期限なしならNULL
    due_date DATETIME,
    -- 作成日時
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

-- ユーザーごとの一覧取得を高速化するインデックス。
CREATE INDEX IF NOT EXISTS idx_todos_user_id ON todos(user_id);
-- 通知スキャンの期限範囲検索を高速化するインデックス。
CREATE INDEX IF NOT EXISTS idx_todos_due_date ON todos(due_date);

CREATE TABLE IF NOT EXISTS events (
    -- イベントの一意識別子（UUID）
    id TEXT PRIMARY KEY,
    -- 所有ユーザーのID
    user_id TEXT NOT NULL,
    -- イベントのタイトル
    title TEXT NOT NULL,
    -- 開始日時
    start_time DATETIME NOT NULL,
    -- 終了日時
    end_time DATETIME NOT NULL,
    -- 作成日時
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

-- ユーザーごとの一覧取得を高速化するインデックス。
CREATE INDEX IF NOT EXISTS idx_events_user_id ON events(user_id);
-- 通知スキャンの開始時刻範囲検索を高速化するインデックス。
CREATE INDEX IF NOT EXISTS idx_events_start_time ON events(start_time);

CREATE TABLE IF NOT EXISTS sleep_schedules (
    -- 所有ユーザーのID
    user_id TEXT NOT NULL,
    -- 曜日（monday〜sunday）
    day TEXT NOT NULL,
    -- 就寝時刻（HH:mm形式）
    bedtime TEXT NOT NULL,
    -- 起床時刻（HH:mm形式）
    wake_up_time TEXT NOT NULL,
    PRIMARY KEY (user_id, day)
);
`

// InitSchema はSQLiteデータベースにスキーマを適用する。
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("スキーマの適用に失敗: %w", err)
	}
	return nil
}
