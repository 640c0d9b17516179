package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// "sqlite"ドライバを登録する（Pure Go実装）。
	_ "modernc.org/sqlite"
)

// Open はSQLiteデータベースを開き、スキーマを適用する。
// WALモードとビジータイムアウトを有効にし、APIサービスと
// 通知サービスが同一ファイルを共有できるようにする。
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("データディレクトリの作成に失敗: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := InitSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenInMemory はテスト用にインメモリデータベースを開き、スキーマを適用する。
func OpenInMemory() (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("インメモリデータベースの作成に失敗: %w", err)
	}
	// インメモリDBは接続ごとに独立したデータベースになるため、接続を1本に固定する。
	db.SetMaxOpenConns(1)
	if err := InitSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
