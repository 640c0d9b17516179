package store

import "database/sql"

// Queries はデータベースへのクエリ実行オブジェクト。
// sqlcの生成コードと同じ形式で、全クエリをメソッドとして提供する。
type Queries struct {
	db *sql.DB
}

// New は新しいQueriesを生成する。
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}
