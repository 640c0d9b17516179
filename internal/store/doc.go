// Package store はMy Dayの永続化層を提供する。
//
// 単一のSQLiteデータベースにユーザー・Todo・カレンダーイベント・
// 睡眠スケジュールを保存する。APIサービスが読み書きし、
// 通知サービスは読み取り専用でアクセスする。
package store
