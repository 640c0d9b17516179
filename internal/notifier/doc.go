// Package notifier は通知サービスの内部実装を提供する。
//
// 直近5分以内に始まるイベントと今日が期限のTodoを定期的にスキャンし、
// 所有ユーザーのデバイストークン宛にプッシュ通知を配信する。
// 毎分のcronスケジュールとHTTPエンドポイントの両方から起動できる。
package notifier
