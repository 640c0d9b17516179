// Package api はMy Day本体のAPIサービスを提供する。
//
// メールアドレスとパスワードによる認証、Todoとカレンダーイベントの
// CRUD、睡眠スケジュールの管理とAI推薦、プッシュ通知用トークンの
// 登録を1つのHTTPサーバーとして公開する。
package api
