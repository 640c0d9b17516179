// Package push はモバイル端末へのプッシュ通知送信を提供する。
//
// FCM互換のHTTPゲートウェイに対してデバイストークン宛の
// 通知メッセージを送信する。配信確認は行わない（fire-and-forget）。
package push
