// Package httpclient は外部サービスへのHTTP通信を行うクライアントを提供する。
//
// プッシュ通知ゲートウェイへの送信、AI APIの呼び出しなど、
// 外部サービスとのJSON通信パターンを統一する。
package httpclient
