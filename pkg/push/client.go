package push

import (
	"context"
	"errors"
	"fmt"

	"myday/pkg/httpclient"
)

// sendPath はFCM互換ゲートウェイの通知送信エンドポイント。
const sendPath = "/fcm/send"

// Client はプッシュ通知ゲートウェイへの送信クライアント。
type Client struct {
	// http はゲートウェイとの通信に使用するHTTPクライアント。
	http *httpclient.Client
}

// New は新しいプッシュ通知クライアントを生成する。
// serverKeyはゲートウェイのサーバーキー。
func New(gatewayURL, serverKey string) *Client {
	return &Client{
		http: httpclient.NewWithAuth(gatewayURL, "key="+serverKey),
	}
}

// notification は通知の表示内容。
type notification struct {
	// Title は通知のタイトル。
	Title string `json:"title"`
	// Body は通知の本文。
	Body string `json:"body"`
}

// sendRequest は通知送信リクエストのJSON構造。
type sendRequest struct {
	// To は宛先のデバイストークン。
	To string `json:"to"`
	// Notification は通知の表示内容。
	Notification notification `json:"notification"`
}

// Send はデバイストークン宛に1件のプッシュ通知を送信する。
// ゲートウェイが2xx以外を返した場合はエラーを返す。
func (c *Client) Send(ctx context.Context, token, title, body string) error {
	if token == "" {
		return errors.New("デバイストークンが空です")
	}

	req := sendRequest{
		To: token,
		Notification: notification{
			Title: title,
			Body:  body,
		},
	}
	if err := c.http.PostJSON(ctx, sendPath, req, nil); err != nil {
		return fmt.Errorf("プッシュ通知の送信に失敗: %w", err)
	}
	return nil
}
