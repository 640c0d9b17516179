package ai

import (
	"context"
	"errors"
	"fmt"

	"myday/pkg/httpclient"
)

// Client はOpenAI互換API（/chat/completions）への呼び出しクライアント。
type Client struct {
	// http はAPIとの通信に使用するHTTPクライアント。
	http *httpclient.Client
	// model は補完に使用するモデル名。
	model string
}

// New は新しいAIクライアントを生成する。
// baseURLはAPIのベースURL（例: "https://api.openai.com/v1"）。
func New(baseURL, apiKey, model string) *Client {
	return &Client{
		http:  httpclient.NewWithAuth(baseURL, "Bearer "+apiKey),
		model: model,
	}
}

// chatMessage はチャット補完の1メッセージ。
type chatMessage struct {
	// Role はメッセージの役割（user/assistant/system）。
	Role string `json:"role"`
	// Content はメッセージ本文。
	Content string `json:"content"`
}

// chatRequest はチャット補完リクエストのJSON構造。
type chatRequest struct {
	// Model は使用するモデル名。
	Model string `json:"model"`
	// Messages は会話履歴。
	Messages []chatMessage `json:"messages"`
	// Temperature は生成のランダム性。
	Temperature float64 `json:"temperature"`
}

// chatResponse はチャット補完レスポンスのJSON構造。
type chatResponse struct {
	// Choices は生成候補のリスト。
	Choices []struct {
		// Message は生成されたメッセージ。
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete はプロンプトを送信し、最初の生成候補の本文を返す。
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	}

	var resp chatResponse
	if err := c.http.PostJSON(ctx, "/chat/completions", req, &resp); err != nil {
		return "", fmt.Errorf("チャット補完APIの呼び出しに失敗: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("チャット補完APIが候補を返しませんでした")
	}
	return resp.Choices[0].Message.Content, nil
}
