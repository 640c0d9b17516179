// Package config は環境変数からアプリケーション設定を読み込む。
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config は全サービス共通のアプリケーション設定。
// 環境変数から読み込む。デフォルト値はローカル開発向け。
type Config struct {
	// APIPort はAPIサービスのリッスンポート。
	APIPort string `envconfig:"API_PORT" default:"8080"`
	// NotifierPort は通知サービスのリッスンポート。
	NotifierPort string `envconfig:"NOTIFIER_PORT" default:"8090"`
	// DBPath はSQLiteデータベースファイルのパス。
	DBPath string `envconfig:"DB_PATH" default:"./data/myday.db"`
	// JWTSecret はJWT署名用の秘密鍵。本番環境では必ず上書きすること。
	JWTSecret string `envconfig:"JWT_SECRET" default:"dev-secret-key"`
	// FrontendURL はCORSで許可するフロントエンドのオリジン。
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
	// PushGatewayURL はプッシュ通知ゲートウェイのベースURL。
	PushGatewayURL string `envconfig:"PUSH_GATEWAY_URL" default:"https://fcm.googleapis.com"`
	// PushServerKey はプッシュ通知ゲートウェイのサーバーキー。
	PushServerKey string `envconfig:"PUSH_SERVER_KEY"`
	// AIBaseURL はAI推薦に使うOpenAI互換APIのベースURL。
	AIBaseURL string `envconfig:"AI_BASE_URL" default:"https://api.openai.com/v1"`
	// AIAPIKey はAI APIの認証キー。
	AIAPIKey string `envconfig:"AI_API_KEY"`
	// AIModel はAI推薦に使うモデル名。
	AIModel string `envconfig:"AI_MODEL" default:"gpt-4o-mini"`
	// Timezone はTodoの「今日」を判定するローカルタイムゾーン。
	Timezone string `envconfig:"TIMEZONE" default:"Asia/Tokyo"`
	// LogLevel はログレベル（debug|info|warn|error）。
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load は環境変数からConfigを読み込む。
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("環境変数の読み込みに失敗: %w", err)
	}
	return &c, nil
}

// Location はTimezoneをtime.Locationとして解決する。
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("タイムゾーン %q の解決に失敗: %w", c.Timezone, err)
	}
	return loc, nil
}
