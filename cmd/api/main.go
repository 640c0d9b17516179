// My Day APIサービスのエントリポイント。
// 認証・Todo・カレンダーイベント・睡眠スケジュールのAPIを提供する。
package main

import (
	"os"

	"go.uber.org/zap"

	"myday/internal/api"
	"myday/internal/config"
	"myday/internal/logger"
	"myday/internal/store"
	"myday/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// ロガー初期化前のため標準エラー出力に直接書く。
		_, _ = os.Stderr.WriteString("設定の読み込みに失敗: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("ロガーの初期化に失敗: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("データベースの初期化に失敗", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	aiClient := ai.New(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel)

	server, err := api.NewServer(cfg, db, aiClient, log)
	if err != nil {
		log.Fatal("APIサーバーの初期化に失敗", zap.Error(err))
	}

	log.Info("APIサービスを起動します", zap.String("port", cfg.APIPort))
	if err := server.Run(); err != nil {
		log.Fatal("APIサービスの起動に失敗", zap.Error(err))
	}
}
