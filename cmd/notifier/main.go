// 通知サービスのエントリポイント。
// 直近のイベントと本日期限のTodoを毎分スキャンし、
// プッシュ通知を配信する。HTTPからの手動起動にも対応する。
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"myday/internal/config"
	"myday/internal/logger"
	"myday/internal/notifier"
	"myday/internal/store"
	"myday/pkg/push"
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

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("タイムゾーンの解決に失敗", zap.Error(err))
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("データベースの初期化に失敗", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	pushClient := push.New(cfg.PushGatewayURL, cfg.PushServerKey)
	scanner := notifier.NewScanner(store.New(db), pushClient, loc, log)
	server := notifier.NewServer(cfg.NotifierPort, scanner, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := scanner.Run(ctx); err != nil {
			log.Fatal("定期スキャンの起動に失敗", zap.Error(err))
		}
	}()

	log.Info("通知サービスを起動します", zap.String("port", cfg.NotifierPort))
	if err := server.Run(); err != nil {
		log.Fatal("通知サービスの起動に失敗", zap.Error(err))
	}
}
