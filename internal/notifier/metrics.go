package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// metricScansTotal は実行されたスキャンの総数。
	metricScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "myday_notifier_scans_total",
		Help: "実行された通知スキャンの総数",
	})

	// metricDueItemsTotal はスキャンで検出された通知対象の総数。
	metricDueItemsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "myday_notifier_due_items_total",
		Help: "スキャンで検出された通知対象の総数",
	})

	// metricSentTotal は送信に成功したプッシュ通知の総数。
	metricSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "myday_notifier_notifications_sent_total",
		Help: "送信に成功したプッシュ通知の総数",
	})

	// metricSendFailuresTotal は送信に失敗したプッシュ通知の総数。
	metricSendFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "myday_notifier_send_failures_total",
		Help: "送信に失敗したプッシュ通知の総数",
	})

	// metricSkippedTotal は送信をスキップした通知対象の総数（理由別）。
	metricSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myday_notifier_skipped_total",
		Help: "送信をスキップした通知対象の総数（理由別）",
	}, []string{"reason"})
)

// スキップ理由のラベル値。
const (
	skipReasonNoUserID     = "no_user_id"
	skipReasonUserNotFound = "user_not_found"
	skipReasonNoToken      = "no_token"
)
