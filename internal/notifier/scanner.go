package notifier

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"myday/internal/store"
)

// lookahead は直近イベントを拾う先読み幅。
const lookahead = 5 * time.Minute

// cronSpec はスキャンの実行周期（毎分）。
const cronSpec = "* * * * *"

// sendConcurrency は1回のスキャンで同時に実行する送信処理の上限。
const sendConcurrency = 8

// 通知の文言。本文は対象のタイトルがあればそれを使う。
const (
	notificationTitle = "リマインダー 📅"
	fallbackBody      = "今日の予定があります"
)

// Sender はプッシュ通知を1件送信するインターフェース。
// push.Clientが実装する。
type Sender interface {
	Send(ctx context.Context, token, title, body string) error
}

// Scanner は通知対象を定期的にスキャンして配信するバッチ処理。
//
// 1回のスキャンは独立した完全なバッチであり、カーソルや
// 送信済み状態は持たない。同じ対象がウィンドウ内に留まる限り、
// スキャンのたびに再通知される（at-least-once配信）。
type Scanner struct {
	// queries はデータベースへのクエリ実行オブジェクト。読み取り専用で使用する。
	queries *store.Queries
	// sender はプッシュ通知の送信クライアント。
	sender Sender
	// loc はTodoの「今日」を判定するローカルタイムゾーン。
	loc *time.Location
	// log はロガー。
	log *zap.Logger
}

// NewScanner は新しいScannerを生成する。
// 依存クライアントはプロセス起動時に一度だけ構築し、全スキャンで再利用する。
func NewScanner(queries *store.Queries, sender Sender, loc *time.Location, log *zap.Logger) *Scanner {
	return &Scanner{
		queries: queries,
		sender:  sender,
		loc:     loc,
		log:     log,
	}
}

// dueItem は通知対象の1項目。イベントとTodoを同じ形に揃える。
type dueItem struct {
	// userID は所有ユーザーのID。空なら通知不能としてスキップする。
	userID string
	// title は通知本文に使うタイトル。
	title string
}

// Scan は1回のスキャンを実行し、検出した通知対象の件数を返す。
//
// nowはこの呼び出し内のすべてのウィンドウ計算に一貫して使用される。
// イベントは (now, now+5分]、Todoはローカル日の [当日0時, 翌日0時) が対象。
// 個々の送信失敗はログに記録して握りつぶし、バッチ全体には影響させない。
// エラーを返すのはデータベースの検索自体が失敗した場合のみ。
func (s *Scanner) Scan(ctx context.Context, now time.Time) (int, error) {
	metricScansTotal.Inc()

	events, err := s.queries.ListEventsStartingBetween(ctx, store.ListEventsStartingBetweenParams{
		After: now,
		Until: now.Add(lookahead),
	})
	if err != nil {
		return 0, fmt.Errorf("直近イベントの検索に失敗: %w", err)
	}

	local := now.In(s.loc)
	startOfDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	todos, err := s.queries.ListTodosDueBetween(ctx, store.ListTodosDueBetweenParams{
		Start: startOfDay,
		End:   startOfDay.AddDate(0, 0, 1),
	})
	if err != nil {
		return 0, fmt.Errorf("本日期限Todoの検索に失敗: %w", err)
	}

	items := make([]dueItem, 0, len(events)+len(todos))
	for _, e := range events {
		items = append(items, dueItem{userID: e.UserID, title: e.Title})
	}
	for _, t := range todos {
		items = append(items, dueItem{userID: t.UserID, title: t.Title})
	}
	metricDueItemsTotal.Add(float64(len(items)))

	// 項目間に依存関係はないため、上限付きで並列に送信する。
	// すべての送信が完了（成功または失敗）するまでスキャンは終わらない。
	var g errgroup.Group
	g.SetLimit(sendConcurrency)
	for _, item := range items {
		g.Go(func() error {
			s.dispatch(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	s.log.Info("通知スキャンが完了しました",
		zap.Int("events", len(events)),
		zap.Int("todos", len(todos)),
		zap.Time("now", now),
	)
	return len(items), nil
}

// dispatch は1件の通知対象を処理する。
// 所有ユーザーが特定できない、またはトークン未登録の場合は
// エラーではなく通常のスキップとして扱う。
func (s *Scanner) dispatch(ctx context.Context, item dueItem) {
	if item.userID == "" {
		metricSkippedTotal.WithLabelValues(skipReasonNoUserID).Inc()
		return
	}

	user, err := s.queries.GetUserByID(ctx, item.userID)
	if errors.Is(err, sql.ErrNoRows) {
		metricSkippedTotal.WithLabelValues(skipReasonUserNotFound).Inc()
		return
	}
	if err != nil {
		s.log.Warn("ユーザーの取得に失敗しました",
			zap.String("user_id", item.userID), zap.Error(err))
		metricSendFailuresTotal.Inc()
		return
	}
	if !user.FCMToken.Valid || user.FCMToken.String == "" {
		metricSkippedTotal.WithLabelValues(skipReasonNoToken).Inc()
		return
	}

	body := item.title
	if body == "" {
		body = fallbackBody
	}
	if err := s.sender.Send(ctx, user.FCMToken.String, notificationTitle, body); err != nil {
		s.log.Warn("プッシュ通知の送信に失敗しました",
			zap.String("user_id", item.userID), zap.Error(err))
		metricSendFailuresTotal.Inc()
		return
	}
	metricSentTotal.Inc()
}

// Run は毎分のスキャンをcronスケジュールで実行する。
// ctxがキャンセルされるまでブロックし、実行中のスキャンの完了を待ってから戻る。
func (s *Scanner) Run(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(cronSpec, func() {
		count, err := s.Scan(ctx, time.Now())
		if err != nil {
			// 次の実行周期が自然なリトライとなるため、ここではログのみ。
			s.log.Error("通知スキャンに失敗しました", zap.Error(err))
			return
		}
		s.log.Debug("定期スキャンを実行しました", zap.Int("count", count))
	})
	if err != nil {
		return fmt.Errorf("cronスケジュールの登録に失敗: %w", err)
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info("通知スキャナを停止しました")
	return nil
}
