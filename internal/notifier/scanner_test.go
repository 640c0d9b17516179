package notifier

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"myday/internal/store"
)

// sentPush はフェイク送信クライアントが記録した1件の送信内容。
type sentPush struct {
	token string
	title string
	body  string
}

// fakeSender はプッシュ送信を記録するフェイククライアント。
// failTokensに含まれるトークン宛の送信は失敗させる。
type fakeSender struct {
	mu         sync.Mutex
	sent       []sentPush
	failTokens map[string]bool
}

func (f *fakeSender) Send(_ context.Context, token, title, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTokens[token] {
		return errors.New("送信拒否")
	}
	f.sent = append(f.sent, sentPush{token: token, title: title, body: body})
	return nil
}

// sentTo は指定トークン宛に記録された送信を返す。
func (f *fakeSender) sentTo(token string) []sentPush {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []sentPush
	for _, p := range f.sent {
		if p.token == token {
			result = append(result, p)
		}
	}
	return result
}

// count は記録された送信の総数を返す。
func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// setupScanner はテスト用のScannerをインメモリSQLiteで構築する。
func setupScanner(t *testing.T) (*Scanner, *store.Queries, *fakeSender) {
	t.Helper()

	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("インメモリDBの作成に失敗: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	queries := store.New(db)
	sender := &fakeSender{failTokens: make(map[string]bool)}
	scanner := NewScanner(queries, sender, time.UTC, zap.NewNop())
	return scanner, queries, sender
}

// createTestUser はテスト用にユーザーを作成するヘルパー関数。
// tokenが空でなければプッシュトークンも登録する。
func createTestUser(t *testing.T, queries *store.Queries, id, token string) {
	t.Helper()
	err := queries.CreateUser(t.Context(), store.CreateUserParams{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "hash",
		DisplayName:  id,
	})
	if err != nil {
		t.Fatalf("テスト用ユーザーの作成に失敗: %v", err)
	}
	if token != "" {
		err := queries.UpdateFCMToken(t.Context(), store.UpdateFCMTokenParams{
			UserID:   id,
			FCMToken: sql.NullString{String: token, Valid: true},
		})
		if err != nil {
			t.Fatalf("テスト用トークンの登録に失敗: %v", err)
		}
	}
}

// createTestEvent はテスト用にイベントをDBに直接挿入するヘルパー関数。
func createTestEvent(t *testing.T, queries *store.Queries, id, userID, title string, start time.Time) {
	t.Helper()
	err := queries.CreateEvent(t.Context(), store.CreateEventParams{
		ID:        id,
		UserID:    userID,
		Title:     title,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	})
	if err != nil {
		t.Fatalf("テスト用イベントの作成に失敗: %v", err)
	}
}

// createTestTodo はテスト用にTodoをDBに直接挿入するヘルパー関数。
func createTestTodo(t *testing.T, queries *store.Queries, id, userID, title string, due time.Time) {
	t.Helper()
	err := queries.CreateTodo(t.Context(), store.CreateTodoParams{
		ID:      id,
		UserID:  userID,
		Title:   title,
		DueDate: sql.NullTime{Time: due, Valid: true},
	})
	if err != nil {
		t.Fatalf("テスト用Todoの作成に失敗: %v", err)
	}
}

// TestScanEventWindow はイベントの先読みウィンドウ境界を検証する。
// 対象となるのは開始時刻が (now, now+5分] に入るイベントのみ。
func TestScanEventWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    time.Time
		wantSent int
	}{
		{name: "ちょうどnowのイベントは対象外", start: now, wantSent: 0},
		{name: "1分後のイベントは対象", start: now.Add(time.Minute), wantSent: 1},
		{name: "ちょうど5分後のイベントは対象", start: now.Add(5 * time.Minute), wantSent: 1},
		{name: "5分1秒後のイベントは対象外", start: now.Add(5*time.Minute + time.Second), wantSent: 0},
		{name: "過去のイベントは対象外", start: now.Add(-time.Minute), wantSent: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			scanner, queries, sender := setupScanner(t)
			createTestUser(t, queries, "user-1", "tok-1")
			createTestEvent(t, queries, "event-1", "user-1", "ミーティング", tt.start)

			count, err := scanner.Scan(t.Context(), now)
			if err != nil {
				t.Fatalf("Scan()でエラーが発生: %v", err)
			}
			if count != tt.wantSent {
				t.Errorf("count = %d, want %d", count, tt.wantSent)
			}
			if sender.count() != tt.wantSent {
				t.Errorf("送信数 = %d, want %d", sender.count(), tt.wantSent)
			}
		})
	}
}

// TestScanTodoWindow はTodoのローカル日ウィンドウ境界を検証する。
// 対象となるのは期限が [当日0時, 翌日0時) に入るTodoのみ。
func TestScanTodoWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		due      time.Time
		wantSent int
	}{
		{name: "当日0時ちょうどの期限は対象", due: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), wantSent: 1},
		{name: "当日日中の期限は対象", due: time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC), wantSent: 1},
		{name: "当日23時59分59秒の期限は対象", due: time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC), wantSent: 1},
		{name: "翌日0時ちょうどの期限は対象外", due: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), wantSent: 0},
		{name: "前日の期限は対象外", due: time.Date(2026, 3, 13, 23, 59, 59, 0, time.UTC), wantSent: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			scanner, queries, sender := setupScanner(t)
			createTestUser(t, queries, "user-1", "tok-1")
			createTestTodo(t, queries, "todo-1", "user-1", "買い物", tt.due)

			count, err := scanner.Scan(t.Context(), now)
			if err != nil {
				t.Fatalf("Scan()でエラーが発生: %v", err)
			}
			if count != tt.wantSent {
				t.Errorf("count = %d, want %d", count, tt.wantSent)
			}
			if sender.count() != tt.wantSent {
				t.Errorf("送信数 = %d, want %d", sender.count(), tt.wantSent)
			}
		})
	}
}

// TestScanSkipsUnreachableItems は通知不能な対象がエラーなくスキップされることを検証する。
func TestScanSkipsUnreachableItems(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	t.Run("userIdが空の対象はスキップされる", func(t *testing.T) {
		t.Parallel()
		scanner, queries, sender := setupScanner(t)
		createTestEvent(t, queries, "event-1", "", "持ち主不明", now.Add(3*time.Minute))

		count, err := scanner.Scan(t.Context(), now)
		if err != nil {
			t.Fatalf("Scan()でエラーが発生: %v", err)
		}
		// スキップされた対象も検出件数には含まれる
		if count != 1 {
			t.Errorf("count = %d, want 1", count)
		}
		if sender.count() != 0 {
			t.Errorf("送信数 = %d, want 0", sender.count())
		}
	})

	t.Run("ユーザーが存在しない対象はスキップされる", func(t *testing.T) {
		t.Parallel()
		scanner, queries, sender := setupScanner(t)
		createTestEvent(t, queries, "event-1", "ghost-user", "幽霊イベント", now.Add(3*time.Minute))

		count, err := scanner.Scan(t.Context(), now)
		if err != nil {
			t.Fatalf("Scan()でエラーが発生: %v", err)
		}
		if count != 1 {
			t.Errorf("count = %d, want 1", count)
		}
		if sender.count() != 0 {
			t.Errorf("送信数 = %d, want 0", sender.count())
		}
	})

	t.Run("トークン未登録のユーザーはスキップされる", func(t *testing.T) {
		t.Parallel()
		scanner, queries, sender := setupScanner(t)
		createTestUser(t, queries, "user-1", "")
		createTestEvent(t, queries, "event-1", "user-1", "通知できない", now.Add(3*time.Minute))

		count, err := scanner.Scan(t.Context(), now)
		if err != nil {
			t.Fatalf("Scan()でエラーが発生: %v", err)
		}
		if count != 1 {
			t.Errorf("count = %d, want 1", count)
		}
		if sender.count() != 0 {
			t.Errorf("送信数 = %d, want 0", sender.count())
		}
	})
}

// TestScanFailureIsolation はある対象の送信失敗が他の対象に影響しないことを検証する。
func TestScanFailureIsolation(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	scanner, queries, sender := setupScanner(t)

	createTestUser(t, queries, "user-1", "tok-fail")
	createTestUser(t, queries, "user-2", "tok-ok")
	sender.failTokens["tok-fail"] = true

	createTestEvent(t, queries, "event-1", "user-1", "失敗する通知", now.Add(2*time.Minute))
	createTestEvent(t, queries, "event-2", "user-2", "成功する通知", now.Add(3*time.Minute))

	count, err := scanner.Scan(t.Context(), now)
	if err != nil {
		t.Fatalf("Scan()でエラーが発生: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	sent := sender.sentTo("tok-ok")
	if len(sent) != 1 {
		t.Fatalf("tok-ok宛の送信数 = %d, want 1", len(sent))
	}
	if sent[0].body != "成功する通知" {
		t.Errorf("body = %q, want %q", sent[0].body, "成功する通知")
	}
}

// TestScanFallbackBody はタイトルが空の対象に既定の本文が使われることを検証する。
func TestScanFallbackBody(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	scanner, queries, sender := setupScanner(t)

	createTestUser(t, queries, "user-1", "tok-1")
	createTestEvent(t, queries, "event-1", "user-1", "", now.Add(2*time.Minute))

	if _, err := scanner.Scan(t.Context(), now); err != nil {
		t.Fatalf("Scan()でエラーが発生: %v", err)
	}

	sent := sender.sentTo("tok-1")
	if len(sent) != 1 {
		t.Fatalf("送信数 = %d, want 1", len(sent))
	}
	if sent[0].title != notificationTitle {
		t.Errorf("title = %q, want %q", sent[0].title, notificationTitle)
	}
	if sent[0].body != fallbackBody {
		t.Errorf("body = %q, want %q", sent[0].body, fallbackBody)
	}
}

// TestScanRepeatsEveryInvocation はウィンドウ内に留まる対象が
// スキャンのたびに再通知されることを検証する（at-least-once配信）。
func TestScanRepeatsEveryInvocation(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	scanner, queries, sender := setupScanner(t)

	createTestUser(t, queries, "user-1", "tok-1")
	createTestTodo(t, queries, "todo-1", "user-1", "毎分リマインド", now)

	for i := 0; i < 3; i++ {
		tick := now.Add(time.Duration(i) * time.Minute)
		if _, err := scanner.Scan(t.Context(), tick); err != nil {
			t.Fatalf("Scan()でエラーが発生: %v", err)
		}
	}

	if got := len(sender.sentTo("tok-1")); got != 3 {
		t.Errorf("3回のスキャンでの送信数 = %d, want 3", got)
	}
}

// TestScanMixedBatch はイベントとTodoが同一バッチで処理されることを検証する。
// 仕様のエンドツーエンドシナリオに対応する。
func TestScanMixedBatch(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	scanner, queries, sender := setupScanner(t)

	createTestUser(t, queries, "user-1", "tokA")
	createTestUser(t, queries, "user-2", "tokB")
	createTestEvent(t, queries, "event-1", "user-1", "Standup", now.Add(3*time.Minute))
	createTestTodo(t, queries, "todo-1", "user-2", "Buy milk", now)

	count, err := scanner.Scan(t.Context(), now)
	if err != nil {
		t.Fatalf("Scan()でエラーが発生: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	sentA := sender.sentTo("tokA")
	if len(sentA) != 1 || sentA[0].body != "Standup" {
		t.Errorf("tokA宛の送信 = %+v, want body=Standup 1件", sentA)
	}
	sentB := sender.sentTo("tokB")
	if len(sentB) != 1 || sentB[0].body != "Buy milk" {
		t.Errorf("tokB宛の送信 = %+v, want body=Buy milk 1件", sentB)
	}
}

// TestScanManyItems は送信上限を超える件数でも全件処理されることを検証する。
func TestScanManyItems(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	scanner, queries, sender := setupScanner(t)

	const n = 30
	for i := 0; i < n; i++ {
		userID := fmt.Sprintf("user-%d", i)
		createTestUser(t, queries, userID, fmt.Sprintf("tok-%d", i))
		createTestEvent(t, queries, fmt.Sprintf("event-%d", i), userID, "一斉イベント", now.Add(2*time.Minute))
	}

	count, err := scanner.Scan(t.Context(), now)
	if err != nil {
		t.Fatalf("Scan()でエラーが発生: %v", err)
	}
	if count != n {
		t.Errorf("count = %d, want %d", count, n)
	}
	if sender.count() != n {
		t.Errorf("送信数 = %d, want %d", sender.count(), n)
	}
}

// TestScanQueryFailure はデータベース障害時にエラーが返ることを検証する。
func TestScanQueryFailure(t *testing.T) {
	t.Parallel()

	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("インメモリDBの作成に失敗: %v", err)
	}
	// 検索が失敗する状況を作るため接続を先に閉じる
	_ = db.Close()

	scanner := NewScanner(store.New(db), &fakeSender{}, time.UTC, zap.NewNop())
	if _, err := scanner.Scan(t.Context(), time.Now()); err == nil {
		t.Error("閉じられたDBに対するScan()がエラーを返さなかった")
	}
}
