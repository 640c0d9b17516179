package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"myday/internal/config"
	"myday/internal/store"
	"myday/pkg/middleware"
)

// Recommender は睡眠スケジュールのAI推薦を生成するインターフェース。
// ai.Clientが実装する。
type Recommender interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Server はMy Day APIサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// queries はデータベースへのクエリ実行オブジェクト。
	queries *store.Queries
	// recommender はAI推薦の生成クライアント。
	recommender Recommender
	// jwtSecret はJWT署名用の秘密鍵。
	jwtSecret string
	// loc はカレンダーの日付判定に使うローカルタイムゾーン。
	loc *time.Location
	// log はロガー。
	log *zap.Logger
}

// NewServer は新しいAPIサーバーを生成する。
// データベース接続とAIクライアントは呼び出し側が構築して注入する。
func NewServer(cfg *config.Config, db *sql.DB, recommender Recommender, log *zap.Logger) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(gin.Logger())
	router.Use(middleware.CORS([]string{cfg.FrontendURL}))

	s := &Server{
		router:      router,
		port:        cfg.APIPort,
		queries:     store.New(db),
		recommender: recommender,
		jwtSecret:   cfg.JWTSecret,
		loc:         loc,
		log:         log,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// 認証エンドポイント（認証不要）
	auth := s.router.Group("/auth")
	{
		auth.POST("/signup", s.handleSignup())
		auth.POST("/login", s.handleLogin())
	}

	// 認証必須のAPIエンドポイント
	api := s.router.Group("/api/v1")
	api.Use(middleware.JWTAuth(s.jwtSecret))
	{
		// ユーザー情報
		api.GET("/me", s.handleGetCurrentUser())
		api.PUT("/me/push-token", s.handleUpdatePushToken())
		api.DELETE("/me/push-token", s.handleDeletePushToken())

		todos := api.Group("/todos")
		{
			// Todo作成
			todos.POST("", s.handleCreateTodo())
			// Todo一覧取得
			todos.GET("", s.handleListTodos())
			// Todo更新
			todos.PUT("/:id", s.handleUpdateTodo())
			// Todo削除
			todos.DELETE("/:id", s.handleDeleteTodo())
		}

		events := api.Group("/events")
		{
			// イベント作成
			events.POST("", s.handleCreateEvent())
			// イベント一覧取得（?date=YYYY-MM-DDで日付絞り込み）
			events.GET("", s.handleListEvents())
			// イベント削除
			events.DELETE("/:id", s.handleDeleteEvent())
			// iCalendar形式でのエクスポート
			events.GET("/export.ics", s.handleExportICS())
		}

		sleepGroup := api.Group("/sleep")
		{
			// 週間スケジュール取得
			sleepGroup.GET("/schedule", s.handleGetSleepSchedule())
			// 週間スケジュール置き換え
			sleepGroup.PUT("/schedule", s.handlePutSleepSchedule())
			// AI推薦の生成
			sleepGroup.POST("/recommendation", s.handleSleepRecommendation())
		}
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "api"})
	})
}
