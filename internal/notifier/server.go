package notifier

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"myday/pkg/middleware"
)

// Server は通知サービスのHTTPサーバー。
// cronスケジュールとは別に、スキャンを外部から起動するエンドポイントを提供する。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// scanner は通知スキャナ。
	scanner *Scanner
	// log はロガー。
	log *zap.Logger
}

// NewServer は新しい通知サーバーを生成する。
func NewServer(port string, scanner *Scanner, log *zap.Logger) *Server {
	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(gin.Logger())

	s := &Server{
		router:  router,
		port:    port,
		scanner: scanner,
		log:     log,
	}
	s.setupRoutes()

	return s
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	api := s.router.Group("/api/v1")
	{
		// スキャンの手動起動。外部スケジューラからの定期呼び出しにも対応するため
		// GETとPOSTの両方を受け付ける。
		api.POST("/notify", s.handleNotify())
		api.GET("/notify", s.handleNotify())
	}

	// メトリクス
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "notifier"})
	})
}

// handleNotify は1回の通知スキャンを実行するハンドラ。
// 結果として検出件数を返す。検索自体が失敗した場合のみエラー応答となる。
func (s *Server) handleNotify() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := s.scanner.Scan(c.Request.Context(), time.Now())
		if err != nil {
			s.log.Error("通知スキャンに失敗しました", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "通知スキャンに失敗しました",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   count,
		})
	}
}
