package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"myday/internal/store"
	"myday/pkg/middleware"
)

// createEventRequest はイベント作成リクエストのJSON構造。
type createEventRequest struct {
	// Title はイベントのタイトル。
	Title string `json:"title" binding:"required"`
	// StartTime は開始日時（RFC3339形式）。
	StartTime time.Time `json:"start_time" binding:"required"`
	// EndTime は終了日時（RFC3339形式）。
	EndTime time.Time `json:"end_time" binding:"required"`
}

// eventResponse はイベントのJSONレスポンス構造。
type eventResponse struct {
	// ID はイベントの一意識別子。
	ID string `json:"id"`
	// Title はイベントのタイトル。
	Title string `json:"title"`
	// StartTime は開始日時（RFC3339形式）。
	StartTime string `json:"start_time"`
	// EndTime は終了日時（RFC3339形式）。
	EndTime string `json:"end_time"`
	// CreatedAt は作成日時（RFC3339形式）。
	CreatedAt string `json:"created_at"`
}

// toEventResponse はDB行をJSONレスポンスに変換する。
func toEventResponse(e store.Event) eventResponse {
	return eventResponse{
		ID:        e.ID,
		Title:     e.Title,
		StartTime: e.StartTime.Format(time.RFC3339),
		EndTime:   e.EndTime.Format(time.RFC3339),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

// handleCreateEvent はカレンダーイベントを作成するハンドラ。
func (s *Server) handleCreateEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		var req createEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です"})
			return
		}
		if req.EndTime.Before(req.StartTime) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "終了日時は開始日時より後である必要があります"})
			return
		}

		eventID := uuid.New().String()
		if err := s.queries.CreateEvent(c.Request.Context(), store.CreateEventParams{
			ID:        eventID,
			UserID:    userID,
			Title:     req.Title,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "イベントの作成に失敗しました"})
			s.log.Error("イベント作成エラー", zap.Error(err))
			return
		}

		event, err := s.queries.GetEventByID(c.Request.Context(), eventID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "イベントの取得に失敗しました"})
			s.log.Error("イベント取得エラー", zap.Error(err))
			return
		}

		c.JSON(http.StatusCreated, toEventResponse(event))
	}
}

// handleListEvents は認証済みユーザーのイベント一覧を返すハンドラ。
// ?date=YYYY-MM-DD を指定すると、ローカルタイムゾーンでその日に
// 始まるイベントのみに絞り込む。
func (s *Server) handleListEvents() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		events, err := s.queries.ListEventsByUserID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "イベント一覧の取得に失敗しました"})
			s.log.Error("イベント一覧取得エラー", zap.Error(err))
			return
		}

		if dateStr := c.Query("date"); dateStr != "" {
			day, err := time.ParseInLocation("2006-01-02", dateStr, s.loc)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "dateはYYYY-MM-DD形式で指定してください"})
				return
			}
			next := day.AddDate(0, 0, 1)
			filtered := make([]store.Event, 0, len(events))
			for _, e := range events {
				start := e.StartTime.In(s.loc)
				if !start.Before(day) && start.Before(next) {
					filtered = append(filtered, e)
				}
			}
			events = filtered
		}

		responses := make([]eventResponse, 0, len(events))
		for _, e := range events {
			responses = append(responses, toEventResponse(e))
		}
		c.JSON(http.StatusOK, responses)
	}
}

// handleDeleteEvent はカレンダーイベントを削除するハンドラ。
func (s *Server) handleDeleteEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		eventID := c.Param("id")
		event, err := s.queries.GetEventByID(c.Request.Context(), eventID)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "イベントが見つかりません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "イベントの取得に失敗しました"})
			s.log.Error("イベント取得エラー", zap.Error(err))
			return
		}
		if event.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "このイベントを操作する権限がありません"})
			return
		}

		if err := s.queries.DeleteEvent(c.Request.Context(), eventID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "イベントの削除に失敗しました"})
			s.log.Error("イベント削除エラー", zap.Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "イベントを削除しました"})
	}
}

// handleExportICS は認証済みユーザーの全イベントをiCalendar形式で返すハンドラ。
// カレンダーアプリへの取り込みに使用する。
func (s *Server) handleExportICS() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		events, err := s.queries.ListEventsByUserID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "イベント一覧の取得に失敗しました"})
			s.log.Error("イベント一覧取得エラー", zap.Error(err))
			return
		}

		cal := ics.NewCalendar()
		cal.SetMethod(ics.MethodPublish)
		cal.SetProductId("-//myday//calendar//JA")
		for _, e := range events {
			ev := cal.AddEvent(fmt.Sprintf("%s@myday", e.ID))
			ev.SetDtStampTime(e.CreatedAt)
			ev.SetStartAt(e.StartTime)
			ev.SetEndAt(e.EndTime)
			ev.SetSummary(e.Title)
		}

		c.Header("Content-Disposition", `attachment; filename="myday.ics"`)
		c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
	}
}
