package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"myday/internal/store"
	"myday/pkg/middleware"
)

// updatePushTokenRequest はプッシュトークン登録リクエストのJSON構造。
type updatePushTokenRequest struct {
	// Token は端末が発行したデバイストークン。
	Token string `json:"token" binding:"required"`
}

// handleGetCurrentUser は認証済みユーザーのプロフィールを返すハンドラ。
func (s *Server) handleGetCurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		user, err := s.queries.GetUserByID(c.Request.Context(), userID)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ユーザーが見つかりません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの取得に失敗しました"})
			s.log.Error("ユーザー取得エラー", zap.Error(err))
			return
		}

		c.JSON(http.StatusOK, toUserResponse(user))
	}
}

// handleUpdatePushToken はプッシュ通知用デバイストークンを登録するハンドラ。
func (s *Server) handleUpdatePushToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		var req updatePushTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です"})
			return
		}

		if err := s.queries.UpdateFCMToken(c.Request.Context(), store.UpdateFCMTokenParams{
			UserID:   userID,
			FCMToken: sql.NullString{String: req.Token, Valid: true},
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークンの登録に失敗しました"})
			s.log.Error("プッシュトークン登録エラー", zap.Error(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "プッシュ通知用トークンを登録しました"})
	}
}

// handleDeletePushToken はプッシュ通知用デバイストークンを登録解除するハンドラ。
func (s *Server) handleDeletePushToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		if err := s.queries.UpdateFCMToken(c.Request.Context(), store.UpdateFCMTokenParams{
			UserID:   userID,
			FCMToken: sql.NullString{},
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークンの登録解除に失敗しました"})
			s.log.Error("プッシュトークン解除エラー", zap.Error(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "プッシュ通知用トークンを登録解除しました"})
	}
}
