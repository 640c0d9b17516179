package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"myday/internal/store"
	"myday/pkg/middleware"
)

// signupRequest はサインアップリクエストのJSON構造。
type signupRequest struct {
	// Email はログイン用メールアドレス。
	Email string `json:"email" binding:"required,email"`
	// Password はパスワード（8文字以上）。
	Password string `json:"password" binding:"required,min=8"`
	// DisplayName は表示名。
	DisplayName string `json:"display_name" binding:"required"`
}

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	// Email はログイン用メールアドレス。
	Email string `json:"email" binding:"required,email"`
	// Password はパスワード。
	Password string `json:"password" binding:"required"`
}

// userResponse はユーザー情報のJSONレスポンス構造。
// パスワードハッシュとトークン値そのものは含めない。
type userResponse struct {
	// ID はユーザーの一意識別子。
	ID string `json:"id"`
	// Email はメールアドレス。
	Email string `json:"email"`
	// DisplayName は表示名。
	DisplayName string `json:"display_name"`
	// HasPushToken はプッシュ通知用トークンが登録済みかどうか。
	HasPushToken bool `json:"has_push_token"`
	// CreatedAt はアカウント作成日時（RFC3339形式）。
	CreatedAt string `json:"created_at"`
}

// toUserResponse はDB行をJSONレスポンスに変換する。
func toUserResponse(u store.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		HasPushToken: u.FCMToken.Valid && u.FCMToken.String != "",
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
	}
}

// handleSignup は新規ユーザーを登録しJWTトークンを発行するハンドラ。
func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です"})
			return
		}

		if _, err := s.queries.GetUserByEmail(c.Request.Context(), req.Email); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "このメールアドレスは既に登録されています"})
			return
		} else if !errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの確認に失敗しました"})
			s.log.Error("ユーザー確認エラー", zap.Error(err))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "パスワードの処理に失敗しました"})
			s.log.Error("パスワードハッシュ化エラー", zap.Error(err))
			return
		}

		userID := uuid.New().String()
		if err := s.queries.CreateUser(c.Request.Context(), store.CreateUserParams{
			ID:           userID,
			Email:        req.Email,
			PasswordHash: string(hash),
			DisplayName:  req.DisplayName,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの作成に失敗しました"})
			s.log.Error("ユーザー作成エラー", zap.Error(err))
			return
		}

		token, err := middleware.GenerateJWT(s.jwtSecret, userID, req.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークンの発行に失敗しました"})
			s.log.Error("JWT発行エラー", zap.Error(err))
			return
		}

		user, err := s.queries.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの取得に失敗しました"})
			s.log.Error("ユーザー取得エラー", zap.Error(err))
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"token": token,
			"user":  toUserResponse(user),
		})
	}
}

// handleLogin はメールアドレスとパスワードを検証しJWTトークンを発行するハンドラ。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です"})
			return
		}

		user, err := s.queries.GetUserByEmail(c.Request.Context(), req.Email)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "メールアドレスまたはパスワードが正しくありません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの取得に失敗しました"})
			s.log.Error("ユーザー取得エラー", zap.Error(err))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "メールアドレスまたはパスワードが正しくありません"})
			return
		}

		token, err := middleware.GenerateJWT(s.jwtSecret, user.ID, user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークンの発行に失敗しました"})
			s.log.Error("JWT発行エラー", zap.Error(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user":  toUserResponse(user),
		})
	}
}
