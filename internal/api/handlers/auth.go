package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jpelletier/card-binder/internal/auth"
	"github.com/jpelletier/card-binder/internal/database"
	"github.com/jpelletier/card-binder/internal/models"
)

const (
	sessionCookieName = "session"
	sessionMaxAge     = 30 * 24 * 60 * 60 // 30 days
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// RequireSession resolves the session cookie to a user and aborts with 401
// when there is none. The user is stored on the context for handlers.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			return
		}

		db := database.GetDB()

		var session models.Session
		if err := db.First(&session, "token = ?", token).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			return
		}

		var user models.User
		if err := db.First(&user, session.UserID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// currentUser returns the user RequireSession stored on the context.
func currentUser(c *gin.Context) models.User {
	return c.MustGet("user").(models.User)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	db := database.GetDB()

	var count int64
	db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	if req.SecurityQuestion != "" && req.SecurityAnswer != "" {
		answerHash, err := auth.HashAnswer(req.SecurityAnswer)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
			return
		}
		user.SecurityQuestion = req.SecurityQuestion
		user.SecurityAnswerHash = answerHash
	}

	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.startSession(c, user)
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var user models.User
	err := db.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Error
	// Same response for unknown email and wrong password
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	h.startSession(c, user)
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "email": user.Email})
}

func (h *AuthHandler) startSession(c *gin.Context, user models.User) {
	db := database.GetDB()

	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: time.Now(),
	}
	if err := db.Create(&session).Error; err != nil {
		log.Printf("Failed to create session for user %d: %v", user.ID, err)
		return
	}

	c.SetCookie(sessionCookieName, session.Token, sessionMaxAge, "/", "", false, true)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookieName); err == nil && token != "" {
		database.GetDB().Delete(&models.Session{}, "token = ?", token)
	}

	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) MeSummary(c *gin.Context) {
	user := currentUser(c)
	db := database.GetDB()

	summary := models.MeSummary{
		ID:          user.ID,
		Email:       user.Email,
		HasQuestion: user.SecurityQuestion != "",
	}

	db.Model(&models.OwnedCard{}).Where("owner_id = ?", user.ID).Count(&summary.OwnedCount)
	db.Model(&models.OwnedCard{}).Where("owner_id = ?", user.ID).
		Select("COALESCE(SUM(quantity), 0)").Scan(&summary.OwnedTotal)
	db.Model(&models.WantedCard{}).Where("user_id = ?", user.ID).Count(&summary.WantedCount)

	c.JSON(http.StatusOK, summary)
}

func (h *AuthHandler) SetSecurityQuestion(c *gin.Context) {
	var req models.SecurityQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)

	answerHash, err := auth.HashAnswer(req.Answer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save security question"})
		return
	}

	db := database.GetDB()
	err = db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"security_question":    req.Question,
		"security_answer_hash": answerHash,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "security question saved"})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var user models.User
	err := db.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Error
	if err != nil || user.SecurityQuestion == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no recovery available for this email"})
		return
	}

	c.JSON(http.StatusOK, models.ForgotPasswordResponse{
		Email:            user.Email,
		SecurityQuestion: user.SecurityQuestion,
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var user models.User
	err := db.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Error
	if err != nil || user.SecurityAnswerHash == "" || !auth.CheckAnswer(user.SecurityAnswerHash, req.Answer) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect answer"})
		return
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset password"})
		return
	}

	if err := db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("password_hash", passwordHash).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Old sessions are no longer trusted after a reset
	db.Delete(&models.Session{}, "user_id = ?", user.ID)

	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}
