package models

import (
	"time"
)

type User struct {
	ID                 uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Email              string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash       string    `json:"-" gorm:"not null"`
	SecurityQuestion   string    `json:"-"`
	SecurityAnswerHash string    `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
}

// Session is a logged-in browser session, identified by an opaque token
// stored in a cookie.
type Session struct {
	Token     string    `json:"-" gorm:"primaryKey"`
	UserID    uint      `json:"-" gorm:"not null;index"`
	CreatedAt time.Time `json:"-"`
}

type SignupRequest struct {
	Email            string `json:"email" binding:"required"`
	Password         string `json:"password" binding:"required"`
	SecurityQuestion string `json:"security_question"`
	SecurityAnswer   string `json:"security_answer"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SecurityQuestionRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ForgotPasswordResponse struct {
	Email            string `json:"email"`
	SecurityQuestion string `json:"security_question"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	Answer      string `json:"answer" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// MeSummary is the logged-in user's profile plus collection counts.
type MeSummary struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	OwnedCount  int64  `json:"owned_count"`
	OwnedTotal  int64  `json:"owned_total"`
	WantedCount int64  `json:"wanted_count"`
	HasQuestion bool   `json:"has_security_question"`
}
