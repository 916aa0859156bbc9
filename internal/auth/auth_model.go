package auth

import (
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/internal/user"
)

// OTP is one issued one-time code. Only the bcrypt hash of the code is stored;
// rate limiting and expiry are evaluated against CreatedAt at request time.
type OTP struct {
	gorm.Model
	Phone    string `gorm:"not null;index"`
	CodeHash string `gorm:"not null"`
	Used     bool   `gorm:"default:false"`
}

type RegisterRequest struct {
	Phone       string `json:"phone" binding:"required" example:"+15551234567"`
	Email       string `json:"email" binding:"omitempty,email" example:"jane@example.com"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
	Language    string `json:"language,omitempty" example:"en"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty" example:"female"`
	Referrer    string `json:"referrer,omitempty"`
}

type OTPRequest struct {
	Phone string `json:"phone" binding:"required" example:"+15551234567"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required" example:"+15551234567"`
	Code  string `json:"code" binding:"required,len=6" example:"123456"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Nickname  *string `json:"nickname,omitempty"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
	Language  *string `json:"language,omitempty"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	Me           user.Profile `json:"me"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
