package auth

import (
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/internal/user"
)

type AuthRepository interface {
	CreateUser(u *user.User) error
	GetUserByPhone(phone string) (*user.User, error)
	GetUserByEmail(email string) (*user.User, error)
	GetUserByID(id uint) (*user.User, error)
	UpdateUser(u *user.User) error

	SaveOTP(otp *OTP) error
	GetLatestUnusedOTP(phone string) (*OTP, error)
	GetUnusedOTPs(phone string) ([]OTP, error)
	GetUsedOTPs(phone string) ([]OTP, error)
	MarkOTPUsed(otp *OTP) error

	SaveToken(tx *gorm.DB, t *user.Token) error
	GetToken(tokenString string) (*user.Token, error)
	RevokeToken(tx *gorm.DB, t *user.Token) error
	RevokeAllTokensForUser(userID uint) error
}

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) CreateUser(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *authRepository) GetUserByPhone(phone string) (*user.User, error) {
	var u user.User
	if err := r.db.Where("phone = ?", phone).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) GetUserByEmail(email string) (*user.User, error) {
	var u user.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) GetUserByID(id uint) (*user.User, error) {
	var u user.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) UpdateUser(u *user.User) error {
	return r.db.Save(u).Error
}

func (r *authRepository) SaveOTP(otp *OTP) error {
	return r.db.Create(otp).Error
}

func (r *authRepository) GetLatestUnusedOTP(phone string) (*OTP, error) {
	var otp OTP
	if err := r.db.Where("phone = ? AND used = ?", phone, false).
		Order("created_at DESC").First(&otp).Error; err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *authRepository) GetUnusedOTPs(phone string) ([]OTP, error) {
	var otps []OTP
	err := r.db.Where("phone = ? AND used = ?", phone, false).
		Order("created_at DESC").Find(&otps).Error
	return otps, err
}

func (r *authRepository) GetUsedOTPs(phone string) ([]OTP, error) {
	var otps []OTP
	err := r.db.Where("phone = ? AND used = ?", phone, true).
		Order("created_at DESC").Find(&otps).Error
	return otps, err
}

func (r *authRepository) MarkOTPUsed(otp *OTP) error {
	otp.Used = true
	return r.db.Save(otp).Error
}

// SaveToken takes the caller's transaction so rotation can revoke the old
// token and persist the replacement atomically.
func (r *authRepository) SaveToken(tx *gorm.DB, t *user.Token) error {
	return tx.Create(t).Error
}

func (r *authRepository) GetToken(tokenString string) (*user.Token, error) {
	var t user.Token
	if err := r.db.Where("token = ?", tokenString).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *authRepository) RevokeToken(tx *gorm.DB, t *user.Token) error {
	t.Revoked = true
	return tx.Save(t).Error
}

func (r *authRepository) RevokeAllTokensForUser(userID uint) error {
	return r.db.Model(&user.Token{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}
