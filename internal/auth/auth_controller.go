package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/config"
	"github.com/clubhub-app/clubhub/internal/common"
	"github.com/clubhub-app/clubhub/internal/user"
	"github.com/clubhub-app/clubhub/pkg/responses"
	"github.com/clubhub-app/clubhub/pkg/token"
	"github.com/clubhub-app/clubhub/pkg/utils"
)

type AuthController struct {
	repo   AuthRepository
	db     *gorm.DB
	config *config.Config
}

func NewAuthController(repo AuthRepository, db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{
		repo:   repo,
		db:     db,
		config: cfg,
	}
}

// issueTokenPair generates an access/refresh pair and persists both rows so
// revocation can be checked server-side. It writes through tx so rotation can
// combine revoke and issue in one transaction.
func (ac *AuthController) issueTokenPair(tx *gorm.DB, userID uint) (string, string, error) {
	accessTTL := ac.config.JWT.AccessTokenExpiryMinutes
	refreshTTL := ac.config.JWT.RefreshTokenExpiryDays * 24 * 60

	accessToken, err := token.Generate(userID, token.TypeAccess, ac.config.JWT.Secret, accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("access token generation failed: %w", err)
	}
	refreshToken, err := token.Generate(userID, token.TypeRefresh, ac.config.JWT.Secret, refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("refresh token generation failed: %w", err)
	}

	now := time.Now()
	rows := []*user.Token{
		{UserID: userID, Token: accessToken, Type: token.TypeAccess, ExpiresAt: now.Add(time.Duration(accessTTL) * time.Minute)},
		{UserID: userID, Token: refreshToken, Type: token.TypeRefresh, ExpiresAt: now.Add(time.Duration(refreshTTL) * time.Minute)},
	}
	for _, row := range rows {
		if err := ac.repo.SaveToken(tx, row); err != nil {
			return "", "", fmt.Errorf("failed to save token: %w", err)
		}
	}
	return accessToken, refreshToken, nil
}

// sendOTPToPhone stands in for an SMS provider; the code lands in the dev log.
func (ac *AuthController) sendOTPToPhone(phone, otpCode string) error {
	log.Info().Str("phone", phone).Str("code", otpCode).Msg("OTP issued")
	return nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

// @Summary      Register a new user
// @Description  Create a new user profile keyed by an E.164 phone number.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user  body  RegisterRequest  true  "User registration details"
// @Success      201   {object} user.Profile "User registered"
// @Failure      400   {object} responses.ErrorResponse "Invalid phone or gender"
// @Failure      409   {object} responses.ErrorResponse "Phone or email already registered"
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	if !utils.IsValidPhone(req.Phone) {
		responses.BadRequest(c, "Invalid phone format. Must be E.164 (e.g., +1234567890)")
		return
	}
	if req.Gender != "" && req.Gender != "male" && req.Gender != "female" {
		responses.BadRequest(c, `Gender must be "male" or "female"`)
		return
	}

	if _, err := ac.repo.GetUserByPhone(req.Phone); !errors.Is(err, gorm.ErrRecordNotFound) {
		responses.Conflict(c, "Phone number already registered")
		return
	}
	if req.Email != "" {
		if _, err := ac.repo.GetUserByEmail(strings.ToLower(req.Email)); !errors.Is(err, gorm.ErrRecordNotFound) {
			responses.Conflict(c, "Email already in use")
			return
		}
	}

	newUser := &user.User{
		Phone:       req.Phone,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Nickname:    req.Nickname,
		Language:    req.Language,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Referrer:    req.Referrer,
		LastActive:  time.Now(),
	}
	if newUser.Language == "" {
		newUser.Language = "en"
	}
	if req.Email != "" {
		email := strings.ToLower(req.Email)
		newUser.Email = &email
	}

	if err := ac.repo.CreateUser(newUser); err != nil {
		responses.InternalServerError(c, "User creation failed")
		return
	}

	c.JSON(http.StatusCreated, user.FilterUserRecord(newUser))
}

// @Summary      Request an OTP
// @Description  Issues a 6-digit one-time code for the phone. One unused code per phone per 30s.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body  OTPRequest  true  "Phone number"
// @Success      200  {object}  responses.OkResponse
// @Failure      400  {object}  responses.ErrorResponse "Missing phone or rate limit"
// @Router       /auth/otp/request [post]
func (ac *AuthController) RequestOTP(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Phone number is required")
		return
	}

	window := time.Duration(ac.config.OTP.ResendWindowSecs) * time.Second
	latest, err := ac.repo.GetLatestUnusedOTP(req.Phone)
	if err == nil && latest != nil {
		if since := time.Since(latest.CreatedAt); since < window {
			wait := int((window - since).Seconds()) + 1
			responses.BadRequest(c, fmt.Sprintf("Rate limit exceeded. Please wait %d seconds.", wait))
			return
		}
	}

	code := utils.GenerateOTP()
	hash, err := utils.HashOTP(code)
	if err != nil {
		responses.InternalServerError(c, "Failed to generate OTP")
		return
	}

	if err := ac.repo.SaveOTP(&OTP{Phone: req.Phone, CodeHash: hash}); err != nil {
		responses.InternalServerError(c, "Failed to save OTP")
		return
	}

	if err := ac.sendOTPToPhone(req.Phone, code); err != nil {
		responses.InternalServerError(c, "Failed to send OTP. Please try again.")
		return
	}

	responses.SendOk(c)
}

// @Summary      Verify an OTP
// @Description  Consumes the code, auto-creates the user if absent, and issues a token pair.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body  VerifyOTPRequest  true  "Phone and code"
// @Success      200  {object}  AuthResponse
// @Failure      400  {object}  responses.ErrorResponse "Missing phone or code"
// @Failure      401  {object}  responses.ErrorResponse "Invalid, expired, or already used code"
// @Router       /auth/otp/verify [post]
func (ac *AuthController) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Phone and code are required")
		return
	}

	validity := time.Duration(ac.config.OTP.ExpiryMinutes) * time.Minute

	unused, err := ac.repo.GetUnusedOTPs(req.Phone)
	if err != nil {
		responses.InternalServerError(c, "Database error")
		return
	}

	var matched *OTP
	for i := range unused {
		if utils.CheckOTP(unused[i].CodeHash, req.Code) {
			matched = &unused[i]
			break
		}
	}

	if matched == nil {
		used, _ := ac.repo.GetUsedOTPs(req.Phone)
		for i := range used {
			if utils.CheckOTP(used[i].CodeHash, req.Code) {
				responses.Unauthorized(c, "Code already used")
				return
			}
		}
		responses.Unauthorized(c, "Invalid or expired OTP code")
		return
	}

	if time.Since(matched.CreatedAt) >= validity {
		responses.Unauthorized(c, fmt.Sprintf("Code expired (OTP codes expire after %d minutes)", ac.config.OTP.ExpiryMinutes))
		return
	}

	if err := ac.repo.MarkOTPUsed(matched); err != nil {
		responses.InternalServerError(c, "Failed to update OTP status")
		return
	}

	u, err := ac.repo.GetUserByPhone(req.Phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u = &user.User{
			Phone:      req.Phone,
			Language:   "en",
			LastActive: time.Now(),
		}
		if errCreate := ac.repo.CreateUser(u); errCreate != nil {
			responses.InternalServerError(c, "Failed to create user")
			return
		}
	} else if err != nil {
		responses.InternalServerError(c, "Database error")
		return
	} else {
		u.LastActive = time.Now()
		if errUpdate := ac.repo.UpdateUser(u); errUpdate != nil {
			responses.InternalServerError(c, "Failed to update user")
			return
		}
	}

	accessToken, refreshToken, err := ac.issueTokenPair(ac.db, u.ID)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Me:           user.FilterUserRecord(u),
	})
}

// @Summary      Rotate a refresh token
// @Description  Revokes the presented refresh token and issues a new pair.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  TokenPairResponse
// @Failure      401  {object}  responses.ErrorResponse "Missing, revoked, expired, or wrong-type token"
// @Security     ApiKeyAuth
// @Router       /auth/refresh [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	oldToken, ok := bearerToken(c)
	if !ok {
		responses.Unauthorized(c, "Missing refresh token")
		return
	}

	claims, err := token.Validate(oldToken, ac.config.JWT.Secret)
	if err != nil {
		responses.Unauthorized(c, "Invalid refresh token")
		return
	}
	if claims.TokenType != token.TypeRefresh {
		responses.Unauthorized(c, "Refresh token required")
		return
	}

	row, err := ac.repo.GetToken(oldToken)
	if err != nil || row.Type != token.TypeRefresh || row.Revoked {
		responses.Unauthorized(c, "Refresh token has been revoked")
		return
	}
	if row.ExpiresAt.Before(time.Now()) {
		responses.Unauthorized(c, "Refresh token expired")
		return
	}

	// Revoke and reissue atomically so a failed issue leaves the presented
	// token usable instead of stranding the caller.
	var accessToken, refreshToken string
	err = ac.db.Transaction(func(tx *gorm.DB) error {
		if err := ac.repo.RevokeToken(tx, row); err != nil {
			return err
		}
		var txErr error
		accessToken, refreshToken, txErr = ac.issueTokenPair(tx, claims.UserID)
		return txErr
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to rotate token")
		return
	}

	c.JSON(http.StatusOK, TokenPairResponse{AccessToken: accessToken, RefreshToken: refreshToken})
}

// @Summary      Logout
// @Description  Revokes every token issued to the caller.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  responses.OkResponse
// @Failure      401  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	tokenString, ok := bearerToken(c)
	if !ok {
		responses.Unauthorized(c, "Missing refresh token")
		return
	}

	claims, err := token.Validate(tokenString, ac.config.JWT.Secret)
	if err != nil {
		responses.Unauthorized(c, "Invalid token")
		return
	}

	if err := ac.repo.RevokeAllTokensForUser(claims.UserID); err != nil {
		responses.InternalServerError(c, "Failed to revoke tokens")
		return
	}
	responses.SendOk(c)
}

// @Summary      Get my profile
// @Tags         Me
// @Produce      json
// @Success      200  {object}  user.Profile
// @Failure      401  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /me [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}

	u, err := ac.repo.GetUserByID(userID)
	if err != nil {
		responses.NotFound(c, "User")
		return
	}
	c.JSON(http.StatusOK, user.FilterUserRecord(u))
}

// @Summary      Update my profile
// @Description  Phone is immutable; email must stay unique.
// @Tags         Me
// @Accept       json
// @Produce      json
// @Param        profile  body  UpdateProfileRequest  true  "Fields to update"
// @Success      200  {object}  user.Profile
// @Failure      401  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse "Email already in use"
// @Security     ApiKeyAuth
// @Router       /me [patch]
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	u, err := ac.repo.GetUserByID(userID)
	if err != nil {
		responses.NotFound(c, "User")
		return
	}

	if req.Email != nil && *req.Email != "" {
		email := strings.ToLower(*req.Email)
		if u.Email == nil || email != *u.Email {
			if other, err := ac.repo.GetUserByEmail(email); err == nil && other.ID != u.ID {
				responses.Conflict(c, "Email already in use")
				return
			}
		}
		u.Email = &email
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Nickname != nil {
		u.Nickname = *req.Nickname
	}
	if req.Language != nil {
		u.Language = *req.Language
	}

	if err := ac.repo.UpdateUser(u); err != nil {
		responses.InternalServerError(c, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user.FilterUserRecord(u))
}
