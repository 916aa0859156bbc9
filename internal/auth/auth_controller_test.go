package auth_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/internal/auth"
	"github.com/clubhub-app/clubhub/internal/testutil"
	"github.com/clubhub-app/clubhub/internal/user"
	"github.com/clubhub-app/clubhub/pkg/responses"
	"github.com/clubhub-app/clubhub/pkg/utils"
)

func seedOTP(t *testing.T, db *gorm.DB, phone, code string) {
	t.Helper()
	hash, err := utils.HashOTP(code)
	require.NoError(t, err)
	require.NoError(t, db.Create(&auth.OTP{Phone: phone, CodeHash: hash}).Error)
}

func TestRegister(t *testing.T) {
	r, _, _ := testutil.NewServer(t)

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"phone":     "+15551230001",
		"firstName": "Jane",
		"lastName":  "Doe",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var profile user.Profile
	testutil.Decode(t, w, &profile)
	assert.Equal(t, "+15551230001", profile.Phone)
	assert.Equal(t, "Jane", profile.FirstName)
	assert.Equal(t, "en", profile.Language)
}

func TestRegister_InvalidPhone(t *testing.T) {
	r, _, _ := testutil.NewServer(t)

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"phone": "555-1234",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_InvalidGender(t *testing.T) {
	r, _, _ := testutil.NewServer(t)

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"phone":  "+15551230001",
		"gender": "unknown",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_DuplicatePhone(t *testing.T) {
	r, db, _ := testutil.NewServer(t)
	testutil.CreateUser(t, db, "+15551230001")

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"phone": "+15551230001",
	}, "")
	require.Equal(t, http.StatusConflict, w.Code)

	var errResp responses.ErrorResponse
	testutil.Decode(t, w, &errResp)
	assert.Equal(t, "Phone number already registered", errResp.Message)
}

func TestRequestOTP_RateLimited(t *testing.T) {
	r, _, _ := testutil.NewServer(t)

	body := map[string]any{"phone": "+15551230002"}
	w := testutil.Do(t, r, http.MethodPost, "/api/v1/auth/otp/request", body, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.Do(t, r, http.MethodPost, "/api/v1/auth/otp/request", body, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var errResp responses.ErrorResponse
	testutil.Decode(t, w, &errResp)
	assert.Contains(t, errResp.Message, "Rate limit exceeded")
}

func TestVerifyOTP_CreatesUserAndIssuesTokens(t *testing.T) {
	r, db, _ := testutil.NewServer(t)
	seedOTP(t, db, "+15551230003", "123456")

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/auth/otp/verify", map[string]any{
		"phone": "+15551230003",
		"code":  "123456",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp auth.AuthResponse
	testutil.Decode(t, w, &resp)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "+15551230003", resp.Me.Phone)

	// The issued access token authenticates the profile endpoint.
	w = testutil.Do(t, r, http.MethodGet, "/api/v1/me", nil, resp.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	var profile user.Profile
	testutil.Decode(t, w, &profile)
	assert.Equal(t, "+15551230003", profile.Phone)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	r, db, _ := testutil.NewServer(t)
	seedOTP(t, db, "+15551230004", "123456")

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/auth/otp/verify", map[string]any{
		"phone": "+15551230004",
		"code":  "654321",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var errResp responses.ErrorResponse
	testutil.Decode(t, w, &errResp)
	assert.Equal(t, "Invalid or expired OTP code", errResp.Message)
}

func TestVerifyOTP_Expired(t *testing.T) {
	r, db, _ := testutil.NewServer(t)
	seedOTP(t, db, "+15551230005", "123456")
	require.NoError(t, db.Model(&auth.OTP{}).
		Where("phone = ?", "+15551230005").
		Update("created_at", time.Now().Add(-10*time.Minute)).Error)

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/auth/otp/verify", map[string]any{
		"phone": "+15551230005",
		"code":  "123456",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var errResp responses.ErrorResponse
	testutil.Decode(t, w, &errResp)
	assert.Contains(t, errResp.Message, "Code expired")
}

func TestVerifyOTP_Reuse(t *testing.T) {
	r, db, _ := testutil.NewServer(t)
	seedOTP(t, db, "+15551230006", "123456")

	body := map[string]any{"phone": "+15551230006", "code": "123456"}
	w := testutil.Do(t, r, http.MethodPost, "/api/v1/auth/otp/verify", body, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.Do(t, r, http.MethodPost, "/api/v1/auth/otp/verify", body, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var errResp responses.ErrorResponse
	testutil.Decode(t, w, &errResp)
	assert.Equal(t, "Code already used", errResp.Message)
}

func TestRefreshToken_RotatesPair(t *testing.T) {
	r, db, _ := testutil.NewServer(t)
	seedOTP(t, db, "+15551230007", "123456")

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/auth/otp/verify", map[string]any{
		"phone": "+15551230007",
		"code":  "123456",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var first auth.AuthResponse
	testutil.Decode(t, w, &first)

	w = testutil.Do(t, r, http.MethodPost, "/api/v1/auth/refresh", nil, first.RefreshToken)
	require.Equal(t, http.StatusOK, w.Code)

	var pair auth.TokenPairResponse
	testutil.Decode(t, w, &pair)
	require.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, first.RefreshToken, pair.RefreshToken)

	// The old refresh token is revoked by rotation.
	w = testutil.Do(t, r, http.MethodPost, "/api/v1/auth/refresh", nil, first.RefreshToken)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

// Several rotations within the same second must all succeed; claims carry a
// per-token id, so the pairs never collide on the token unique index.
func TestRefreshToken_BackToBackRotations(t *testing.T) {
	r, db, _ := testutil.NewServer(t)
	seedOTP(t, db, "+15551230017", "123456")

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/auth/otp/verify", map[string]any{
		"phone": "+15551230017",
		"code":  "123456",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var initial auth.AuthResponse
	testutil.Decode(t, w, &initial)

	seen := map[string]bool{initial.AccessToken: true, initial.RefreshToken: true}
	refresh := initial.RefreshToken
	for i := 0; i < 3; i++ {
		w = testutil.Do(t, r, http.MethodPost, "/api/v1/auth/refresh", nil, refresh)
		require.Equal(t, http.StatusOK, w.Code)

		var pair auth.TokenPairResponse
		testutil.Decode(t, w, &pair)
		assert.False(t, seen[pair.AccessToken])
		assert.False(t, seen[pair.RefreshToken])
		seen[pair.AccessToken] = true
		seen[pair.RefreshToken] = true
		refresh = pair.RefreshToken
	}

	// The final refresh token still works for the protected profile flow.
	w = testutil.Do(t, r, http.MethodPost, "/api/v1/auth/refresh", nil, refresh)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	u := testutil.CreateUser(t, db, "+15551230008")
	access := testutil.AccessToken(t, db, cfg, u.ID)

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/auth/refresh", nil, access)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_RevokesAllTokens(t *testing.T) {
	r, db, _ := testutil.NewServer(t)
	seedOTP(t, db, "+15551230009", "123456")

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/auth/otp/verify", map[string]any{
		"phone": "+15551230009",
		"code":  "123456",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp auth.AuthResponse
	testutil.Decode(t, w, &resp)

	w = testutil.Do(t, r, http.MethodPost, "/api/v1/auth/logout", nil, resp.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.Do(t, r, http.MethodGet, "/api/v1/me", nil, resp.AccessToken)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	u := testutil.CreateUser(t, db, "+15551230010")
	access := testutil.AccessToken(t, db, cfg, u.ID)

	w := testutil.Do(t, r, http.MethodPatch, "/api/v1/me", map[string]any{
		"firstName": "Sam",
		"email":     "Sam@Example.com",
	}, access)
	require.Equal(t, http.StatusOK, w.Code)

	var profile user.Profile
	testutil.Decode(t, w, &profile)
	assert.Equal(t, "Sam", profile.FirstName)
	require.NotNil(t, profile.Email)
	assert.Equal(t, "sam@example.com", *profile.Email)
}

func TestUpdateProfile_EmailConflict(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	other := testutil.CreateUser(t, db, "+15551230011")
	email := "taken@example.com"
	require.NoError(t, db.Model(other).Update("email", &email).Error)

	u := testutil.CreateUser(t, db, "+15551230012")
	access := testutil.AccessToken(t, db, cfg, u.ID)

	w := testutil.Do(t, r, http.MethodPatch, "/api/v1/me", map[string]any{
		"email": "taken@example.com",
	}, access)
	require.Equal(t, http.StatusConflict, w.Code)
}
