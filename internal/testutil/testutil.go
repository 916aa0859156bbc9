// Package testutil wires an in-memory database and a fully routed engine for
// handler-level tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clubhub-app/clubhub/config"
	"github.com/clubhub-app/clubhub/internal/application"
	"github.com/clubhub-app/clubhub/internal/audit"
	"github.com/clubhub-app/clubhub/internal/auth"
	"github.com/clubhub-app/clubhub/internal/club"
	"github.com/clubhub-app/clubhub/internal/event"
	"github.com/clubhub-app/clubhub/internal/invite"
	"github.com/clubhub-app/clubhub/internal/membership"
	"github.com/clubhub-app/clubhub/internal/notification"
	"github.com/clubhub-app/clubhub/internal/user"
	"github.com/clubhub-app/clubhub/pkg/token"
	"github.com/clubhub-app/clubhub/routes"
)

// OpenDB returns an in-memory SQLite database with the full schema migrated.
// The connection pool is pinned to one connection so every query sees the same
// memory database.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&user.User{}, &user.Token{}, &auth.OTP{},
		&club.Club{}, &membership.Membership{},
		&invite.Invite{}, &application.Application{},
		&event.Event{}, &event.Registration{},
		&audit.AuditLog{}, &notification.Notification{},
	))
	return db
}

// NewServer builds the routed engine on top of a fresh in-memory database.
func NewServer(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := OpenDB(t)
	cfg := config.TestConfig()
	return routes.SetupRoutes(db, cfg), db, cfg
}

// CreateUser inserts a user with the given phone and returns it.
func CreateUser(t *testing.T, db *gorm.DB, phone string) *user.User {
	t.Helper()
	u := &user.User{Phone: phone, Language: "en"}
	require.NoError(t, db.Create(u).Error)
	return u
}

// AccessToken issues and persists a valid access token for the user, the same
// shape the login flow produces.
func AccessToken(t *testing.T, db *gorm.DB, cfg *config.Config, userID uint) string {
	t.Helper()
	tok, err := token.Generate(userID, token.TypeAccess, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiryMinutes)
	require.NoError(t, err)
	require.NoError(t, db.Create(&user.Token{
		UserID:    userID,
		Token:     tok,
		Type:      token.TypeAccess,
		ExpiresAt: time.Now().Add(time.Duration(cfg.JWT.AccessTokenExpiryMinutes) * time.Minute),
	}).Error)
	return tok
}

// AddMember inserts a membership row directly.
func AddMember(t *testing.T, db *gorm.DB, clubID, userID uint, role, status string) *membership.Membership {
	t.Helper()
	m := &membership.Membership{ClubID: clubID, UserID: userID, Role: role, Status: status}
	require.NoError(t, db.Create(m).Error)
	return m
}

// CreateClub inserts a club row directly.
func CreateClub(t *testing.T, db *gorm.DB, name, joinMode string) *club.Club {
	t.Helper()
	c := &club.Club{Name: name, Type: club.TypeCasual, JoinMode: joinMode, IsAcceptingNewMembers: true}
	require.NoError(t, db.Create(c).Error)
	return c
}

// Do performs one request against the engine. A non-nil body is JSON-encoded;
// a non-empty bearer goes into the Authorization header.
func Do(t *testing.T, r *gin.Engine, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Decode unmarshals a recorded JSON body into out.
func Decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
