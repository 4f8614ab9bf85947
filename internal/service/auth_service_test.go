package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/parsuni/exam-portal-api/internal/models"
	appErrors "github.com/parsuni/exam-portal-api/pkg/errors"
)

type mockUserRepo struct {
	users   map[string]*models.User
	tokens  map[string]*models.RefreshToken
	revoked []string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:  make(map[string]*models.User),
		tokens: make(map[string]*models.RefreshToken),
	}
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (m *mockUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	return nil
}

func (m *mockUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	cp := *token
	m.tokens[token.Token] = &cp
	return nil
}

func (m *mockUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if rt, ok := m.tokens[token]; ok {
		cp := *rt
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	m.revoked = append(m.revoked, id)
	for _, rt := range m.tokens {
		if rt.ID == id {
			rt.Revoked = true
		}
	}
	return nil
}

func authFixture(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.users["u1"] = &models.User{
		ID:           "u1",
		Username:     "t.ahmadi",
		Email:        "ahmadi@example.com",
		PasswordHash: string(hash),
		FullName:     "Taraneh Ahmadi",
		Role:         models.RoleTeacher,
		Active:       true,
	}
	svc := NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "exam-portal",
	})
	return svc, repo
}

func TestLogin_Success(t *testing.T) {
	svc, repo := authFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "t.ahmadi", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleTeacher, resp.User.Role)
	assert.Len(t, repo.tokens, 1)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "t.ahmadi", claims.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "t.ahmadi", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "nobody", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLogin_InactiveAccount(t *testing.T) {
	svc, repo := authFixture(t)
	repo.users["u1"].Active = false

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "t.ahmadi", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestRefreshToken_RotatesToken(t *testing.T) {
	svc, repo := authFixture(t)

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "t.ahmadi", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Len(t, repo.revoked, 1)

	// the used token no longer refreshes
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestLogout_RevokesOwnTokenOnly(t *testing.T) {
	svc, repo := authFixture(t)

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "t.ahmadi", Password: "secret123"})
	require.NoError(t, err)

	err = svc.Logout(context.Background(), login.RefreshToken, "someone-else")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	err = svc.Logout(context.Background(), login.RefreshToken, "u1")
	require.NoError(t, err)
	assert.Len(t, repo.revoked, 1)
}

func TestValidateToken_Invalid(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
