package service_test

import (
	"context"
	"testing"

	"github.com/Desarrollos-QV/FudiPos-Backend/internal/apierror"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/config"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/dto"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/model"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/repository"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── In-memory UserRepository ─────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByBusinessAndID(_ context.Context, businessID, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok || u.BusinessID != businessID {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]model.User, error) {
	var result []model.User
	for _, u := range r.users {
		if u.BusinessID == businessID {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	for id, existing := range r.users {
		if id != u.ID && existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	if u, ok := r.users[id]; ok {
		u.Active = active
	}
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, businessID, id uuid.UUID) (int64, error) {
	u, ok := r.users[id]
	if !ok || u.BusinessID != businessID {
		return 0, nil
	}
	delete(r.users, id)
	return 1, nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    168,
	}
}

func seedUser(t *testing.T, repo *fakeUserRepo, username, password string, businessID uuid.UUID) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		ID:           uuid.New(),
		BusinessID:   businessID,
		Username:     username,
		PasswordHash: string(hash),
		Role:         "admin",
		Active:       true,
	}
	repo.users[u.ID] = u
	return u
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	businessID := uuid.New()
	seedUser(t, repo, "admin", "secreta123", businessID)
	svc := service.NewAuthService(repo, testConfig())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "secreta123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "admin", resp.User.Username)

	// The access token carries the tenant boundary.
	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, businessID.String(), claims["business_id"])
	assert.Equal(t, "admin", claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "admin", "secreta123", uuid.New())
	svc := service.NewAuthService(repo, testConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "otra"})
	assert.ErrorContains(t, err, "Credenciales invalidas")
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := service.NewAuthService(newFakeUserRepo(), testConfig())

	// Unknown user and wrong password produce the same message.
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "x"})
	assert.ErrorContains(t, err, "Credenciales invalidas")
}

func TestRefresh(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "admin", "secreta123", uuid.New())
	svc := service.NewAuthService(repo, testConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "secreta123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "admin", refreshed.User.Username)
}

func TestRefresh_InvalidToken(t *testing.T) {
	svc := service.NewAuthService(newFakeUserRepo(), testConfig())

	_, err := svc.Refresh(context.Background(), "garbage.token.here")
	assert.Equal(t, 400, apierror.Status(err))
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "admin", "secreta123", uuid.New())
	svc := service.NewAuthService(repo, testConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "secreta123"})
	require.NoError(t, err)

	user.Active = false
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.Equal(t, 404, apierror.Status(err))
}
