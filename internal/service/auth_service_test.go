package service

import (
	"context"
	"errors"
	"testing"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/apierror"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/config"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/dto"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/model"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return errors.New("UNIQUE constraint failed: users.email")
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = true
	}
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func buildAuthSvc() (AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
	return NewAuthService(repo, cfg), repo
}

func seedUser(repo *stubUserRepo, email, password, role string, active bool) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Teste",
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	}
	repo.users[u.ID] = u
	return u
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(repo, "maria@lanchonete.com", "segredo", "ATTENDANT", true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "maria@lanchonete.com",
		Password: "segredo",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "ATTENDANT", resp.User.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(repo, "maria@lanchonete.com", "segredo", "ATTENDANT", true)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "maria@lanchonete.com",
		Password: "errada",
	})
	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "unauthorized", apiErr.Code)
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(repo, "ex@lanchonete.com", "segredo", "ATTENDANT", false)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ex@lanchonete.com",
		Password: "segredo",
	})
	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "unauthorized", apiErr.Code)
}

func TestRefresh_RoundTrip(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(repo, "joao@lanchonete.com", "segredo", "MANAGER", true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "joao@lanchonete.com",
		Password: "segredo",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "joao@lanchonete.com", refreshed.User.Email)
}

func TestRefresh_GarbageTokenRejected(t *testing.T) {
	svc, _ := buildAuthSvc()
	_, err := svc.Refresh(context.Background(), "nao-e-um-jwt")

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "unauthorized", apiErr.Code)
}

func TestCreateUser_DuplicateEmailConflict(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(repo, "dup@lanchonete.com", "x", "ADMIN", true)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email:    "dup@lanchonete.com",
		Password: "123456",
		Name:     "Duplicado",
		Role:     "ATTENDANT",
	})
	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "conflict", apiErr.Code)
	assert.Equal(t, "duplicate", apiErr.Fields["email"])
}

func TestDeactivateUser_StopsLogin(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUser(repo, "ana@lanchonete.com", "segredo", "ATTENDANT", true)

	require.NoError(t, svc.DeactivateUser(context.Background(), u.ID))

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ana@lanchonete.com",
		Password: "segredo",
	})
	require.Error(t, err)

	require.NoError(t, svc.ReactivateUser(context.Background(), u.ID))
	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ana@lanchonete.com",
		Password: "segredo",
	})
	require.NoError(t, err)
}
