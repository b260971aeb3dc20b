package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"Cortex-Attendance-Backend/src/config"
	"Cortex-Attendance-Backend/src/models"
	"Cortex-Attendance-Backend/src/storage/memstore"
	"Cortex-Attendance-Backend/src/utils"
)

func newAuthFixture(t *testing.T) (*AuthService, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	svc := NewAuthService(store, utils.NewTokenStore(nil), &config.Settings{
		JWTSecret:  "test_secret",
		MaxAdmins:  2,
		MaxMembers: 3,
	})
	return svc, store
}

func TestRegisterMemberStartsInactive(t *testing.T) {
	svc, _ := newAuthFixture(t)

	user, err := svc.Register(context.Background(), "Asha", "Asha@Lab.Test", "secret", "")
	require.NoError(t, err)

	assert.Equal(t, models.RoleMember, user.Role)
	assert.False(t, user.IsActive, "members wait for admin approval")
	assert.Equal(t, "asha@lab.test", user.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret")))
}

func TestRegisterAdminIsActiveImmediately(t *testing.T) {
	svc, _ := newAuthFixture(t)

	user, err := svc.Register(context.Background(), "Boss", "boss@lab.test", "secret", models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, user.IsActive)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Asha", "asha@lab.test", "secret", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Imposter", "asha@lab.test", "secret", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterEnforcesRoleCaps(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	for i, email := range []string{"a@lab.test", "b@lab.test", "c@lab.test"} {
		_, err := svc.Register(ctx, "Member", email, "secret", "")
		require.NoError(t, err, "member %d should fit under the cap", i)
	}

	_, err := svc.Register(ctx, "Overflow", "d@lab.test", "secret", "")
	var full *RoleFullError
	require.ErrorAs(t, err, &full)
	assert.Equal(t, models.RoleMember, full.Role)
	assert.Equal(t, 3, full.Max)
}

func TestLoginFlow(t *testing.T) {
	svc, store := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Asha", "asha@lab.test", "secret", "")
	require.NoError(t, err)

	// not approved yet
	_, _, _, err = svc.Login(ctx, "asha@lab.test", "secret")
	assert.ErrorIs(t, err, ErrAccountNotApproved)

	require.NoError(t, store.SetActive(ctx, user.ID, true))

	_, _, _, err = svc.Login(ctx, "asha@lab.test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, err = svc.Login(ctx, "nobody@lab.test", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, access, refresh, err := svc.Login(ctx, "asha@lab.test", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	claims, err := utils.ParseJWT("test_secret", access)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, models.RoleMember, claims.Role)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	svc, store := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Asha", "asha@lab.test", "secret", "")
	require.NoError(t, err)
	require.NoError(t, store.SetActive(ctx, user.ID, true))

	_, _, refresh, err := svc.Login(ctx, "asha@lab.test", "secret")
	require.NoError(t, err)

	token, err := svc.Refresh(ctx, user.ID.Hex(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Refresh(ctx, "not-a-hex-id", refresh)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}
