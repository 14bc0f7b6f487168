package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
)

func TestAuth_LoginAndParse(t *testing.T) {
	e := newEnv(t)
	s := NewAuthService(e.repo, e.cfg).(*AuthService)
	ctx := context.Background()

	user, created, err := s.EnsureUser(ctx, "maria", "Maria Souza", "s3nha", models.RoleTecnico)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := s.EnsureUser(ctx, "maria", "Outro Nome", "outra", models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)

	res, err := s.Login(ctx, "maria", "s3nha")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	require.NotNil(t, res.User.LastSignedIn)

	claims, err := s.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, Actor{UserID: user.ID, Role: models.RoleTecnico, Name: "Maria Souza"}, claims.Actor())

	me, err := s.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "maria", me.Username)
}

func TestAuth_LoginFailures(t *testing.T) {
	e := newEnv(t)
	s := NewAuthService(e.repo, e.cfg)
	ctx := context.Background()
	_, _, err := s.EnsureUser(ctx, "maria", "Maria", "s3nha", models.RoleTecnico)
	require.NoError(t, err)

	_, err = s.Login(ctx, "maria", "errada")
	assert.ErrorIs(t, err, ErrWrongPassword)
	_, err = s.Login(ctx, "ninguem", "s3nha")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = s.Me(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, _, err = s.EnsureUser(ctx, "x", "X", "pw", models.Role("root"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuth_ParseTokenRejects(t *testing.T) {
	e := newEnv(t)
	s := NewAuthService(e.repo, e.cfg).(*AuthService)

	_, err := s.ParseToken("not-a-token")
	assert.Error(t, err)

	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := s.GenerateToken(&e.fx.Tecnico)
	require.NoError(t, err)
	s.now = time.Now
	_, err = s.ParseToken(expired)
	assert.Error(t, err)

	other := NewAuthService(e.repo, copyWithSecret(e, "another-secret"))
	forged, err := other.GenerateToken(&e.fx.Admin)
	require.NoError(t, err)
	_, err = s.ParseToken(forged)
	assert.Error(t, err)
}

func TestStationService(t *testing.T) {
	e := newEnv(t)
	s := NewStationService(e.repo)
	ctx := context.Background()

	stations, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, stations, 1)

	st, err := s.Get(ctx, e.fx.Station.ID)
	require.NoError(t, err)
	assert.Equal(t, "Padre Miguel", st.Name)

	_, err = s.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrStationNotFound)
}

func TestDeleteConfirmation(t *testing.T) {
	e := newEnv(t)
	c, err := NewDeleteConfirmation(e.cfg)
	require.NoError(t, err)
	assert.True(t, c.Verify(testDeletePassword))
	assert.False(t, c.Verify(""))

	bad := *e.cfg
	bad.DeletePasswordHash = "plain"
	_, err = NewDeleteConfirmation(&bad)
	assert.Error(t, err)
}
