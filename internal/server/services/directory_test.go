package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/revokedtokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.svc.List(ctx, models.Page{})
	require.NoError(t, err)
	assert.Empty(t, empty)

	for i, name := range []string{"A", "B", "C"} {
		in := adaInput()
		in.Name = name
		in.Email = name + "@example.com"
		in.PhoneNumber = 5550000 + int64(i)
		f.activate(t, in)
	}

	all, err := f.svc.List(ctx, models.Page{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].Name)
	assert.Equal(t, "C", all[2].Name)

	page, err := f.svc.List(ctx, models.Page{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "B", page[0].Name)

	_, err = f.svc.List(ctx, models.Page{Limit: -1})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestCurrent(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Current(context.Background())
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = f.svc.Current(auth.WithPrincipal(context.Background(), &auth.Principal{}))
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	acc := f.activate(t, adaInput())
	res := login(t, f, "ada@example.com", "longpass1")
	p, err := f.svc.Authenticate(context.Background(), res.AccessToken, "")
	require.NoError(t, err)

	got, err := f.svc.Current(auth.WithPrincipal(context.Background(), p))
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.Account.ID)
	assert.Equal(t, res.AccessToken, got.AccessToken)
}

func TestLogout_ClearsPrincipal(t *testing.T) {
	f := newFixture(t)
	f.activate(t, adaInput())
	res := login(t, f, "ada@example.com", "longpass1")

	p, err := f.svc.Authenticate(context.Background(), res.AccessToken, res.RefreshToken)
	require.NoError(t, err)
	ctx := auth.WithPrincipal(context.Background(), p)

	msg, err := f.svc.Logout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "logged out successfully", msg)
	assert.Nil(t, p.Account)
	assert.Empty(t, p.AccessToken)
	assert.Empty(t, p.RefreshToken)

	_, err = f.svc.Current(ctx)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = f.svc.Logout(context.Background())
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	// without a denylist the tokens stay valid until they expire
	_, err = f.svc.Authenticate(context.Background(), res.AccessToken, "")
	assert.NoError(t, err)
}

func TestLogout_RevokesWithDenylist(t *testing.T) {
	f := newFixture(t, WithRevocation(revokedtokens.NewMemoryRepository()))
	f.activate(t, adaInput())
	res := login(t, f, "ada@example.com", "longpass1")

	p, err := f.svc.Authenticate(context.Background(), res.AccessToken, res.RefreshToken)
	require.NoError(t, err)
	_, err = f.svc.Logout(auth.WithPrincipal(context.Background(), p))
	require.NoError(t, err)

	_, err = f.svc.Authenticate(context.Background(), res.AccessToken, "")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = f.svc.Refresh(context.Background(), res.RefreshToken)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
