package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_Ada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, adaInput())
	require.NoError(t, err)

	msg := f.mailer.last(t)
	assert.Equal(t, "ada@example.com", msg.To)
	code := msg.Data["activationCode"].(string)

	acc, err := f.svc.Activate(ctx, ActivateInput{ActivationToken: reg.ActivationToken, ActivationCode: code})
	require.NoError(t, err)
	assert.Equal(t, "Ada", acc.Name)
	assert.Equal(t, int64(5551234), acc.PhoneNumber)

	res, err := f.svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "longpass1"})
	require.NoError(t, err)
	require.NoError(t, res.Failure)

	p, err := f.svc.Authenticate(ctx, res.AccessToken, res.RefreshToken)
	require.NoError(t, err)
	reqCtx := auth.WithPrincipal(ctx, p)

	cur, err := f.svc.Current(reqCtx)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, cur.Account.ID)
	assert.Equal(t, "ada@example.com", cur.Account.Email)

	out, err := f.svc.Logout(reqCtx)
	require.NoError(t, err)
	assert.Equal(t, common.LogoutMessage, out)

	again := adaInput()
	again.PhoneNumber = 5559876
	_, err = f.svc.Register(ctx, again)
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)

	all, err := f.svc.List(ctx, models.Page{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, acc.ID, all[0].ID)
}
