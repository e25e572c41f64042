package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/revokedtokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		input func(*RegisterInput)
		field string
	}{
		{"empty name", func(in *RegisterInput) { in.Name = "" }, "name"},
		{"empty email", func(in *RegisterInput) { in.Email = "" }, "email"},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"short password", func(in *RegisterInput) { in.Password = "short12" }, "password"},
		{"missing phone", func(in *RegisterInput) { in.PhoneNumber = 0 }, "phone_number"},
		{"negative phone", func(in *RegisterInput) { in.PhoneNumber = -5 }, "phone_number"},
		{"unparseable phone", func(in *RegisterInput) { in.PhoneNumber = 1 }, "phone_number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := adaInput()
			tt.input(&in)

			_, err := f.svc.Register(context.Background(), in)
			require.ErrorIs(t, err, common.ErrValidation)
			assert.Contains(t, FieldErrors(err), tt.field)
		})
	}

	assert.Empty(t, f.mailer.sent, "no mail for rejected input")
}

func TestRegister_PasswordLengthCountsCharacters(t *testing.T) {
	f := newFixture(t)

	in := adaInput()
	in.Password = "пароль12"
	_, err := f.svc.Register(context.Background(), in)
	require.NoError(t, err)
}

func TestRegister_MailsCodeAndReturnsOnlyToken(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Register(context.Background(), adaInput())
	require.NoError(t, err)
	require.NotEmpty(t, res.ActivationToken)

	msg := f.mailer.last(t)
	assert.Equal(t, "ada@example.com", msg.To)
	assert.Equal(t, "Activate your account", msg.Subject)
	assert.Equal(t, "activation-mail", msg.Template)
	assert.Equal(t, "Ada", msg.Data["name"])

	code := msg.Data["activationCode"].(string)
	n, err := strconv.Atoi(code)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1000)
	assert.LessOrEqual(t, n, 9999)
	assert.NotContains(t, res.ActivationToken, code)

	all, err := f.svc.List(context.Background(), models.Page{})
	require.NoError(t, err)
	assert.Empty(t, all, "register must not create an account")
}

func TestRegister_MailFailureIsNotAnError(t *testing.T) {
	f := newFixture(t)
	f.mailer.err = errors.New("smtp down")

	res, err := f.svc.Register(context.Background(), adaInput())
	require.NoError(t, err)
	assert.NotEmpty(t, res.ActivationToken)
}

func TestRegister_Duplicates(t *testing.T) {
	f := newFixture(t)
	f.activate(t, adaInput())
	sentBefore := len(f.mailer.sent)

	sameEmail := adaInput()
	sameEmail.PhoneNumber = 5559999
	_, err := f.svc.Register(context.Background(), sameEmail)
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)

	samePhone := adaInput()
	samePhone.Email = "other@example.com"
	_, err = f.svc.Register(context.Background(), samePhone)
	assert.ErrorIs(t, err, common.ErrDuplicatePhone)

	assert.Len(t, f.mailer.sent, sentBefore, "no token for duplicates")
}

func TestRegister_StorageFault(t *testing.T) {
	repos := newFaultyRepos()
	repos.accounts.findErr = errStorageDown
	f := newFixtureWithRepos(t, repos)

	_, err := f.svc.Register(context.Background(), adaInput())
	require.ErrorIs(t, err, errStorageDown)
	assert.False(t, common.IsConflict(err))
}

func TestActivate_Success(t *testing.T) {
	f := newFixture(t)

	acc := f.activate(t, adaInput())
	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, "Ada", acc.Name)
	assert.Equal(t, "ada@example.com", acc.Email)
	assert.Equal(t, int64(5551234), acc.PhoneNumber)
	assert.Equal(t, "user", acc.Role)
	assert.True(t, strings.HasPrefix(acc.PasswordDigest, "$2a$"), "password stored hashed")
}

func TestActivate_RequiresBothFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Activate(context.Background(), ActivateInput{ActivationCode: "1234"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = f.svc.Activate(context.Background(), ActivateInput{ActivationToken: "t"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestActivate_CodeMustMatchExactly(t *testing.T) {
	f := newFixture(t)
	token, code := f.register(t, adaInput())

	n, _ := strconv.Atoi(code)
	wrong := strconv.Itoa(1000 + (n-1000+1)%9000)

	for _, candidate := range []string{wrong, code + " ", " " + code, "0" + code, code[:3]} {
		_, err := f.svc.Activate(context.Background(), ActivateInput{ActivationToken: token, ActivationCode: candidate})
		assert.ErrorIs(t, err, common.ErrCodeMismatch, "candidate %q", candidate)
	}

	_, err := f.svc.Activate(context.Background(), ActivateInput{ActivationToken: token, ActivationCode: code})
	require.NoError(t, err)
}

func TestActivate_TokenErrors(t *testing.T) {
	f := newFixture(t)
	token, code := f.register(t, adaInput())

	_, err := f.svc.Activate(context.Background(), ActivateInput{ActivationToken: token + "x", ActivationCode: code})
	assert.ErrorIs(t, err, common.ErrTokenInvalid)

	f.clock.Advance(5 * time.Minute)
	_, err = f.svc.Activate(context.Background(), ActivateInput{ActivationToken: token, ActivationCode: code})
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestActivate_SecondUseIsDuplicate(t *testing.T) {
	f := newFixture(t)
	token, code := f.register(t, adaInput())

	_, err := f.svc.Activate(context.Background(), ActivateInput{ActivationToken: token, ActivationCode: code})
	require.NoError(t, err)

	_, err = f.svc.Activate(context.Background(), ActivateInput{ActivationToken: token, ActivationCode: code})
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestActivate_RevokedAfterUseWhenDenylistEnabled(t *testing.T) {
	f := newFixture(t, WithRevocation(revokedtokens.NewMemoryRepository()))
	token, code := f.register(t, adaInput())

	_, err := f.svc.Activate(context.Background(), ActivateInput{ActivationToken: token, ActivationCode: code})
	require.NoError(t, err)

	_, err = f.svc.Activate(context.Background(), ActivateInput{ActivationToken: token, ActivationCode: code})
	assert.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestActivate_ConstraintRaceMapsToConflict(t *testing.T) {
	repos := newFaultyRepos()
	f := newFixtureWithRepos(t, repos)
	token, code := f.register(t, adaInput())

	repos.accounts.createErr = common.ErrDuplicatePhone
	_, err := f.svc.Activate(context.Background(), ActivateInput{ActivationToken: token, ActivationCode: code})
	assert.ErrorIs(t, err, common.ErrDuplicatePhone)

	repos.accounts.createErr = errStorageDown
	_, err = f.svc.Activate(context.Background(), ActivateInput{ActivationToken: token, ActivationCode: code})
	assert.ErrorIs(t, err, errStorageDown)
}
