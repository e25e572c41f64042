package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/mail"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *captureMailer) last(t *testing.T) mail.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no mail sent")
	return m.sent[len(m.sent)-1]
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	svc    *AccountService
	repos  repomanager.RepositoryManager
	mailer *captureMailer
	clock  *testClock
}

func testKeys() map[auth.Kind]auth.KeyConfig {
	return map[auth.Kind]auth.KeyConfig{
		auth.KindActivation: {Secret: []byte("activation-secret"), TTL: 5 * time.Minute, Seal: true},
		auth.KindAccess:     {Secret: []byte("access-secret"), TTL: 15 * time.Minute},
		auth.KindRefresh:    {Secret: []byte("refresh-secret"), TTL: 72 * time.Hour},
	}
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	return newFixtureWithRepos(t, repomanager.NewMemoryRepositoryManager(), opts...)
}

func newFixtureWithRepos(t *testing.T, repos repomanager.RepositoryManager, opts ...Option) *fixture {
	t.Helper()

	clock := &testClock{t: time.Now().UTC()}
	tokens, err := auth.NewTokenCodec(testKeys(), auth.WithClock(clock.Now))
	require.NoError(t, err)
	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	mailer := &captureMailer{}

	svc, err := NewAccountService(nil, repos, tokens, hasher, mailer, opts...)
	require.NoError(t, err)

	return &fixture{svc: svc, repos: repos, mailer: mailer, clock: clock}
}

func adaInput() RegisterInput {
	return RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "longpass1", PhoneNumber: 5551234}
}

// register runs Register and returns the token and the mailed code.
func (f *fixture) register(t *testing.T, in RegisterInput) (string, string) {
	t.Helper()
	res, err := f.svc.Register(context.Background(), in)
	require.NoError(t, err)
	code, _ := f.mailer.last(t).Data["activationCode"].(string)
	require.Len(t, code, 4)
	return res.ActivationToken, code
}

func (f *fixture) activate(t *testing.T, in RegisterInput) *models.Account {
	t.Helper()
	token, code := f.register(t, in)
	acc, err := f.svc.Activate(context.Background(), ActivateInput{ActivationToken: token, ActivationCode: code})
	require.NoError(t, err)
	return acc
}

// faultyRepos wraps the memory store and fails selected calls.
type faultyRepos struct {
	*repomanager.MemoryRepositoryManager
	accounts *faultyAccounts
}

func newFaultyRepos() *faultyRepos {
	m := repomanager.NewMemoryRepositoryManager()
	return &faultyRepos{MemoryRepositoryManager: m, accounts: &faultyAccounts{Repository: m.Accounts(nil)}}
}

func (f *faultyRepos) Accounts(dbx.DBTX) accounts.Repository { return f.accounts }

var errStorageDown = errors.New("storage down")

type faultyAccounts struct {
	accounts.Repository
	findErr   error
	createErr error
	// findByIDDelay widens the window between the revocation check and
	// the rotation in Refresh.
	findByIDDelay time.Duration
}

func (f *faultyAccounts) FindByID(ctx context.Context, id string) (*models.Account, error) {
	time.Sleep(f.findByIDDelay)
	return f.Repository.FindByID(ctx, id)
}

func (f *faultyAccounts) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.Repository.FindByEmail(ctx, email)
}

func (f *faultyAccounts) Create(ctx context.Context, acc models.NewAccount) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.Repository.Create(ctx, acc)
}
