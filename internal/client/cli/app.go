package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/accounts/internal/client/config"
	"github.com/dmitrijs2005/accounts/internal/server/api"
	gs "github.com/dmitrijs2005/accounts/internal/server/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// accountsClient is the subset of the generated-style gRPC client the CLI uses.
type accountsClient interface {
	Register(ctx context.Context, in *api.RegisterRequest, opts ...grpc.CallOption) (*api.RegisterResponse, error)
	Activate(ctx context.Context, in *api.ActivateRequest, opts ...grpc.CallOption) (*api.AccountResponse, error)
	Login(ctx context.Context, in *api.LoginRequest, opts ...grpc.CallOption) (*api.SessionResponse, error)
	Refresh(ctx context.Context, in *api.RefreshRequest, opts ...grpc.CallOption) (*api.SessionResponse, error)
	CurrentAccount(ctx context.Context, opts ...grpc.CallOption) (*api.CurrentResponse, error)
	Logout(ctx context.Context, opts ...grpc.CallOption) (*api.LogoutResponse, error)
	ListAccounts(ctx context.Context, in *api.ListRequest, opts ...grpc.CallOption) (*api.ListResponse, error)
	RequestAvatarUpload(ctx context.Context, in *api.AvatarUploadRequest, opts ...grpc.CallOption) (*api.PresignedResponse, error)
}

type App struct {
	config *config.Config
	client accountsClient
	conn   io.Closer
	reader *bufio.Reader
	out    io.Writer

	// httpClient uploads avatars; nil means http.DefaultClient.
	httpClient *http.Client

	// pendingToken is the activation token of the last registration.
	pendingToken string

	email        string
	accessToken  string
	refreshToken string
}

func NewApp(c *config.Config) (*App, error) {
	conn, err := grpc.NewClient(c.ServerEndpointAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.ServerEndpointAddr, err)
	}

	return &App{
		config: c,
		client: gs.NewClient(conn),
		conn:   conn,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.conn.Close()

	printlnFn("Accounts CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.accessToken != ""
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return "(" + a.email + ") "
	}
	return ""
}

func (a *App) setSession(res *api.SessionResponse) {
	if res.Account != nil {
		a.email = res.Account.Email
	}
	a.accessToken = res.AccessToken
	a.refreshToken = res.RefreshToken
}

func (a *App) clearSession() {
	a.email, a.accessToken, a.refreshToken = "", "", ""
}
