package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/netx"
	"github.com/dmitrijs2005/accounts/internal/server/api"
	"google.golang.org/grpc/metadata"
)

var errNotLoggedIn = errors.New("not logged in")

// getSimpleText, getNumber and getPassword are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getNumber     = GetNumber
	getPassword   = GetPassword
)

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// authorized attaches the session tokens as gRPC metadata.
func (a *App) authorized(ctx context.Context) (context.Context, error) {
	if !a.isLoggedIn() {
		return nil, errNotLoggedIn
	}
	return metadata.AppendToOutgoingContext(ctx,
		common.AccessTokenHeaderName, a.accessToken,
		common.RefreshTokenHeaderName, a.refreshToken,
	), nil
}

// Register prompts for the account fields and starts a registration. The
// returned activation token is kept for the following activate command.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	phone, err := getNumber(a.reader, "Enter phone number", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	res, err := a.client.Register(ctx, &api.RegisterRequest{
		Name: name, Email: email, Password: string(password), PhoneNumber: phone,
	})
	if err != nil {
		return err
	}

	a.pendingToken = res.ActivationToken
	fmt.Fprintln(a.out, "Check your mailbox for the activation code, then run 'activate'.")
	return nil
}

func (a *App) Activate(ctx context.Context) error {
	if a.pendingToken == "" {
		return errors.New("nothing to activate, run 'register' first")
	}
	code, err := getSimpleText(a.reader, "Enter activation code", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	res, err := a.client.Activate(ctx, &api.ActivateRequest{ActivationToken: a.pendingToken, ActivationCode: code})
	if err != nil {
		return err
	}

	a.pendingToken = ""
	fmt.Fprintf(a.out, "Account %s activated.\n", res.Account.Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	res, err := a.client.Login(ctx, &api.LoginRequest{Email: email, Password: string(password)})
	if err != nil {
		return err
	}
	if res.Error != nil {
		return errors.New(res.Error.Message)
	}

	a.setSession(res)
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	res, err := a.client.Refresh(ctx, &api.RefreshRequest{RefreshToken: a.refreshToken})
	if err != nil {
		return err
	}

	a.setSession(res)
	fmt.Fprintln(a.out, "Session refreshed")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	ctx, err := a.authorized(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	res, err := a.client.CurrentAccount(ctx)
	if err != nil {
		return err
	}

	printAccount(a, res.Account)
	return nil
}

func (a *App) List(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	res, err := a.client.ListAccounts(ctx, &api.ListRequest{})
	if err != nil {
		return err
	}

	if len(res.Accounts) == 0 {
		fmt.Fprintln(a.out, "No accounts")
	}
	for _, acc := range res.Accounts {
		printAccount(a, acc)
	}
	return nil
}

// Avatar uploads an image file as the account avatar through a presigned URL.
func (a *App) Avatar(ctx context.Context) error {
	ctx, err := a.authorized(ctx)
	if err != nil {
		return err
	}
	path, err := getSimpleText(a.reader, "Enter path to an image (png, jpeg, webp, gif)", a.out)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	contentType := http.DetectContentType(data)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	res, err := a.client.RequestAvatarUpload(ctx, &api.AvatarUploadRequest{ContentType: contentType})
	if err != nil {
		return err
	}

	if err := netx.UploadToPresignedURL(ctx, a.httpClient, res.URL, contentType, data); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Avatar uploaded (%s, %d bytes)\n", contentType, len(data))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	ctx, err := a.authorized(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	res, err := a.client.Logout(ctx)
	if err != nil {
		return err
	}

	a.clearSession()
	fmt.Fprintln(a.out, res.Message)
	return nil
}

func printAccount(a *App, acc *api.Account) {
	fmt.Fprintf(a.out, "%-36s  %-20s  %-30s  %d\n", acc.ID, acc.Name, acc.Email, acc.PhoneNumber)
}
