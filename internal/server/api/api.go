// Package api holds the wire types shared by the gRPC and HTTP transports
// and the service contracts they depend on.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/services"
	"github.com/dmitrijs2005/accounts/internal/server/storage"
)

// Accounts is the account service as seen by a transport.
type Accounts interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.RegisterResult, error)
	Activate(ctx context.Context, in services.ActivateInput) (*models.Account, error)
	Login(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*services.LoginResult, error)
	Authenticate(ctx context.Context, accessToken, refreshToken string) (*auth.Principal, error)
	Current(ctx context.Context) (*auth.Principal, error)
	Logout(ctx context.Context) (string, error)
	List(ctx context.Context, page models.Page) ([]models.Account, error)
}

// Avatars is the avatar service as seen by a transport.
type Avatars interface {
	RequestUpload(ctx context.Context, contentType string) (*storage.Presigned, error)
	DownloadURL(ctx context.Context) (*storage.Presigned, error)
}

// Account is the public view of an account. It never carries the password digest.
type Account struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber int64     `json:"phone_number"`
	Role        string    `json:"role"`
	AvatarKey   *string   `json:"avatar_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewAccount(a *models.Account) *Account {
	if a == nil {
		return nil
	}
	return &Account{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		PhoneNumber: a.PhoneNumber,
		Role:        a.Role,
		AvatarKey:   a.AvatarKey,
		CreatedAt:   a.CreatedAt,
	}
}

func NewAccounts(list []models.Account) []*Account {
	out := make([]*Account, 0, len(list))
	for i := range list {
		out = append(out, NewAccount(&list[i]))
	}
	return out
}

type RegisterRequest = services.RegisterInput

type RegisterResponse struct {
	ActivationToken string `json:"activation_token"`
}

type ActivateRequest = services.ActivateInput

type AccountResponse struct {
	Account *Account `json:"account"`
}

type LoginRequest = services.LoginInput

// SessionResponse answers login and refresh. A rejected login carries only Error.
type SessionResponse struct {
	Account      *Account `json:"account,omitempty"`
	AccessToken  string   `json:"access_token,omitempty"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	Error        *Error   `json:"error,omitempty"`
}

func NewSessionResponse(res *services.LoginResult) *SessionResponse {
	if res.Failure != nil {
		return &SessionResponse{Error: NewError(res.Failure)}
	}
	return &SessionResponse{
		Account:      NewAccount(res.Account),
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CurrentRequest struct{}

// CurrentResponse is the authenticated account together with the tokens the
// guard accepted for this request.
type CurrentResponse struct {
	Account      *Account `json:"account"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
}

func NewCurrentResponse(p *auth.Principal) *CurrentResponse {
	return &CurrentResponse{Account: NewAccount(p.Account), AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

type LogoutRequest struct{}

type LogoutResponse struct {
	Message string `json:"message"`
}

type ListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

type ListResponse struct {
	Accounts []*Account `json:"accounts"`
}

type AvatarUploadRequest struct {
	ContentType string `json:"content_type"`
}

type AvatarDownloadRequest struct{}

type PresignedResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewPresignedResponse(p *storage.Presigned) *PresignedResponse {
	return &PresignedResponse{Key: p.Key, URL: p.URL, Method: p.Method, ExpiresAt: p.ExpiresAt}
}

// Error is the wire form of a failure.
type Error struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// NewError converts err to its wire form. Internal errors do not leak their text.
func NewError(err error) *Error {
	code := common.ErrorCode(err)
	e := &Error{Code: code, Message: err.Error(), Fields: services.FieldErrors(err)}
	if code == common.CodeInternal {
		e.Message = common.ErrorInternal.Error()
	}
	return e
}

// IsClientError reports whether err was caused by the caller rather than by
// the service or its collaborators.
func IsClientError(err error) bool {
	return common.ErrorCode(err) != common.CodeInternal && !errors.Is(err, common.ErrUnavailable)
}
