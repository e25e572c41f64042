package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/api"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorDomain is the errdetails.ErrorInfo domain of account service errors.
const ErrorDomain = "accounts"


func statusCode(err error) codes.Code {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		return codes.Unauthenticated
	case errors.Is(err, common.ErrValidation), common.IsTokenError(err):
		return codes.InvalidArgument
	case common.IsConflict(err):
		return codes.AlreadyExists
	case errors.Is(err, common.ErrorNotFound):
		return codes.NotFound
	case errors.Is(err, common.ErrUnavailable):
		return codes.Unimplemented
	default:
		return codes.Internal
	}
}

// statusError converts a service error to a gRPC status carrying the wire
// code and field errors as an errdetails.ErrorInfo. Internal errors are
// logged and reported without detail.
func (s *GRPCServer) statusError(ctx context.Context, err error) error {
	e := api.NewError(err)
	code := statusCode(err)
	if code == codes.Internal {
		s.logger.Error(ctx, "request failed", "error", err)
	}

	st := status.New(code, e.Message)
	detailed, derr := st.WithDetails(&errdetails.ErrorInfo{Reason: e.Code, Domain: ErrorDomain, Metadata: e.Fields})
	if derr != nil {
		return st.Err()
	}
	return detailed.Err()
}

// ErrorCode returns the wire code (DUPLICATE_EMAIL, TOKEN_EXPIRED, ...) that
// the server attached to a gRPC error, or "" when there is none.
func ErrorCode(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			return info.GetReason()
		}
	}
	return ""
}

// FieldErrors returns the per-field validation messages of a gRPC error.
func FieldErrors(err error) map[string]string {
	st, ok := status.FromError(err)
	if !ok {
		return nil
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			return info.GetMetadata()
		}
	}
	return nil
}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request")

	result, err := s.accounts.Register(ctx, *req)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	return &api.RegisterResponse{ActivationToken: result.ActivationToken}, nil
}

func (s *GRPCServer) Activate(ctx context.Context, req *api.ActivateRequest) (*api.AccountResponse, error) {

	acc, err := s.accounts.Activate(ctx, *req)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	s.logger.Info(ctx, "Activated", "account_id", acc.ID)
	return &api.AccountResponse{Account: api.NewAccount(acc)}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.SessionResponse, error) {

	res, err := s.accounts.Login(ctx, *req)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	return api.NewSessionResponse(res), nil
}

func (s *GRPCServer) Refresh(ctx context.Context, req *api.RefreshRequest) (*api.SessionResponse, error) {

	res, err := s.accounts.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	return api.NewSessionResponse(res), nil
}

func (s *GRPCServer) CurrentAccount(ctx context.Context, _ *api.CurrentRequest) (*api.CurrentResponse, error) {

	p, err := s.accounts.Current(ctx)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	return api.NewCurrentResponse(p), nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *api.LogoutRequest) (*api.LogoutResponse, error) {

	msg, err := s.accounts.Logout(ctx)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	return &api.LogoutResponse{Message: msg}, nil
}

func (s *GRPCServer) ListAccounts(ctx context.Context, req *api.ListRequest) (*api.ListResponse, error) {

	list, err := s.accounts.List(ctx, models.Page{Limit: req.Limit, Offset: req.Offset})
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	return &api.ListResponse{Accounts: api.NewAccounts(list)}, nil
}

func (s *GRPCServer) RequestAvatarUpload(ctx context.Context, req *api.AvatarUploadRequest) (*api.PresignedResponse, error) {

	put, err := s.avatars.RequestUpload(ctx, req.ContentType)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	return api.NewPresignedResponse(put), nil
}

func (s *GRPCServer) AvatarDownloadURL(ctx context.Context, _ *api.AvatarDownloadRequest) (*api.PresignedResponse, error) {

	get, err := s.avatars.DownloadURL(ctx)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	return api.NewPresignedResponse(get), nil
}
