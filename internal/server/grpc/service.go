package grpc

import (
	"context"

	"github.com/dmitrijs2005/accounts/internal/server/api"
	"google.golang.org/grpc"
)

const ServiceName = "accounts.AccountService"

// AccountServiceServer is the server side of accounts.AccountService.
type AccountServiceServer interface {
	Register(context.Context, *api.RegisterRequest) (*api.RegisterResponse, error)
	Activate(context.Context, *api.ActivateRequest) (*api.AccountResponse, error)
	Login(context.Context, *api.LoginRequest) (*api.SessionResponse, error)
	Refresh(context.Context, *api.RefreshRequest) (*api.SessionResponse, error)
	CurrentAccount(context.Context, *api.CurrentRequest) (*api.CurrentResponse, error)
	Logout(context.Context, *api.LogoutRequest) (*api.LogoutResponse, error)
	ListAccounts(context.Context, *api.ListRequest) (*api.ListResponse, error)
	RequestAvatarUpload(context.Context, *api.AvatarUploadRequest) (*api.PresignedResponse, error)
	AvatarDownloadURL(context.Context, *api.AvatarDownloadRequest) (*api.PresignedResponse, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", AccountServiceServer.Register),
		unary("Activate", AccountServiceServer.Activate),
		unary("Login", AccountServiceServer.Login),
		unary("Refresh", AccountServiceServer.Refresh),
		unary("CurrentAccount", AccountServiceServer.CurrentAccount),
		unary("Logout", AccountServiceServer.Logout),
		unary("ListAccounts", AccountServiceServer.ListAccounts),
		unary("RequestAvatarUpload", AccountServiceServer.RequestAvatarUpload),
		unary("AvatarDownloadURL", AccountServiceServer.AvatarDownloadURL),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "accounts",
}

func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func unary[Req, Resp any](name string, call func(AccountServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AccountServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AccountServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Client is a typed client for accounts.AccountService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in *api.RegisterRequest, opts ...grpc.CallOption) (*api.RegisterResponse, error) {
	return invoke[api.RegisterResponse](ctx, c, "Register", in, opts)
}

func (c *Client) Activate(ctx context.Context, in *api.ActivateRequest, opts ...grpc.CallOption) (*api.AccountResponse, error) {
	return invoke[api.AccountResponse](ctx, c, "Activate", in, opts)
}

func (c *Client) Login(ctx context.Context, in *api.LoginRequest, opts ...grpc.CallOption) (*api.SessionResponse, error) {
	return invoke[api.SessionResponse](ctx, c, "Login", in, opts)
}

func (c *Client) Refresh(ctx context.Context, in *api.RefreshRequest, opts ...grpc.CallOption) (*api.SessionResponse, error) {
	return invoke[api.SessionResponse](ctx, c, "Refresh", in, opts)
}

func (c *Client) CurrentAccount(ctx context.Context, opts ...grpc.CallOption) (*api.CurrentResponse, error) {
	return invoke[api.CurrentResponse](ctx, c, "CurrentAccount", &api.CurrentRequest{}, opts)
}

func (c *Client) Logout(ctx context.Context, opts ...grpc.CallOption) (*api.LogoutResponse, error) {
	return invoke[api.LogoutResponse](ctx, c, "Logout", &api.LogoutRequest{}, opts)
}

func (c *Client) ListAccounts(ctx context.Context, in *api.ListRequest, opts ...grpc.CallOption) (*api.ListResponse, error) {
	return invoke[api.ListResponse](ctx, c, "ListAccounts", in, opts)
}

func (c *Client) RequestAvatarUpload(ctx context.Context, in *api.AvatarUploadRequest, opts ...grpc.CallOption) (*api.PresignedResponse, error) {
	return invoke[api.PresignedResponse](ctx, c, "RequestAvatarUpload", in, opts)
}

func (c *Client) AvatarDownloadURL(ctx context.Context, opts ...grpc.CallOption) (*api.PresignedResponse, error) {
	return invoke[api.PresignedResponse](ctx, c, "AvatarDownloadURL", &api.AvatarDownloadRequest{}, opts)
}
