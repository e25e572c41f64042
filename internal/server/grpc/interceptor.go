package grpc

import (
	"context"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var guardedMethods = map[string]bool{
	fullMethod("CurrentAccount"):      true,
	fullMethod("Logout"):              true,
	fullMethod("RequestAvatarUpload"): true,
	fullMethod("AvatarDownloadURL"):   true,
}

func firstValue(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

// accessTokenInterceptor authenticates guarded methods and attaches the
// principal to the handler context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if guardedMethods[info.FullMethod] {

		md, _ := metadata.FromIncomingContext(ctx)
		accessToken := firstValue(md, common.AccessTokenHeaderName)
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		p, err := s.accounts.Authenticate(ctx, accessToken, firstValue(md, common.RefreshTokenHeaderName))
		if err != nil {
			return nil, s.statusError(ctx, err)
		}

		ctx = auth.WithPrincipal(ctx, p)
	}

	return handler(ctx, req)
}
