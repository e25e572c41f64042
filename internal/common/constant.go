package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the access
// token on inbound requests.
const AccessTokenHeaderName = "access_token"

// RefreshTokenHeaderName is the gRPC metadata key carrying the refresh token.
const RefreshTokenHeaderName = "refresh_token"

// DefaultRole is assigned to every account materialized by activation.
const DefaultRole = "user"

// LogoutMessage is returned to callers after a successful logout.
const LogoutMessage = "logged out successfully"
