package conf

const Version = "1.4.0"

const (
	CONTENT_TYPE_JSON      = "application/json"
	CONTENT_TYPE_FORM      = "application/x-www-form-urlencoded"
	CONTENT_TYPE_OCTET     = "application/octet-stream"
	CONTENT_TYPE_MULTIPART = "multipart/form-data"
)

const (
	// DefaultBaseURL is the production Photi API host.
	DefaultBaseURL = "https://api.photi.co.kr"

	// RefreshTokenPath is where a refresh token is exchanged for a new pair.
	RefreshTokenPath = "/api/users/token"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderRefreshToken  = "Refresh-Token"
	HeaderRequestID     = "X-Request-Id"
	HeaderUserAgent     = "User-Agent"

	BearerPrefix = "Bearer "
)
