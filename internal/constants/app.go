package constants

// Application Information
const (
	AppName    = "Referral Service"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Cache Key Prefixes
const (
	CacheKeyPrefix       = "referral:"
	CacheKeyRevokedToken = CacheKeyPrefix + "revoked:"
)

// Accepted LOG_LEVEL values
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
	LogLevelFatal = "fatal"
)
