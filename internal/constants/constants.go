package constants

import "time"

// Context keys
const (
	ContextKeyUser      = "current_user"
	ContextKeyTenant    = "tenant"
	ContextKeyRequestID = "request_id"
)

const (
	HeaderRequestID = "X-Request-ID"
	BearerPrefix    = "Bearer "
)

// Validation
const (
	MinPasswordLength  = 8
	MinFullNameLength  = 2
	MinTenantNameLen   = 2
	MinSubdomainLength = 3
	MinProjectNameLen  = 2
	MinTaskTitleLength = 2
)

// Pagination
const (
	MinPage                = 1
	MaxPageSize            = 100
	DefaultTenantPageSize  = 10
	DefaultProjectPageSize = 20
	DefaultTaskPageSize    = 50
	DefaultUserPageSize    = 50
)

const (
	DefaultTokenLifetime = 24 * time.Hour
	AuditWriteTimeout    = 5 * time.Second
)
