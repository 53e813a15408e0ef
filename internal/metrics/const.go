package metrics

const Namespace = "items_api"

const (
	LoginOutcomeSuccess         = "success"
	LoginOutcomeProviderError   = "provider_error"
	LoginOutcomeMissingCode     = "missing_code"
	LoginOutcomeStateMismatch   = "state_mismatch"
	LoginOutcomeExchangeFailed  = "exchange_failed"
	LoginOutcomeAssertionFailed = "assertion_failed"
	LoginOutcomeIssueFailed     = "issue_failed"
)

const (
	AuthModeRequired = "required"
	AuthModeOptional = "optional"
	AuthModeAdmin    = "admin"
)

const (
	ProviderOperationExchange = "exchange"
	ProviderOperationVerify   = "verify"
)

const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)
