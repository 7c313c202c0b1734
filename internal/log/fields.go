package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldUserID      = "user_id"
	FieldAccountID   = "account_id"
	FieldPage        = "page"
	FieldLimit       = "limit"
	FieldCount       = "count"
	FieldBalance     = "balance"
	FieldStatusCode  = "status_code"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldDurationMs  = "duration_ms"
	FieldBackend     = "backend"
	FieldFeedEntries = "feed_entries"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentAPI        = "api"
	ComponentBackend    = "backend"
	ComponentPageStore  = "page_store"
	ComponentAggregator = "aggregator"
	ComponentCache      = "cache"
)

// Operations defines standard operation names
const (
	OpListAccounts      = "list_accounts"
	OpGetBalance        = "get_balance"
	OpListTransactions  = "list_transactions"
	OpCountTransactions = "count_transactions"
	OpAggregate         = "aggregate"
	OpLoadPage          = "load_page"
)
