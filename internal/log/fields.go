package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldUserID      = "user_id"
	FieldTxID        = "transaction_id"
	FieldTxKind      = "transaction_kind"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldWindow      = "window"
	FieldModel       = "model"
	FieldFormat      = "format"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAuth      = "auth"
	ComponentStorage   = "storage"
	ComponentAI        = "ai"
	ComponentReport    = "report"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentBackup    = "backup"
	ComponentCache     = "cache"
	ComponentRateLimit = "rate_limit"
)

// Operations defines standard operation names.
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpDelete   = "delete"
	OpList     = "list"
	OpSync     = "sync"
	OpParse    = "parse"
	OpChat     = "chat"
	OpTips     = "tips"
	OpQuote    = "quote"
	OpExport   = "export"
	OpSignUp   = "sign_up"
	OpSignIn   = "sign_in"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
