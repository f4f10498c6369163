package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldRequestID    = "request_id"
	FieldClientIP     = "client_ip"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldRoute        = "route"
	FieldStatusCode   = "status_code"
	FieldDuration     = "duration_ms"
	FieldUserAgent    = "user_agent"
	FieldSuccess      = "success"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldKind         = "kind"
	FieldIndex        = "index"
	FieldLabel        = "label"
	FieldKey          = "key"
	FieldBackend      = "backend"
	FieldSnapshotID   = "snapshot_id"
	FieldItemCount    = "item_count"
	FieldRowCount     = "row_count"
	FieldTotalContrib = "total_contribution"
	FieldTotalExpense = "total_expense"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentRateLimit = "rate_limit"
	ComponentBackend   = "backend"
	ComponentTemplate  = "template"
	ComponentCLI       = "cli"
)

// Operations defines standard operation names
const (
	OpAdd       = "add"
	OpEditLabel = "edit_label"
	OpDelete    = "delete"
	OpCalculate = "calculate"
	OpLoad      = "load"
	OpSave      = "save"
	OpPublish   = "publish"
	OpExport    = "export"
	OpRender    = "render"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRoute adds the matched route pattern, e.g. "/{kind}/{index}/label".
func (f LogFields) WithRoute(route string) LogFields {
	if route != "" {
		f[FieldRoute] = route
	}
	return f
}

func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds the error text; a nil error adds nothing.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithItem adds the list and position an item mutation applies to.
// A negative index is omitted (appends have no index yet).
func (f LogFields) WithItem(kind string, index int, label string) LogFields {
	f[FieldKind] = kind
	if index >= 0 {
		f[FieldIndex] = index
	}
	if label != "" {
		f[FieldLabel] = label
	}
	return f
}

// WithTotals adds both formatted ledger totals.
func (f LogFields) WithTotals(contribution, expense string) LogFields {
	f[FieldTotalContrib] = contribution
	f[FieldTotalExpense] = expense
	return f
}

func (f LogFields) WithHTTPRequest(method, path, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
