package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldKey         = "key"
	FieldBackend     = "backend"
	FieldPath        = "path"
	FieldMonth       = "month"
	FieldID          = "id"
	FieldBaseID      = "base_id"
	FieldStartMonth  = "start_month"
	FieldEffective   = "effective"
	FieldAmountCents = "amount_cents"
	FieldCount       = "count"
	FieldPlanID      = "plan_id"
	FieldCategoryID  = "category_id"
	FieldKind        = "kind"
	FieldCommand     = "command"
	FieldIndex       = "index"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentCLI       = "cli"
	ComponentStorage   = "storage"
	ComponentCache     = "cache"
	ComponentBackend   = "backend"
	ComponentLedger    = "ledger"
	ComponentFixedCost = "fixed_cost"
	ComponentSavings   = "savings"
	ComponentReport    = "report"
)

// Operations defines standard operation names
const (
	OpCreate  = "create"
	OpRead    = "read"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpList    = "list"
	OpMigrate = "migrate"
	OpResolve = "resolve"
	OpDeposit = "deposit"
	OpExport  = "export"
	OpReset   = "reset"
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

// WithError adds error field
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

// WithFixedCost adds the identity and effective month of a fixed-cost version.
func (f LogFields) WithFixedCost(id, baseID, startMonth string, amountCents int64) LogFields {
	f[FieldID] = id
	f[FieldBaseID] = baseID
	f[FieldStartMonth] = startMonth
	f[FieldAmountCents] = amountCents
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
