// Package ledger is the application service of finanzplan. It keeps every
// collection as one JSON document in a kv.Store and implements the user
// operations on top of them: incomes, fixed costs, expenses, their types,
// savings plans and the monthly aggregates.
//
// Every operation reads the collections it needs, computes, and writes them
// back whole.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"finanzplan/internal/core"
	"finanzplan/internal/kv"
	"finanzplan/internal/log"
)

// Store keys, one per collection.
const (
	KeyIncomes           = "incomes"
	KeyFixedCosts        = "fixedCosts"
	KeyExpenses          = "expenses"
	KeyFixedTypes        = "fixedTypes"
	KeyExpenseCategories = "expenseCategories"
	KeySavingsPlans      = "savingsPlans"
	KeySavingsRates      = "savingsRates"
	KeySavingsMoves      = "savingsMoves"
)

// Keys returns every key the ledger writes.
func Keys() []string {
	return []string{
		KeyIncomes, KeyFixedCosts, KeyExpenses,
		KeyFixedTypes, KeyExpenseCategories,
		KeySavingsPlans, KeySavingsRates, KeySavingsMoves,
	}
}

// ID prefixes of generated identifiers.
const (
	prefixIncome      = "inc"
	prefixFixed       = "fix"
	prefixExpense     = "exp"
	prefixFixedType   = "ft"
	prefixCategory    = "ec"
	prefixPlan        = "sp"
	prefixRate        = "sr"
	prefixSavingsMove = "sm"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyDeposited = errors.New("rate already deposited this month")
	ErrZeroRate         = errors.New("rate is zero, set a rate first")
	ErrTypeInUse        = errors.New("type is in use, choose a replacement")
	ErrNoAlternative    = errors.New("no other type to move entries to")
	ErrPlanArchived     = errors.New("savings plan is archived")

	// ErrStoredAmountInvalid means an edit kept an amount that is not
	// positive, typically from a legacy record; the edit must set one.
	ErrStoredAmountInvalid = errors.New("stored amount is invalid, set a new amount")
)

// ServiceConfig holds the injectable dependencies of a Service.
type ServiceConfig struct {
	Clock          core.Clock
	NewID          func(prefix string) string
	LegacySentinel string
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Clock:          time.Now,
		NewID:          NewID,
		LegacySentinel: core.LegacySentinelMonth,
	}
}

// NewID returns prefix_<uuid>.
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

type Service struct {
	store    kv.Store
	clock    core.Clock
	newID    func(prefix string) string
	sentinel string
	logger   *log.Logger

	// serializes read-modify-write cycles
	mu sync.Mutex
}

func NewService(store kv.Store, cfg ServiceConfig, logger *log.Logger) *Service {
	def := DefaultServiceConfig()
	if cfg.Clock == nil {
		cfg.Clock = def.Clock
	}
	if cfg.NewID == nil {
		cfg.NewID = def.NewID
	}
	if cfg.LegacySentinel == "" {
		cfg.LegacySentinel = def.LegacySentinel
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Service{
		store:    store,
		clock:    cfg.Clock,
		newID:    cfg.NewID,
		sentinel: cfg.LegacySentinel,
		logger:   logger.WithComponent(log.ComponentLedger),
	}
}

// CurrentMonth is the month of the service clock.
func (s *Service) CurrentMonth() core.Month {
	return core.CurrentMonth(s.clock)
}

// Today is the date of the service clock.
func (s *Service) Today() core.Date {
	return core.Today(s.clock)
}

// loadList reads the collection under key. A missing key yields def(); so
// does a value that is not valid JSON, after logging a warning.
func loadList[T any](ctx context.Context, s *Service, key string, def func() []T) ([]T, error) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || raw == "" {
		return def(), nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.logger.WarnContext(ctx, "Stored collection is corrupt, using defaults",
			log.FieldKey, key, log.FieldError, err)
		return def(), nil
	}
	if out == nil {
		out = def()
	}
	return out, nil
}

func saveList[T any](ctx context.Context, s *Service, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	s.logger.DebugContext(ctx, "Collection saved", log.FieldKey, key, log.FieldCount, len(list))
	return nil
}

func empty[T any]() []T { return []T{} }

// Reset removes every collection. Defaults apply again afterwards.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range Keys() {
		if err := s.store.Remove(ctx, key); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	s.logger.InfoContext(ctx, "All data removed", log.FieldOperation, log.OpReset)
	return nil
}
