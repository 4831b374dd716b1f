package checklist

import (
	"sync"
	"time"

	"github.com/amonks/shiftbook/businessday"
	"github.com/amonks/shiftbook/internal/kv"
	"go.uber.org/zap"
)

// Store keys owned by the checklist, relative to the store namespace.
// Day records are stored under their business day key.
const (
	TemplateKey       = "TEMPLATE"
	ArchiveKey        = "ARCHIVE"
	ArchiveCorruptKey = "ARCHIVE_CORRUPT"
	LastResetKey      = "LAST_RESET"
)

// Options configures a Book.
type Options struct {
	// Policy decides the business day. The zero value is midnight in UTC.
	Policy businessday.Policy

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Logger receives recovery and rollover events. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Book is the checklist state engine over a key-value store. It is safe for
// concurrent use: every operation runs to completion before the next one
// starts, so a load observes every mutation that returned before it.
type Book struct {
	// mu serializes operations; unexported helpers expect it held.
	mu sync.Mutex

	store  kv.Store
	policy businessday.Policy
	now    func() time.Time
	logger *zap.Logger
}

// New returns a Book backed by store.
func New(store kv.Store, opts Options) *Book {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Book{
		store:  store,
		policy: opts.Policy,
		now:    opts.Now,
		logger: opts.Logger,
	}
}

// Policy returns the business day policy.
func (b *Book) Policy() businessday.Policy {
	return b.policy
}

// Now returns the book's current time.
func (b *Book) Now() time.Time {
	return b.now()
}

// BusinessDay returns the business day the rollover acts on.
func (b *Book) BusinessDay() businessday.Key {
	return b.policy.KeyFor(b.now())
}
