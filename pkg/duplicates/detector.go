// Package duplicates watches the identity triplet (first/middle/last name)
// of a person-shaped form and runs debounced, cancellable lookups for
// possible duplicate records across the contact and case spaces.
//
// The hard requirement is ordering: results of a superseded request must
// never land after a newer request's results, so supersession cancels the
// in-flight context rather than merely ignoring late data.
package duplicates

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/outbreakkit/go-entityform/pkg/notify"
)

// State of the per-form detector cycle.
type State string

const (
	StateIdle     State = "idle"
	StatePending  State = "pending"   // debounce timer running
	StateInFlight State = "in-flight" // lookups dispatched
	StateResolved State = "resolved"  // last cycle completed, awaiting next change
)

// DebounceWindow is the default quiet period after the last name edit before
// lookups dispatch.
const DebounceWindow = 400 * time.Millisecond

// NoticeKey identifies the duplicate-candidates notice; each completed query
// replaces the previous notice wholesale under this key.
const NoticeKey = "duplicate-candidates"

// errorNoticeKey identifies the transient lookup-failure notice.
const errorNoticeKey = "duplicate-check-failed"

// IdentityKey is the name triplet duplicate search runs on. Compared by value
// to suppress redundant round-trips.
type IdentityKey struct {
	FirstName  string
	MiddleName string
	LastName   string
}

func (k IdentityKey) normalized() IdentityKey {
	return IdentityKey{
		FirstName:  strings.TrimSpace(k.FirstName),
		MiddleName: strings.TrimSpace(k.MiddleName),
		LastName:   strings.TrimSpace(k.LastName),
	}
}

// populated counts the non-empty components.
func (k IdentityKey) populated() int {
	n := 0
	for _, part := range []string{k.FirstName, k.MiddleName, k.LastName} {
		if part != "" {
			n++
		}
	}
	return n
}

// Query is one immutable lookup invocation.
type Query struct {
	IdentityKey
	ExcludeID string
}

// Lookup is a REST-style collaborator searching one entity space.
type Lookup func(ctx context.Context, query Query) ([]Candidate, error)

// Detector runs the debounce/dispatch/join cycle. Safe for use from the
// UI event goroutine plus the timer and lookup goroutines it spawns.
type Detector struct {
	contacts Lookup
	cases    Lookup
	notifier notify.Notifier
	log      zerolog.Logger
	debounce time.Duration

	mu            sync.Mutex
	state         State
	timer         *time.Timer
	pending       Query
	lastCompleted *Query
	cancelFlight  context.CancelFunc
	generation    uint64
	candidates    []Candidate
	closed        bool
}

// DetectorOption customises a Detector.
type DetectorOption func(*Detector)

// WithDebounce overrides the debounce window.
func WithDebounce(window time.Duration) DetectorOption {
	return func(d *Detector) { d.debounce = window }
}

// WithNotifier sets the notification sink.
func WithNotifier(notifier notify.Notifier) DetectorOption {
	return func(d *Detector) { d.notifier = notifier }
}

// WithLogger sets the lifecycle logger.
func WithLogger(log zerolog.Logger) DetectorOption {
	return func(d *Detector) { d.log = log }
}

// NewDetector wires the two entity-space lookups.
func NewDetector(contacts, cases Lookup, opts ...DetectorOption) *Detector {
	d := &Detector{
		contacts: contacts,
		cases:    cases,
		notifier: notify.Nop{},
		log:      zerolog.Nop(),
		debounce: DebounceWindow,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OnNameChange (re)starts the debounce window with the latest triplet. Edits
// arriving before the window elapses restart it; only the last edit's key is
// ever dispatched.
func (d *Detector) OnNameChange(key IdentityKey, excludeID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.pending = Query{IdentityKey: key.normalized(), ExcludeID: excludeID}
	d.state = StatePending
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounce, d.dispatch)
}

// State returns the current cycle state.
func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Candidates returns a snapshot of the current duplicate-candidate set.
func (d *Detector) Candidates() []Candidate {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Candidate, len(d.candidates))
	copy(out, d.candidates)
	return out
}

// Close cancels the pending timer and any in-flight lookups. Required on form
// teardown; a live timer or subscription past destruction is a resource leak.
func (d *Detector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.abortFlightLocked()
	d.state = StateIdle
}

// dispatch runs when the debounce window elapses.
func (d *Detector) dispatch() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	query := d.pending

	// Ambiguous partial identity: nothing, or a single name component. Not an
	// error; clear whatever was shown and stand down. An in-flight request is
	// for a key the user has typed away from, so it goes too.
	if query.populated() <= 1 {
		d.abortFlightLocked()
		d.candidates = nil
		d.lastCompleted = nil
		d.state = StateIdle
		d.mu.Unlock()
		d.notifier.Hide(NoticeKey)
		return
	}

	// Unchanged since the last successfully completed query: no new request.
	// A flight still running here is for a key the user has already reverted
	// away from; it must not land over the completed set.
	if d.lastCompleted != nil && *d.lastCompleted == query {
		d.abortFlightLocked()
		d.state = StateIdle
		d.mu.Unlock()
		return
	}

	// A newer key supersedes whatever is still in flight.
	d.abortFlightLocked()

	ctx, cancel := context.WithCancel(context.Background())
	d.cancelFlight = cancel
	d.generation++
	generation := d.generation
	d.state = StateInFlight
	d.mu.Unlock()

	d.log.Debug().
		Str("firstName", query.FirstName).
		Str("lastName", query.LastName).
		Msg("duplicate lookup dispatched")

	go d.run(ctx, generation, query)
}

// run fans out to both entity spaces and joins only when both complete.
func (d *Detector) run(ctx context.Context, generation uint64, query Query) {
	var fromContacts, fromCases []Candidate

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := d.contacts(ctx, query)
		if err != nil {
			return err
		}
		fromContacts = found
		return nil
	})
	g.Go(func() error {
		found, err := d.cases(ctx, query)
		if err != nil {
			return err
		}
		fromCases = found
		return nil
	})
	err := g.Wait()

	d.mu.Lock()
	if d.closed || generation != d.generation {
		// Superseded while in flight; its cancellation already happened and
		// its results must not overwrite the newer cycle's.
		d.mu.Unlock()
		return
	}
	d.cancelFlight = nil

	if err != nil {
		// Either leg failing aborts the join: no partial-result display. The
		// user's next edit retries naturally.
		d.state = StateIdle
		d.mu.Unlock()
		d.log.Warn().Err(err).Msg("duplicate lookup failed")
		d.notifier.Notice("duplicate check failed", map[string]any{"error": err.Error()}, errorNoticeKey)
		return
	}

	merged := mergeCandidates(fromContacts, fromCases)
	d.candidates = merged
	completed := query
	d.lastCompleted = &completed
	d.state = StateResolved
	d.mu.Unlock()

	if len(merged) == 0 {
		d.notifier.Hide(NoticeKey)
		return
	}
	d.notifier.Notice("possible duplicate records found", map[string]any{
		"count":      len(merged),
		"firstName":  query.FirstName,
		"middleName": query.MiddleName,
		"lastName":   query.LastName,
	}, NoticeKey)
}

// abortFlightLocked cancels the in-flight lookups and invalidates their
// generation. Cancellation alone is not enough: a leg that already returned
// before the cancel would still pass run's generation check and apply stale
// results, so supersession bumps the generation too.
func (d *Detector) abortFlightLocked() {
	if d.cancelFlight != nil {
		d.cancelFlight()
		d.cancelFlight = nil
		d.generation++
	}
}
