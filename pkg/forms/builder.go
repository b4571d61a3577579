// Package forms assembles the tab→section→field trees for the four entity
// types (case, contact, contact-of-contact, lab result). Trees bind entity
// values through accessors so rebuilding a tree never loses bound state, and
// cross-field cascades run inside the accessor Set, atomically with the write.
//
// Builders only assemble; effective visibility is the resolver's job
// (pkg/visibility) and list-view filter exposure the generator's
// (pkg/filters).
package forms

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/outbreakkit/go-entityform/pkg/duplicates"
	"github.com/outbreakkit/go-entityform/pkg/notify"
	"github.com/outbreakkit/go-entityform/pkg/refdata"
	"github.com/outbreakkit/go-entityform/pkg/schema"
)

// Mode selects the form flavour a tree is built for.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeView   Mode = "view"
	ModeModify Mode = "modify"
)

// Config carries the collaborators a tree build needs. Zero-value fields fall
// back to inert defaults so tests can build trees with only what they
// exercise.
type Config struct {
	Mode         Mode
	OutbreakID   string
	VisualIDMask string

	RefData    refdata.Provider
	Notifier   notify.Notifier
	VisualID   *VisualIDValidator
	Duplicates *duplicates.Detector

	Now func() time.Time
	Log zerolog.Logger
}

// Option customises a Config.
type Option func(*Config)

// WithMode sets the form mode. Defaults to ModeCreate.
func WithMode(mode Mode) Option {
	return func(cfg *Config) { cfg.Mode = mode }
}

// WithOutbreak sets the outbreak scope and its visual-ID mask.
func WithOutbreak(outbreakID, visualIDMask string) Option {
	return func(cfg *Config) {
		cfg.OutbreakID = outbreakID
		cfg.VisualIDMask = visualIDMask
	}
}

// WithRefData sets the option-list provider.
func WithRefData(provider refdata.Provider) Option {
	return func(cfg *Config) { cfg.RefData = provider }
}

// WithNotifier sets the notification sink.
func WithNotifier(notifier notify.Notifier) Option {
	return func(cfg *Config) { cfg.Notifier = notifier }
}

// WithVisualIDValidator sets the memoized uniqueness validator.
func WithVisualIDValidator(validator *VisualIDValidator) Option {
	return func(cfg *Config) { cfg.VisualID = validator }
}

// WithDuplicateDetector wires name-field edits into the duplicate detector.
func WithDuplicateDetector(detector *duplicates.Detector) Option {
	return func(cfg *Config) { cfg.Duplicates = detector }
}

// WithClock overrides the clock used for age derivation and mask generation.
func WithClock(now func() time.Time) Option {
	return func(cfg *Config) { cfg.Now = now }
}

// WithLogger sets the build diagnostics logger.
func WithLogger(log zerolog.Logger) Option {
	return func(cfg *Config) { cfg.Log = log }
}

func newConfig(opts []Option) Config {
	cfg := Config{
		Mode:     ModeCreate,
		Notifier: notify.Nop{},
		Now:      time.Now,
		Log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (cfg *Config) readOnly() bool { return cfg.Mode == ModeView }

func (cfg *Config) options(ctx context.Context, category string) ([]refdata.Option, error) {
	if cfg.RefData == nil {
		return nil, nil
	}
	options, err := cfg.RefData.Options(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("forms: %s options: %w", category, err)
	}
	return options, nil
}

// bind returns a read-only accessor in view mode, a writable one otherwise.
func (cfg *Config) bind(get func() any, set func(any) error) schema.Accessor {
	if cfg.readOnly() {
		return schema.Bind(get, nil)
	}
	return schema.Bind(get, set)
}

// nameAccessor wraps a person name field so every write re-triggers duplicate
// detection with the full current triplet.
func (cfg *Config) nameAccessor(person *PersonData, get func() string, set func(string), excludeID string) schema.Accessor {
	return cfg.bind(
		func() any { return get() },
		func(value any) error {
			s, err := stringValue(value)
			if err != nil {
				return err
			}
			set(s)
			if cfg.Duplicates != nil {
				cfg.Duplicates.OnNameChange(duplicates.IdentityKey{
					FirstName:  person.FirstName,
					MiddleName: person.MiddleName,
					LastName:   person.LastName,
				}, excludeID)
			}
			return nil
		},
	)
}

// AgeDOB is the composite value of the age-dob field: the two entry modes are
// mutually exclusive, whichever was edited last wins.
type AgeDOB struct {
	Age *Age
	DOB *time.Time
}

// ageDOBAccessor binds the composite age/DOB field. Writing a date recomputes
// the derived age; writing an age nulls the DOB; nil clears both.
func (cfg *Config) ageDOBAccessor(person *PersonData) schema.Accessor {
	return cfg.bind(
		func() any { return AgeDOB{Age: person.Age, DOB: person.DOB} },
		func(value any) error {
			switch v := value.(type) {
			case nil:
				person.SetDOB(nil, cfg.Now())
				person.SetAge(nil)
				return nil
			case time.Time:
				person.SetDOB(&v, cfg.Now())
				return nil
			case *time.Time:
				person.SetDOB(v, cfg.Now())
				return nil
			case Age:
				person.SetAge(&v)
				return nil
			case *Age:
				person.SetAge(v)
				return nil
			default:
				return fmt.Errorf("forms: expected age or date of birth, got %T", value)
			}
		},
	)
}

// visualIDField builds the identifier field: seed value from the outbreak
// mask, async memoized uniqueness validation keyed by
// (outbreak, mask, value, excludeID).
func (cfg *Config) visualIDField(get func() string, set func(string), excludeID string) schema.Field {
	field := schema.Field{
		Key:              "visualId",
		Kind:             schema.KindText,
		Label:            "Visual ID",
		Description:      "Human-readable identifier generated from the outbreak mask",
		VisibleMandatory: &schema.VisibleRequired{Visible: true},
		ReadOnly:         cfg.readOnly(),
		Sortable:         true,
		Value: cfg.bind(
			func() any { return get() },
			func(value any) error {
				s, err := stringValue(value)
				if err != nil {
					return err
				}
				set(s)
				return nil
			},
		),
	}
	if cfg.VisualID != nil {
		field.Validate = func(ctx context.Context) error {
			value := get()
			if value == "" {
				return nil
			}
			unique, err := cfg.VisualID.Validate(ctx, cfg.OutbreakID, cfg.VisualIDMask, value, excludeID)
			if err != nil {
				cfg.Notifier.Notice("visual ID check failed", map[string]any{"error": err.Error()}, "visual-id-check")
				return err
			}
			if !unique {
				return fmt.Errorf("forms: visual id %q is already in use", value)
			}
			return nil
		}
	}
	return field
}

// validateAndLog runs the structural check every builder finishes with.
// Config errors are fatal: the affected tree must not render.
func (cfg *Config) validateAndLog(entityType string, tabs []schema.Tab) ([]schema.Tab, error) {
	if err := schema.ValidateTree(tabs); err != nil {
		cfg.Log.Error().Err(err).Str("entityType", entityType).Msg("form tree rejected")
		return nil, err
	}
	cfg.Log.Debug().Str("entityType", entityType).Int("tabs", len(tabs)).Msg("form tree built")
	return tabs, nil
}
