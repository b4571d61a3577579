package forms

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// CheckVisualIDFunc is the REST-style collaborator that answers whether a
// candidate visual ID is free. ExcludeID carries the entity being edited so
// its own current ID does not count as a clash.
type CheckVisualIDFunc func(ctx context.Context, outbreakID, mask, value, excludeID string) (bool, error)

// defaultUniquenessCacheSize bounds the memo cache. Entries are keyed by the
// full (outbreak, mask, value, excludeID) tuple, so 256 comfortably covers a
// field-edit session while keeping long-lived sessions bounded.
const defaultUniquenessCacheSize = 256

// VisualIDValidator memoizes visual-ID uniqueness checks. A repeated key never
// re-issues the network call; any change to a key component is a fresh check.
// Failures are not cached, so the next edit naturally retries.
type VisualIDValidator struct {
	check CheckVisualIDFunc
	cache *lru.Cache[string, bool]
	group singleflight.Group
}

// NewVisualIDValidator wires the collaborator check behind the memo cache.
// cacheSize <= 0 selects the default bound.
func NewVisualIDValidator(check CheckVisualIDFunc, cacheSize int) (*VisualIDValidator, error) {
	if check == nil {
		return nil, fmt.Errorf("forms: uniqueness check func is required")
	}
	if cacheSize <= 0 {
		cacheSize = defaultUniquenessCacheSize
	}
	cache, err := lru.New[string, bool](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("forms: uniqueness cache: %w", err)
	}
	return &VisualIDValidator{check: check, cache: cache}, nil
}

// Validate reports whether value is unique for the outbreak/mask pair.
// Concurrent calls for the same key share one in-flight check.
func (v *VisualIDValidator) Validate(ctx context.Context, outbreakID, mask, value, excludeID string) (bool, error) {
	key := strings.Join([]string{outbreakID, mask, value, excludeID}, "|")
	if unique, ok := v.cache.Get(key); ok {
		return unique, nil
	}

	result, err, _ := v.group.Do(key, func() (any, error) {
		if unique, ok := v.cache.Get(key); ok {
			return unique, nil
		}
		unique, err := v.check(ctx, outbreakID, mask, value, excludeID)
		if err != nil {
			return false, fmt.Errorf("forms: visual id uniqueness check: %w", err)
		}
		v.cache.Add(key, unique)
		return unique, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}
