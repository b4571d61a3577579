package schema

// Accessor binds a field to its backing entity value through closures rather
// than raw references, so a tree can be rebuilt without losing bound state and
// a Set can run cross-field cascades atomically with the write.
type Accessor interface {
	Get() any
	Set(value any) error
}

type accessorFunc struct {
	get func() any
	set func(any) error
}

func (a accessorFunc) Get() any            { return a.get() }
func (a accessorFunc) Set(value any) error { return a.set(value) }

// Bind adapts a get/set closure pair into an Accessor. A nil set produces a
// read-only accessor whose Set is a no-op.
func Bind(get func() any, set func(any) error) Accessor {
	if get == nil {
		get = func() any { return nil }
	}
	if set == nil {
		set = func(any) error { return nil }
	}
	return accessorFunc{get: get, set: set}
}
