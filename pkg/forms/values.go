package forms

import (
	"fmt"
	"time"
)

// Accessor Set payload coercions. Accessors accept the natural Go value for
// their kind and reject anything else loudly; a wrong payload type is a
// caller bug, not data to be massaged.

func stringValue(v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", fmt.Errorf("forms: expected string value, got %T", v)
	}
}

func stringPtrValue(v any) (*string, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case *string:
		return s, nil
	case string:
		return &s, nil
	default:
		return nil, fmt.Errorf("forms: expected string value, got %T", v)
	}
}

func timePtrValue(v any) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case *time.Time:
		return t, nil
	case time.Time:
		return &t, nil
	default:
		return nil, fmt.Errorf("forms: expected time value, got %T", v)
	}
}

func boolValue(v any) (bool, error) {
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	default:
		return false, fmt.Errorf("forms: expected bool value, got %T", v)
	}
}

func boolPtrValue(v any) (*bool, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case *bool:
		return b, nil
	case bool:
		return &b, nil
	default:
		return nil, fmt.Errorf("forms: expected bool value, got %T", v)
	}
}

func agePtrValue(v any) (*Age, error) {
	switch a := v.(type) {
	case nil:
		return nil, nil
	case *Age:
		return a, nil
	case Age:
		return &a, nil
	default:
		return nil, fmt.Errorf("forms: expected age value, got %T", v)
	}
}
