package a1

import "fmt"

// Action is the result of a Transform visit.
type Action int

const (
	// Keep replaces the field with the returned value.
	Keep Action = iota
	// Remove deletes the field: pointer fields become nil, value fields
	// are zeroed, and the descriptor itself is discarded when removed.
	Remove
)

// Transform rewrites or prunes descriptor fields after parsing. It is
// called post-order: once per field with the field's JSON name as key,
// then once for the descriptor itself with an empty key.
type Transform func(key string, value any) (any, Action)

// StripUnbounded is a Transform that removes every unresolved (nil) end
// coordinate and span, leaving a descriptor with only concrete fields.
func StripUnbounded(key string, value any) (any, Action) {
	if value == nil {
		return nil, Remove
	}
	return value, Keep
}

func applyTransforms(r *Range, transforms []Transform) (*Range, error) {
	for _, fn := range transforms {
		if fn == nil {
			continue
		}
		var err error
		r, err = transformRange(r, fn)
		if err != nil || r == nil {
			return nil, err
		}
	}
	return r, nil
}

func transformRange(r *Range, fn Transform) (*Range, error) {
	var err error
	if r.StartRowPosition, err = visitInt(fn, "start_row_position", r.StartRowPosition); err != nil {
		return nil, err
	}
	if r.StartRowIndex, err = visitInt(fn, "start_row_index", r.StartRowIndex); err != nil {
		return nil, err
	}
	if r.StartColumnLabel, err = visitString(fn, "start_column_label", r.StartColumnLabel); err != nil {
		return nil, err
	}
	if r.StartColumnPosition, err = visitInt(fn, "start_column_position", r.StartColumnPosition); err != nil {
		return nil, err
	}
	if r.StartColumnIndex, err = visitInt(fn, "start_column_index", r.StartColumnIndex); err != nil {
		return nil, err
	}
	if r.EndRowPosition, err = visitIntPtr(fn, "end_row_position", r.EndRowPosition); err != nil {
		return nil, err
	}
	if r.EndRowIndex, err = visitIntPtr(fn, "end_row_index", r.EndRowIndex); err != nil {
		return nil, err
	}
	if r.EndColumnLabel, err = visitStringPtr(fn, "end_column_label", r.EndColumnLabel); err != nil {
		return nil, err
	}
	if r.EndColumnPosition, err = visitIntPtr(fn, "end_column_position", r.EndColumnPosition); err != nil {
		return nil, err
	}
	if r.EndColumnIndex, err = visitIntPtr(fn, "end_column_index", r.EndColumnIndex); err != nil {
		return nil, err
	}
	if r.NumRows, err = visitIntPtr(fn, "num_rows", r.NumRows); err != nil {
		return nil, err
	}
	if r.NumColumns, err = visitIntPtr(fn, "num_columns", r.NumColumns); err != nil {
		return nil, err
	}
	if r.IsCell, err = visitBool(fn, "is_cell", r.IsCell); err != nil {
		return nil, err
	}
	if r.A1Notation, err = visitString(fn, "a1_notation", r.A1Notation); err != nil {
		return nil, err
	}

	// The node itself, visited after its children.
	replaced, action := fn("", *r)
	if action == Remove {
		return nil, nil
	}
	switch v := replaced.(type) {
	case Range:
		*r = v
		return r, nil
	case *Range:
		if v != nil {
			return v, nil
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: transform replaced descriptor with %T", ErrInvalidArgument, replaced)
	}
}

func visitInt(fn Transform, key string, value int) (int, error) {
	replaced, action := fn(key, value)
	if action == Remove {
		return 0, nil
	}
	v, ok := replaced.(int)
	if !ok {
		return 0, fmt.Errorf("%w: transform replaced %s with %T, want int", ErrInvalidArgument, key, replaced)
	}
	return v, nil
}

func visitIntPtr(fn Transform, key string, value *int) (*int, error) {
	var current any
	if value != nil {
		current = *value
	}
	replaced, action := fn(key, current)
	if action == Remove {
		return nil, nil
	}
	switch v := replaced.(type) {
	case nil:
		return nil, nil
	case int:
		return &v, nil
	case *int:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: transform replaced %s with %T, want int", ErrInvalidArgument, key, replaced)
	}
}

func visitString(fn Transform, key, value string) (string, error) {
	replaced, action := fn(key, value)
	if action == Remove {
		return "", nil
	}
	v, ok := replaced.(string)
	if !ok {
		return "", fmt.Errorf("%w: transform replaced %s with %T, want string", ErrInvalidArgument, key, replaced)
	}
	return v, nil
}

func visitStringPtr(fn Transform, key string, value *string) (*string, error) {
	var current any
	if value != nil {
		current = *value
	}
	replaced, action := fn(key, current)
	if action == Remove {
		return nil, nil
	}
	switch v := replaced.(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	case *string:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: transform replaced %s with %T, want string", ErrInvalidArgument, key, replaced)
	}
}

func visitBool(fn Transform, key string, value bool) (bool, error) {
	replaced, action := fn(key, value)
	if action == Remove {
		return false, nil
	}
	v, ok := replaced.(bool)
	if !ok {
		return false, fmt.Errorf("%w: transform replaced %s with %T, want bool", ErrInvalidArgument, key, replaced)
	}
	return v, nil
}
