package records

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/rdsdata/types"
)

var (
	// ErrMalformedField is returned when a field carries no recognised union member
	ErrMalformedField = errors.New("malformed field")

	// ErrColumnCountMismatch is returned when a row does not line up with its column spec
	ErrColumnCountMismatch = errors.New("column count mismatch")
)

// DecodeField unwraps one engine field into a plain value.
//
// A null field decodes to the empty string, so callers cannot tell an
// absent value from an empty one after decoding. Numbers and strings are
// returned as-is: long -> int64, double -> float64, boolean -> bool,
// blob -> []byte, array -> []any.
func DecodeField(field types.Field) (any, error) {
	switch f := field.(type) {
	case *types.FieldMemberIsNull:
		return "", nil
	case *types.FieldMemberStringValue:
		return f.Value, nil
	case *types.FieldMemberLongValue:
		return f.Value, nil
	case *types.FieldMemberDoubleValue:
		return f.Value, nil
	case *types.FieldMemberBooleanValue:
		return f.Value, nil
	case *types.FieldMemberBlobValue:
		return f.Value, nil
	case *types.FieldMemberArrayValue:
		return decodeArray(f.Value)
	case nil:
		return nil, fmt.Errorf("%w: nil field", ErrMalformedField)
	default:
		return nil, fmt.Errorf("%w: unsupported member %T", ErrMalformedField, field)
	}
}

func decodeArray(value types.ArrayValue) ([]any, error) {
	switch v := value.(type) {
	case *types.ArrayValueMemberStringValues:
		return toAny(v.Value), nil
	case *types.ArrayValueMemberLongValues:
		return toAny(v.Value), nil
	case *types.ArrayValueMemberDoubleValues:
		return toAny(v.Value), nil
	case *types.ArrayValueMemberBooleanValues:
		return toAny(v.Value), nil
	case *types.ArrayValueMemberArrayValues:
		out := make([]any, 0, len(v.Value))
		for i, nested := range v.Value {
			decoded, err := decodeArray(nested)
			if err != nil {
				return nil, fmt.Errorf("array element %d: %w", i, err)
			}
			out = append(out, decoded)
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("%w: nil array", ErrMalformedField)
	default:
		return nil, fmt.Errorf("%w: unsupported array member %T", ErrMalformedField, value)
	}
}

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
