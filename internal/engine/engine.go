package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rdsdata/types"
)

// TimestampLayout is the text form the Data API uses for timestamp values.
// Milliseconds are kept so rows created within one second still sort by creation.
const TimestampLayout = "2006-01-02 15:04:05.000"

var (
	// ErrUniqueViolation is returned when a statement violates a unique constraint
	ErrUniqueViolation = errors.New("unique constraint violation")

	// ErrMissingParameter is returned when SQL references a parameter that was not supplied
	ErrMissingParameter = errors.New("missing statement parameter")
)

// Statement is one parameterized SQL statement. Parameters are referenced
// in the SQL text as :name.
type Statement struct {
	SQL    string
	Params []types.SqlParameter
}

// Result holds the positional rows returned by the engine
type Result struct {
	Records        [][]types.Field
	RecordsUpdated int64
}

// Engine executes parameterized statements and returns rows of wire fields
type Engine interface {
	Execute(ctx context.Context, stmt Statement) (*Result, error)
	Ping(ctx context.Context) error
	Close() error
}

// Param builds a named statement parameter from a Go value
func Param(name string, value any) types.SqlParameter {
	p := types.SqlParameter{Name: aws.String(name), Value: FieldOf(value)}
	if _, ok := value.(time.Time); ok {
		p.TypeHint = types.TypeHintTimestamp
	}
	return p
}

// HintedParam is Param with an explicit type hint, e.g. UUID for postgres uuid columns
func HintedParam(name string, value any, hint types.TypeHint) types.SqlParameter {
	p := Param(name, value)
	if hint != "" {
		p.TypeHint = hint
	}
	return p
}

// FieldOf wraps a Go value in the matching wire field
func FieldOf(value any) types.Field {
	switch v := value.(type) {
	case nil:
		return &types.FieldMemberIsNull{Value: true}
	case string:
		return &types.FieldMemberStringValue{Value: v}
	case int:
		return &types.FieldMemberLongValue{Value: int64(v)}
	case int32:
		return &types.FieldMemberLongValue{Value: int64(v)}
	case int64:
		return &types.FieldMemberLongValue{Value: v}
	case float32:
		return &types.FieldMemberDoubleValue{Value: float64(v)}
	case float64:
		return &types.FieldMemberDoubleValue{Value: v}
	case bool:
		return &types.FieldMemberBooleanValue{Value: v}
	case []byte:
		return &types.FieldMemberBlobValue{Value: v}
	case time.Time:
		return &types.FieldMemberStringValue{Value: v.UTC().Format(TimestampLayout)}
	case []string:
		return &types.FieldMemberArrayValue{Value: &types.ArrayValueMemberStringValues{Value: v}}
	case []int64:
		return &types.FieldMemberArrayValue{Value: &types.ArrayValueMemberLongValues{Value: v}}
	case fmt.Stringer:
		return &types.FieldMemberStringValue{Value: v.String()}
	default:
		return &types.FieldMemberStringValue{Value: fmt.Sprint(v)}
	}
}

// paramValue converts a wire field back into a database/sql argument
func paramValue(field types.Field) (any, error) {
	switch f := field.(type) {
	case nil, *types.FieldMemberIsNull:
		return nil, nil
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
	default:
		return nil, fmt.Errorf("unsupported parameter field %T", field)
	}
}
