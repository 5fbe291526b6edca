package records

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/rdsdata/types"
)

// FormatRecord decodes every field of a row, keeping engine column order
func FormatRecord(row []types.Field) ([]any, error) {
	values := make([]any, len(row))
	for i, field := range row {
		value, err := DecodeField(field)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		values[i] = value
	}
	return values, nil
}

// FormatRecords decodes a whole result set, keeping engine row order
func FormatRecords(rows [][]types.Field) ([][]any, error) {
	out := make([][]any, len(rows))
	for i, row := range rows {
		values, err := FormatRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = values
	}
	return out, nil
}
