package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rdsdata/types"
)

// PlaceholderStyle selects how named parameters are rendered for a database/sql driver
type PlaceholderStyle int

const (
	// QuestionPlaceholders renders ? for every occurrence (sqlite, mysql)
	QuestionPlaceholders PlaceholderStyle = iota
	// DollarPlaceholders renders $1..$n, reusing the index for repeated names (postgres)
	DollarPlaceholders
)

// bindNamed rewrites :name references into driver placeholders and returns
// the positional arguments. Quoted literals and :: casts are left alone.
func bindNamed(query string, params []types.SqlParameter, style PlaceholderStyle) (string, []any, error) {
	values := make(map[string]any, len(params))
	for _, p := range params {
		v, err := paramValue(p.Value)
		if err != nil {
			return "", nil, fmt.Errorf("parameter %s: %w", aws.ToString(p.Name), err)
		}
		values[aws.ToString(p.Name)] = v
	}

	var (
		b       strings.Builder
		args    []any
		indexes = make(map[string]int)
		quote   byte
	)
	b.Grow(len(query))

	for i := 0; i < len(query); i++ {
		c := query[i]

		if quote != 0 {
			b.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"':
			quote = c
			b.WriteByte(c)
		case c == ':' && i+1 < len(query) && query[i+1] == ':':
			b.WriteString("::")
			i++
		case c == ':' && i+1 < len(query) && isNameStart(query[i+1]):
			j := i + 1
			for j < len(query) && isNamePart(query[j]) {
				j++
			}
			name := query[i+1 : j]
			value, ok := values[name]
			if !ok {
				return "", nil, fmt.Errorf("%w: %s", ErrMissingParameter, name)
			}

			switch style {
			case DollarPlaceholders:
				idx, seen := indexes[name]
				if !seen {
					args = append(args, value)
					idx = len(args)
					indexes[name] = idx
				}
				b.WriteString("$" + strconv.Itoa(idx))
			default:
				args = append(args, value)
				b.WriteByte('?')
			}
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), args, nil
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNamePart(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
