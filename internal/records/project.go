package records

import "fmt"

// Document is a projected record keyed by column name
type Document map[string]any

// NestField moves the flat column From to key To inside a nested document
type NestField struct {
	From string
	To   string
}

// Nest rolls a group of flat columns into the sub-document Key
type Nest struct {
	Key    string
	Fields []NestField
}

// ColumnSpec names the columns of a resource in the order the engine returns them
type ColumnSpec struct {
	Resource string
	Columns  []string
	Nests    []Nest
}

// Project attaches column names to a positional row and applies the nesting table.
// The row must have exactly one value per column.
func Project(spec ColumnSpec, row []any) (Document, error) {
	if len(row) != len(spec.Columns) {
		return nil, fmt.Errorf("%w: %s has %d columns, row has %d values",
			ErrColumnCountMismatch, spec.Resource, len(spec.Columns), len(row))
	}

	doc := make(Document, len(spec.Columns))
	for i, column := range spec.Columns {
		doc[column] = row[i]
	}

	for _, nest := range spec.Nests {
		sub, ok := doc[nest.Key].(map[string]any)
		if !ok {
			sub = make(map[string]any, len(nest.Fields))
		}
		for _, field := range nest.Fields {
			value, present := doc[field.From]
			if !present {
				continue
			}
			delete(doc, field.From)
			sub[field.To] = value
		}
		doc[nest.Key] = sub
	}

	return doc, nil
}

// ProjectAll projects every row; the result is never nil
func ProjectAll(spec ColumnSpec, rows [][]any) ([]Document, error) {
	docs := make([]Document, 0, len(rows))
	for i, row := range rows {
		doc, err := Project(spec, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// String returns the value of key as a string, or "" when absent or not a string
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Sub returns the nested document stored under key
func (d Document) Sub(key string) Document {
	switch sub := d[key].(type) {
	case map[string]any:
		return Document(sub)
	case Document:
		return sub
	default:
		return Document{}
	}
}
