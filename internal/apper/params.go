package apper

import "encoding/json"

// Filter operators with server-side support.
const (
	OpEqualTo  = "EqualTo"
	OpContains = "Contains"
)

// Sort directions.
const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// Field selects one column, optionally resolving a lookup reference to
// one of its fields.
type Field struct {
	Field          FieldName       `json:"field"`
	ReferenceField *ReferenceField `json:"referenceField,omitempty"`
}

// FieldName names a column.
type FieldName struct {
	Name string `json:"Name"`
}

// ReferenceField selects a field on the referenced record.
type ReferenceField struct {
	Field FieldName `json:"field"`
}

// Select builds a plain field selection list.
func Select(names ...string) []Field {
	fields := make([]Field, len(names))
	for i, n := range names {
		fields[i] = Field{Field: FieldName{Name: n}}
	}
	return fields
}

// SelectRef builds a selection of a lookup field resolved to refField
// on the referenced record.
func SelectRef(name, refField string) Field {
	return Field{
		Field:          FieldName{Name: name},
		ReferenceField: &ReferenceField{Field: FieldName{Name: refField}},
	}
}

// Where is one server-side filter clause.
type Where struct {
	FieldName string `json:"FieldName"`
	Operator  string `json:"Operator"`
	Values    []any  `json:"Values"`
}

// OrderBy is one server-side sort directive.
type OrderBy struct {
	FieldName string `json:"fieldName"`
	SortType  string `json:"sorttype"`
}

// Paging limits and offsets a fetch.
type Paging struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// FetchParams shapes a fetch or get request.
type FetchParams struct {
	Fields  []Field   `json:"fields,omitempty"`
	Where   []Where   `json:"where,omitempty"`
	OrderBy []OrderBy `json:"orderBy,omitempty"`
	Paging  *Paging   `json:"pagingInfo,omitempty"`
}

// FetchResult is the platform's response to a multi-record fetch.
type FetchResult struct {
	Success bool              `json:"success"`
	Data    []json.RawMessage `json:"data"`
	Message string            `json:"message,omitempty"`
}

// RecordResult is the platform's response to a single-record get.
type RecordResult struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

// WriteResult is the platform's response to a create or update. Each
// submitted record gets its own per-record outcome.
type WriteResult struct {
	Success bool       `json:"success"`
	Results []OpResult `json:"results"`
	Message string     `json:"message,omitempty"`
}

// OpResult is the outcome for one record in a write.
type OpResult struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}
