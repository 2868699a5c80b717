package swe

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBlock is returned when an encoded block does not match the
// structure of its record.
var ErrInvalidBlock = errors.New("invalid data block")

// Field is a named component inside a record.
type Field struct {
	Name    string
	Element DataComponent
}

// DataRecord is a swe:DataRecord.
type DataRecord struct {
	Common
	Fields []Field
}

// FieldByDefinition returns the first field whose element has the given
// definition.
func (r *DataRecord) FieldByDefinition(definition string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Element != nil && f.Element.Metadata().Definition == definition {
			return f, true
		}
	}
	return Field{}, false
}

// FieldIndex returns the index of the field called name or -1.
func (r *DataRecord) FieldIndex(name string) int {
	for i, f := range r.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// TextEncoding is a swe:TextEncoding.
type TextEncoding struct {
	TokenSeparator   string
	BlockSeparator   string
	DecimalSeparator string
}

// DefaultTextEncoding returns the separators used when nothing else is
// configured.
func DefaultTextEncoding() TextEncoding {
	return TextEncoding{
		TokenSeparator:   ",",
		BlockSeparator:   "#",
		DecimalSeparator: ".",
	}
}

// Split decodes a values string into blocks of tokens. Empty trailing
// blocks are dropped.
func (e TextEncoding) Split(values string) [][]string {
	if values == "" {
		return nil
	}
	blocks := strings.Split(values, e.BlockSeparator)
	rows := make([][]string, 0, len(blocks))
	for _, b := range blocks {
		if strings.TrimSpace(b) == "" {
			continue
		}
		rows = append(rows, strings.Split(b, e.TokenSeparator))
	}
	return rows
}

// Join encodes blocks of tokens into a values string.
func (e TextEncoding) Join(rows [][]string) string {
	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(e.BlockSeparator)
		}
		sb.WriteString(strings.Join(row, e.TokenSeparator))
	}
	return sb.String()
}

// DataArray is a swe:DataArray whose values are kept as text tokens.
type DataArray struct {
	Common
	ElementType *DataRecord
	Encoding    TextEncoding
	Values      [][]string
}

// ElementCount returns the number of blocks.
func (a *DataArray) ElementCount() int {
	return len(a.Values)
}

// Validate checks that every block has one token per field.
func (a *DataArray) Validate() error {
	if a.ElementType == nil {
		return fmt.Errorf("%w: missing element type", ErrInvalidBlock)
	}
	want := len(a.ElementType.Fields)
	for i, row := range a.Values {
		if len(row) != want {
			return fmt.Errorf("%w: block %d has %d tokens, want %d", ErrInvalidBlock, i, len(row), want)
		}
	}
	return nil
}
