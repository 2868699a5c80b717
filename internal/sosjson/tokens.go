package sosjson

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/swe"
)

const rangeSeparator = "/"

var errRangeToken = errors.New("range must be written as start/end")

// tokenConverter turns one text token into a typed node.
type tokenConverter func(token string) (Node, error)

// converterFor returns the converter of a field type. It is resolved once
// per field and then applied to every row.
func converterFor(c swe.DataComponent, enc swe.TextEncoding) (tokenConverter, error) {
	switch c.(type) {
	case *swe.Boolean:
		return convertBoolean, nil
	case *swe.Count:
		return convertCount, nil
	case *swe.CountRange:
		return rangeConverter(convertCount), nil
	case *swe.Quantity:
		return quantityConverter(enc.DecimalSeparator), nil
	case *swe.QuantityRange:
		return rangeConverter(quantityConverter(enc.DecimalSeparator)), nil
	case *swe.Time:
		return convertTime, nil
	case *swe.TimeRange:
		return rangeConverter(convertTime), nil
	case *swe.Text, *swe.Category, *swe.ObservableProperty:
		return convertText, nil
	case nil:
		return nil, unsupported("field", "nil")
	default:
		return nil, unsupported("field", c.Type())
	}
}

// convertBlocks converts the rows of a data array. An empty token is
// written as null.
func convertBlocks(fields []swe.Field, enc swe.TextEncoding, rows [][]string) (*Array, error) {
	converters := make([]tokenConverter, len(fields))
	for i, f := range fields {
		conv, err := converterFor(f.Element, enc)
		if err != nil {
			return nil, err
		}
		converters[i] = conv
	}

	out := NewArray()
	for r, row := range rows {
		if len(row) != len(fields) {
			return nil, fmt.Errorf("%w: row %d has %d tokens, want %d", swe.ErrInvalidBlock, r, len(row), len(fields))
		}
		converted := NewArray()
		for c, token := range row {
			if token == "" {
				converted.Add(Null)
				continue
			}
			n, err := converters[c](token)
			if err != nil {
				return nil, &TokenError{Row: r, Column: c, Field: fields[c].Name, Token: token, Err: err}
			}
			converted.Add(n)
		}
		out.Add(converted)
	}
	return out, nil
}

func convertBoolean(token string) (Node, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	return Bool(b), nil
}

func convertCount(token string) (Node, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(token), 10, 64)
	if err != nil {
		return nil, err
	}
	return Int(i), nil
}

func quantityConverter(decimalSeparator string) tokenConverter {
	return func(token string) (Node, error) {
		token = strings.TrimSpace(token)
		if strings.EqualFold(token, "NaN") {
			return Null, nil
		}
		if decimalSeparator != "" && decimalSeparator != "." {
			token = strings.Replace(token, decimalSeparator, ".", 1)
		}
		d, err := decimal.NewFromString(token)
		if err != nil {
			return nil, err
		}
		return decimalNode(d), nil
	}
}

func convertTime(token string) (Node, error) {
	t, err := gml.ParseInstant(token)
	if err != nil {
		return nil, err
	}
	return String(t.String()), nil
}

func convertText(token string) (Node, error) {
	return String(token), nil
}

// rangeConverter converts "start/end" tokens with conv.
func rangeConverter(conv tokenConverter) tokenConverter {
	return func(token string) (Node, error) {
		start, end, ok := strings.Cut(token, rangeSeparator)
		if !ok {
			return nil, errRangeToken
		}
		a, err := conv(start)
		if err != nil {
			return nil, err
		}
		b, err := conv(end)
		if err != nil {
			return nil, err
		}
		return NewArray(a, b), nil
	}
}
