package ows

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestMultilingualString(t *testing.T) {
	t.Parallel()

	m := NewMultilingualString(language.English, "Temperature")
	m.Set(language.German, "Temperatur")
	m.Set(language.English, "Air temperature")

	assert.False(t, m.IsEmpty())
	assert.Equal(t, []language.Tag{language.English, language.German}, m.Languages())

	got, ok := m.Get()
	require.True(t, ok)
	assert.Equal(t, "Air temperature", got.Value)

	got, ok = m.Get(language.MustParse("de-AT"))
	require.True(t, ok)
	assert.Equal(t, "Temperatur", got.Value)

	got, ok = m.Get(language.Japanese)
	require.True(t, ok)
	assert.Equal(t, "Air temperature", got.Value)

	only := m.Only(language.German)
	assert.Len(t, only.Entries(), 1)
	assert.Equal(t, "Temperatur", only.Entries()[0].Value)
	assert.Len(t, m.Only().Entries(), 2)

	var empty MultilingualString
	_, ok = empty.Get(language.English)
	assert.False(t, ok)
	assert.True(t, empty.IsEmpty())
}

func TestCapabilities_Restrict(t *testing.T) {
	t.Parallel()

	full := func() *Capabilities {
		return &Capabilities{
			ServiceIdentification: &ServiceIdentification{},
			ServiceProvider:       &ServiceProvider{},
			OperationsMetadata:    &OperationsMetadata{},
			Contents:              []Offering{{Identifier: "o"}},
			Extensions:            []Extension{{Identifier: "e"}},
			FilterCapabilities:    &FilterCapabilities{},
		}
	}

	c := full()
	c.Restrict(nil)
	assert.True(t, c.HasServiceIdentification())
	assert.True(t, c.HasFilterCapabilities())

	c = full()
	c.Restrict([]string{SectionAll})
	assert.True(t, c.HasContents())

	c = full()
	c.Restrict([]string{SectionContents, SectionServiceProvider})
	assert.False(t, c.HasServiceIdentification())
	assert.True(t, c.HasServiceProvider())
	assert.False(t, c.HasOperationsMetadata())
	assert.True(t, c.HasContents())
	assert.False(t, c.HasExtensions())
	assert.False(t, c.HasFilterCapabilities())
}

func TestOperationsMetadata_Operation(t *testing.T) {
	t.Parallel()

	m := &OperationsMetadata{Operations: []Operation{{Name: "GetCapabilities"}, {Name: "GetObservation"}}}

	op, ok := m.Operation("GetObservation")
	require.True(t, ok)
	assert.Equal(t, "GetObservation", op.Name)

	_, ok = m.Operation("Transaction")
	assert.False(t, ok)
}

func TestException(t *testing.T) {
	t.Parallel()

	err := MissingParameter("procedure")
	assert.Equal(t, "MissingParameterValue (procedure): the value for the parameter 'procedure' is missing", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.Code.HTTPStatus())

	wrapped := fmt.Errorf("describe sensor: %w", err)
	assert.True(t, errors.Is(wrapped, &Exception{Code: CodeMissingParameterValue}))
	assert.False(t, errors.Is(wrapped, &Exception{Code: CodeInvalidParameterValue}))

	var exc *Exception
	require.ErrorAs(t, wrapped, &exc)
	assert.Equal(t, "procedure", exc.Locator)

	cause := errors.New("disk full")
	withCause := &Exception{Code: CodeNoApplicableCode, Text: []string{"failed"}, Cause: cause}
	assert.True(t, errors.Is(withCause, cause))
	assert.Equal(t, "NoApplicableCode: failed", withCause.Error())
}

func TestExceptionCode_HTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code ExceptionCode
		want int
	}{
		{CodeOperationNotSupported, http.StatusNotImplemented},
		{CodeNoApplicableCode, http.StatusInternalServerError},
		{CodeInvalidParameterValue, http.StatusBadRequest},
		{CodeVersionNegotiation, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestReportFromError(t *testing.T) {
	t.Parallel()

	report := ReportFromError("2.0.0", InvalidParameter("offering", "x"))
	require.Len(t, report.Exceptions, 1)
	assert.Equal(t, CodeInvalidParameterValue, report.Exceptions[0].Code)
	assert.Equal(t, http.StatusBadRequest, report.HTTPStatus())

	report = ReportFromError("2.0.0", errors.New("boom"))
	assert.Equal(t, CodeNoApplicableCode, report.Exceptions[0].Code)
	assert.Equal(t, []string{"boom"}, report.Exceptions[0].Text)
	assert.Equal(t, http.StatusInternalServerError, report.HTTPStatus())

	assert.Equal(t, http.StatusInternalServerError, (&ExceptionReport{}).HTTPStatus())
}
