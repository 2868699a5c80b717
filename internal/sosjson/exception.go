package sosjson

import (
	"time"

	"github.com/52North/SOS-sub013/internal/ows"
)

// EncodeExceptionReport encodes an OWS exception report. Locator is
// omitted when empty; text is collapsed like any repeatable value.
func (e *Encoder) EncodeExceptionReport(r *ows.ExceptionReport) (obj *Object, err error) {
	start := time.Now()
	defer func() { e.observe("ExceptionReport", start, err) }()

	if r == nil {
		return nil, unsupported("exception report", "nil")
	}

	obj = NewObject()
	obj.PutString(keyVersion, r.Version)
	exceptions := obj.PutArray(keyExceptions)
	for _, ex := range r.Exceptions {
		if ex == nil {
			continue
		}
		encoded := exceptions.AddObject()
		encoded.PutString(keyCode, string(ex.Code))
		encoded.PutStringIfSet(keyLocator, ex.Locator)
		putCollapsedStrings(encoded, keyText, ex.Text)
	}
	return obj, nil
}
