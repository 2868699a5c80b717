package sosjson

import (
	"fmt"
	"time"

	"github.com/52North/SOS-sub013/internal/sensorml"
	"github.com/52North/SOS-sub013/internal/sos"
	"github.com/52North/SOS-sub013/internal/swe"
)

// EncodeResponse encodes an operation response. Every document starts with
// the request name, the service version and the service type.
func (e *Encoder) EncodeResponse(resp sos.Response) (obj *Object, err error) {
	document := "response"
	if resp != nil {
		document = resp.OperationName()
	}
	start := time.Now()
	defer func() { e.observe(document, start, err) }()

	return e.encodeResponse(resp)
}

func (e *Encoder) encodeResponse(resp sos.Response) (*Object, error) {
	if resp == nil {
		return nil, unsupported("response", "nil")
	}

	obj := NewObject()
	obj.PutString(keyRequest, resp.OperationName())
	obj.PutString(keyVersion, resp.ServiceVersion())
	obj.PutString(keyService, sos.ServiceType)

	var err error
	switch r := resp.(type) {
	case *sos.GetCapabilitiesResponse:
		if r.Capabilities != nil {
			err = e.encodeCapabilities(obj, r.Capabilities)
		}
	case *sos.DescribeSensorResponse:
		err = e.encodeDescribeSensor(obj, r)
	case *sos.GetObservationResponse:
		err = e.encodeObservations(obj, r)
	case *sos.GetFeatureOfInterestResponse:
		err = e.encodeFeatures(obj, r)
	case *sos.GetResultTemplateResponse:
		err = e.encodeResultTemplate(obj, r)
	case *sos.GetResultResponse:
		obj.PutString(keyResultValues, r.ResultValues)
	default:
		return nil, unsupportedType("response", resp)
	}
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (e *Encoder) encodeDescribeSensor(obj *Object, r *sos.DescribeSensorResponse) error {
	obj.PutString(keyProcedureDescriptionFormat, r.ProcedureDescriptionFormat)

	descriptions := make([]Node, 0, len(r.Descriptions))
	for _, d := range r.Descriptions {
		encoded, err := e.encodeProcedureDescription(d)
		if err != nil {
			return err
		}
		descriptions = append(descriptions, encoded)
	}
	putCollapsed(obj, keyProcedureDescription, descriptions)
	return nil
}

func (e *Encoder) encodeProcedureDescription(d *sensorml.Description) (*Object, error) {
	if d == nil {
		return nil, unsupported("procedure description", "nil")
	}
	doc, err := sensorml.Marshal(d, e.CRSPrefix())
	if err != nil {
		return nil, fmt.Errorf("procedure %s: %w", d.Identifier, err)
	}

	obj := NewObject()
	if d.ValidTime != nil && d.ValidTime.IsSet() {
		obj.Put(keyValidTime, encodePeriod(*d.ValidTime))
	}
	obj.PutString(keyDescription, string(doc))
	return obj, nil
}

func (e *Encoder) encodeObservations(obj *Object, r *sos.GetObservationResponse) error {
	observations := obj.PutArray(keyObservations)
	for _, o := range r.Observations {
		if o == nil {
			continue
		}
		encoded, err := e.encodeObservation(o)
		if err != nil {
			return err
		}
		observations.Add(encoded)
	}
	return nil
}

func (e *Encoder) encodeFeatures(obj *Object, r *sos.GetFeatureOfInterestResponse) error {
	features := obj.PutArray(keyFeatureOfInterest)
	for _, f := range r.Features {
		encoded, err := e.EncodeFeature(f)
		if err != nil {
			return err
		}
		features.Add(encoded)
	}
	return nil
}

func (e *Encoder) encodeResultTemplate(obj *Object, r *sos.GetResultTemplateResponse) error {
	structure := obj.PutObject(keyResultStructure)
	var fields []swe.Field
	if r.ResultStructure != nil {
		fields = r.ResultStructure.Fields
	}
	encoded, err := e.EncodeFields(fields)
	if err != nil {
		return err
	}
	structure.Put(keyFields, encoded)

	obj.Put(keyResultEncoding, encodeTextEncoding(r.ResultEncoding))
	return nil
}

func encodeTextEncoding(enc swe.TextEncoding) *Object {
	obj := NewObject()
	obj.PutString(keyTokenSeparator, enc.TokenSeparator)
	obj.PutString(keyBlockSeparator, enc.BlockSeparator)
	obj.PutString(keyDecimalSeparator, enc.DecimalSeparator)
	return obj
}
