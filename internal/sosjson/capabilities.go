package sosjson

import (
	"github.com/52North/SOS-sub013/internal/ows"
)

// encodeCapabilities writes the capabilities sections in their fixed order,
// omitting the ones that are not set.
func (e *Encoder) encodeCapabilities(obj *Object, c *ows.Capabilities) error {
	if c.HasServiceIdentification() {
		obj.Put(keyServiceIdentification, encodeServiceIdentification(c.ServiceIdentification))
	}
	if c.HasServiceProvider() {
		obj.Put(keyServiceProvider, encodeServiceProvider(c.ServiceProvider))
	}
	if c.HasUpdateSequence() {
		obj.PutString(keyUpdateSequence, c.UpdateSequence)
	}
	if c.HasOperationsMetadata() {
		obj.Put(keyOperationMetadata, encodeOperationsMetadata(c.OperationsMetadata))
	}
	if c.HasContents() {
		contents := obj.PutArray(keyContents)
		for i := range c.Contents {
			contents.Add(e.encodeOffering(&c.Contents[i]))
		}
	}
	if c.HasExtensions() {
		extensions := obj.PutArray(keyExtensions)
		for _, ext := range c.Extensions {
			encoded, err := e.encodeExtension(ext)
			if err != nil {
				return err
			}
			extensions.Add(encoded)
		}
	}
	if c.HasFilterCapabilities() {
		obj.Put(keyFilterCapabilities, encodeFilterCapabilities(c.FilterCapabilities))
	}
	return nil
}

func encodeMultilingual(m ows.MultilingualString) *Object {
	obj := NewObject()
	for _, entry := range m.Entries() {
		obj.PutString(entry.Lang.String(), entry.Value)
	}
	return obj
}

func encodeServiceIdentification(si *ows.ServiceIdentification) *Object {
	obj := NewObject()
	if !si.Title.IsEmpty() {
		obj.Put(keyTitle, encodeMultilingual(si.Title))
	}
	if !si.Abstract.IsEmpty() {
		obj.Put(keyAbstract, encodeMultilingual(si.Abstract))
	}
	putStrings(obj, keyKeywords, si.Keywords)
	if si.ServiceType.Value != "" {
		obj.Put(keyServiceType, encodeCodeType(si.ServiceType))
	}
	putStrings(obj, keyVersions, si.ServiceTypeVersions)
	putStrings(obj, keyProfiles, si.Profiles)
	obj.PutStringIfSet(keyFees, si.Fees)
	putStrings(obj, keyAccessConstraints, si.AccessConstraints)
	return obj
}

func encodeServiceProvider(sp *ows.ServiceProvider) *Object {
	obj := NewObject()
	obj.PutStringIfSet(keyName, sp.Name)
	obj.PutStringIfSet(keySite, sp.Site)
	if c := sp.Contact; c != nil {
		contact := obj.PutObject(keyContact)
		contact.PutStringIfSet(keyIndividualName, c.IndividualName)
		contact.PutStringIfSet(keyPositionName, c.PositionName)
		if c.Phone != nil {
			phone := contact.PutObject(keyPhone)
			putStrings(phone, keyVoice, c.Phone.Voice)
			putStrings(phone, keyFax, c.Phone.Facsimile)
		}
		if a := c.Address; a != nil {
			address := contact.PutObject(keyAddress)
			putStrings(address, keyDeliveryPoint, a.DeliveryPoints)
			address.PutStringIfSet(keyCity, a.City)
			address.PutStringIfSet(keyAdministrativeArea, a.AdministrativeArea)
			address.PutStringIfSet(keyPostalCode, a.PostalCode)
			address.PutStringIfSet(keyCountry, a.Country)
			putStrings(address, keyEmail, a.ElectronicMailAddress)
		}
		contact.PutStringIfSet(keyOnlineResource, c.OnlineResource)
		contact.PutStringIfSet(keyHoursOfService, c.HoursOfService)
		contact.PutStringIfSet(keyContactInstructions, c.ContactInstructions)
		contact.PutStringIfSet(keyRole, c.Role)
	}
	return obj
}

func encodeOperationsMetadata(m *ows.OperationsMetadata) *Object {
	obj := NewObject()
	operations := obj.PutObject(keyOperations)
	for _, op := range m.Operations {
		encoded := operations.PutObject(op.Name)
		if len(op.DCPs) > 0 {
			encoded.Put(keyDCP, encodeDCPs(op.DCPs))
		}
		putDomains(encoded, keyParameters, op.Parameters)
		putDomains(encoded, keyConstraints, op.Constraints)
	}
	putDomains(obj, keyParameters, m.Parameters)
	putDomains(obj, keyConstraints, m.Constraints)
	return obj
}

// encodeDCPs groups the endpoints by lower case HTTP method.
func encodeDCPs(dcps []ows.DCP) *Object {
	obj := NewObject()
	for _, dcp := range dcps {
		key := "get"
		if dcp.Method == ows.MethodPost {
			key = "post"
		}
		var endpoints *Array
		if existing, ok := obj.Get(key); ok {
			endpoints = existing.(*Array)
		} else {
			endpoints = obj.PutArray(key)
		}
		endpoint := endpoints.AddObject()
		endpoint.PutString(keyHref, dcp.Href)
		putDomains(endpoint, keyConstraints, dcp.Constraints)
	}
	return obj
}

func putDomains(obj *Object, key string, domains []ows.Domain) {
	if len(domains) == 0 {
		return
	}
	encoded := obj.PutObject(key)
	for _, d := range domains {
		encoded.Put(d.Name, encodeDomain(d))
	}
}

func encodeDomain(d ows.Domain) *Object {
	obj := NewObject()
	switch pv := d.PossibleValues.(type) {
	case ows.AllowedValues:
		allowed := obj.PutArray(keyAllowedValues)
		for _, v := range pv.Values {
			allowed.Add(String(v))
		}
		for _, r := range pv.Ranges {
			rng := allowed.AddObject()
			rng.PutStringIfSet(keyMin, r.Min)
			rng.PutStringIfSet(keyMax, r.Max)
			rng.PutStringIfSet(keySpacing, r.Spacing)
		}
	case ows.ValuesReference:
		ref := obj.PutObject(keyValuesReference)
		ref.PutString(keyHref, pv.Reference)
		ref.PutStringIfSet(keyValue, pv.Value)
	case ows.NoValues:
		obj.Put(keyNoValues, Bool(true))
	default:
		obj.Put(keyAnyValue, Bool(true))
	}
	obj.PutStringIfSet(keyDefaultValue, d.DefaultValue)
	return obj
}

func (e *Encoder) encodeOffering(o *ows.Offering) *Object {
	obj := NewObject()
	obj.PutString(keyIdentifier, o.Identifier)
	putCollapsed(obj, keyName, encodeCodeTypes(o.Names))
	putCollapsedStrings(obj, keyProcedure, o.Procedures)
	putStrings(obj, keyObservableProperty, o.ObservableProperties)
	if len(o.RelatedFeatures) > 0 {
		related := obj.PutObject(keyRelatedFeatures)
		for _, rf := range o.RelatedFeatures {
			related.Put(rf.Feature, Strings(rf.Roles))
		}
	}
	if !o.ObservedArea.IsEmpty() {
		area := obj.PutObject(keyObservedArea)
		area.Put(keyLowerLeft, NewArray(Double(o.ObservedArea.LowerLeft[0]), Double(o.ObservedArea.LowerLeft[1])))
		area.Put(keyUpperRight, NewArray(Double(o.ObservedArea.UpperRight[0]), Double(o.ObservedArea.UpperRight[1])))
		srid := o.ObservedArea.SRID
		if srid == 0 {
			srid = e.DefaultSRID()
		}
		area.Put(keyCRS, e.crsLink(srid))
	}
	if o.PhenomenonTime != nil && o.PhenomenonTime.IsSet() {
		obj.Put(keyPhenomenonTime, encodePeriod(*o.PhenomenonTime))
	}
	if o.ResultTime != nil && o.ResultTime.IsSet() {
		obj.Put(keyResultTime, encodePeriod(*o.ResultTime))
	}
	putStrings(obj, keyResponseFormat, o.ResponseFormats)
	putStrings(obj, keyObservationType, o.ObservationTypes)
	putStrings(obj, keyFeatureOfInterestType, o.FeatureOfInterestTypes)
	putStrings(obj, keyProcedureDescriptionFormat, o.ProcedureDescriptionFormats)
	return obj
}

func (e *Encoder) encodeExtension(ext ows.Extension) (*Object, error) {
	obj := NewObject()
	obj.PutStringIfSet(keyIdentifier, ext.Identifier)
	obj.PutStringIfSet(keyDefinition, ext.Definition)
	if ext.Value != nil {
		value, err := e.EncodeField(*ext.Value)
		if err != nil {
			return nil, err
		}
		obj.Put(keyValue, value)
	}
	return obj, nil
}

func encodeFilterCapabilities(fc *ows.FilterCapabilities) *Object {
	obj := NewObject()
	putDomains(obj, keyConformance, fc.Conformance)
	if len(fc.SpatialOperands) > 0 || len(fc.SpatialOperators) > 0 {
		obj.Put(keySpatial, encodeOperatorGroup(fc.SpatialOperands, fc.SpatialOperators))
	}
	if len(fc.TemporalOperands) > 0 || len(fc.TemporalOperators) > 0 {
		obj.Put(keyTemporal, encodeOperatorGroup(fc.TemporalOperands, fc.TemporalOperators))
	}
	putStrings(obj, keyScalar, fc.ComparisonOperators)
	return obj
}

func encodeOperatorGroup(operands []string, operators []ows.Operator) *Object {
	obj := NewObject()
	putCollapsedStrings(obj, keyOperands, operands)
	if len(operators) > 0 {
		ops := obj.PutObject(keyOperators)
		for _, op := range operators {
			if n := Collapse(stringNodes(op.Operands)); n != nil {
				ops.Put(op.Name, n)
			} else {
				ops.Put(op.Name, NewArray())
			}
		}
	}
	return obj
}
