package sosjson

// Service-level constants of the JSON binding.
const (
	// DefaultSRID is the reference system assumed for top-level geometries.
	DefaultSRID = 4326

	// DefaultCRSPrefix is prepended to an SRID to build a CRS link.
	DefaultCRSPrefix = "http://www.opengis.net/def/crs/EPSG/0/"

	// PhenomenonTimeDefinition is the definition of the time field of a
	// time series result.
	PhenomenonTimeDefinition = "http://www.opengis.net/def/property/OGC/0/PhenomenonTime"

	// ISO8601UOM is the unit of ISO-8601 time fields.
	ISO8601UOM = "http://www.opengis.net/def/uom/ISO-8601/0/Gregorian"
)

// Document keys.
const (
	keyRequest   = "request"
	keyVersion   = "version"
	keyService   = "service"
	keyType      = "type"
	keyValue     = "value"
	keyValues    = "values"
	keyFields    = "fields"
	keyName      = "name"
	keyCodespace = "codespace"
	keyHref      = "href"
	keyTitle     = "title"
	keyRole      = "role"

	keyCoordinates = "coordinates"
	keyGeometries  = "geometries"
	keyCRS         = "crs"
	keyProperties  = "properties"
	crsTypeLink    = "link"

	keyDefinition  = "definition"
	keyDescription = "description"
	keyIdentifier  = "identifier"
	keyLabel       = "label"
	keyUOM         = "uom"

	keyProcedure          = "procedure"
	keyOffering           = "offering"
	keyObservableProperty = "observableProperty"
	keyFeatureOfInterest  = "featureOfInterest"
	keyParameter          = "parameter"
	keyPhenomenonTime     = "phenomenonTime"
	keyResultTime         = "resultTime"
	keyValidTime          = "validTime"
	keyResult             = "result"
	keySampledFeature     = "sampledFeature"
	keyGeometry           = "geometry"
	keyObservations       = "observations"

	keyServiceIdentification = "serviceIdentification"
	keyServiceProvider       = "serviceProvider"
	keyUpdateSequence        = "updateSequence"
	keyOperationMetadata     = "operationMetadata"
	keyContents              = "contents"
	keyExtensions            = "extensions"
	keyFilterCapabilities    = "filterCapabilities"

	keyAbstract          = "abstract"
	keyKeywords          = "keywords"
	keyServiceType       = "serviceType"
	keyVersions          = "versions"
	keyProfiles          = "profiles"
	keyFees              = "fees"
	keyAccessConstraints = "accessConstraints"

	keySite                = "site"
	keyContact             = "contact"
	keyIndividualName      = "individualName"
	keyPositionName        = "positionName"
	keyPhone               = "phone"
	keyVoice               = "voice"
	keyFax                 = "fax"
	keyAddress             = "address"
	keyDeliveryPoint       = "deliveryPoint"
	keyCity                = "city"
	keyAdministrativeArea  = "administrativeArea"
	keyPostalCode          = "postalCode"
	keyCountry             = "country"
	keyEmail               = "electronicMailAddress"
	keyOnlineResource      = "onlineResource"
	keyHoursOfService      = "hoursOfService"
	keyContactInstructions = "contactInstructions"

	keyOperations      = "operations"
	keyDCP             = "dcp"
	keyParameters      = "parameters"
	keyConstraints     = "constraints"
	keyAllowedValues   = "allowedValues"
	keyAnyValue        = "anyValue"
	keyNoValues        = "noValues"
	keyValuesReference = "valuesReference"
	keyDefaultValue    = "defaultValue"
	keyMin             = "min"
	keyMax             = "max"
	keySpacing         = "spacing"

	keyRelatedFeatures            = "relatedFeatures"
	keyObservedArea               = "observedArea"
	keyLowerLeft                  = "lowerLeft"
	keyUpperRight                 = "upperRight"
	keyResponseFormat             = "responseFormat"
	keyObservationType            = "observationType"
	keyFeatureOfInterestType      = "featureOfInterestType"
	keyProcedureDescriptionFormat = "procedureDescriptionFormat"

	keyConformance = "conformance"
	keySpatial     = "spatial"
	keyTemporal    = "temporal"
	keyScalar      = "scalar"
	keyOperands    = "operands"
	keyOperators   = "operators"

	keyProcedureDescription = "procedureDescription"
	keyResultStructure      = "resultStructure"
	keyResultEncoding       = "resultEncoding"
	keyTokenSeparator       = "tokenSeparator"
	keyBlockSeparator       = "blockSeparator"
	keyDecimalSeparator     = "decimalSeparator"
	keyResultValues         = "resultValues"

	keyExceptions = "exceptions"
	keyCode       = "code"
	keyLocator    = "locator"
	keyText       = "text"
)
