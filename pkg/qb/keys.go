package qb

// Wire keys of the structured query schema.
const (
	KeyQuery           = "query"
	KeyQueries         = "queries"
	KeyAndQuery        = "and-query"
	KeyOrQuery         = "or-query"
	KeyNotQuery        = "not-query"
	KeyBoostQuery      = "boost-query"
	KeyMatchingQuery   = "matching-query"
	KeyBoostingQuery   = "boosting-query"
	KeyTermQuery       = "term-query"
	KeyDocumentQuery   = "document-query"
	KeyCollectionQuery = "collection-query"
	KeyDirectoryQuery  = "directory-query"

	KeyDocumentFragmentQuery   = "document-fragment-query"
	KeyPropertiesFragmentQuery = "properties-fragment-query"
	KeyLocksFragmentQuery      = "locks-fragment-query"

	KeyRangeConstraintQuery      = "range-constraint-query"
	KeyValueConstraintQuery      = "value-constraint-query"
	KeyWordConstraintQuery       = "word-constraint-query"
	KeyCollectionConstraintQuery = "collection-constraint-query"
	KeyCustomConstraintQuery     = "custom-constraint-query"
	KeyGeospatialConstraintQuery = "geospatial-constraint-query"

	KeyOperatorState = "operator-state"
	KeyOperatorName  = "operator-name"
	KeyStateName     = "state-name"

	KeyConstraintName = "constraint-name"
	KeyRangeOperator  = "range-operator"
	KeyRangeOption    = "range-option"

	KeyText     = "text"
	KeyURI      = "uri"
	KeyValue    = "value"
	KeyInfinite = "infinite"
	KeyQText    = "qtext"
	KeyOptions  = "options"
)
