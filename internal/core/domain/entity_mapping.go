package domain

// EntityMapping is a learned association between an external free-text label
// (case/diacritic-normalized) and an internal property. At most one mapping
// exists per (owner, normalized label). Mappings are created on a confident
// fuzzy match or explicit user confirmation and are never auto-deleted.
type EntityMapping struct {
	MappingID       string `json:"mappingID"` // Primary Key (e.g., UUID)
	OwnerID         string `json:"ownerID"`
	NormalizedLabel string `json:"normalizedLabel"`
	PropertyID      string `json:"propertyID"`
	AuditFields
}

// EntityResolution is the outcome of resolving an external label.
type EntityResolution struct {
	Matched           bool    `json:"matched"`
	PropertyID        string  `json:"propertyID,omitempty"`
	Confidence        float64 `json:"confidence"`        // 1.0 for exact/learned matches
	AutoLearned       bool    `json:"autoLearned"`       // Mapping persisted during this resolution
	NeedsConfirmation bool    `json:"needsConfirmation"` // Fuzzy match below the learn threshold
}
