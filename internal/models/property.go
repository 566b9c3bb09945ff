package models

// Property is the database representation of a managed property. Aliases are
// stored in a separate table and loaded alongside.
type Property struct {
	PropertyID string
	OwnerID    string
	Name       string
	Aliases    []string
	IsActive   bool
	AuditFields
}

// EntityMapping is the database representation of a learned label mapping.
// (owner_id, normalized_label) is unique.
type EntityMapping struct {
	MappingID       string
	OwnerID         string
	NormalizedLabel string
	PropertyID      string
	AuditFields
}
