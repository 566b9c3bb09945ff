package domain

// Property represents an internal cost/revenue center: a managed rental
// property to which distributed amounts are attributed.
type Property struct {
	PropertyID string   `json:"propertyID"` // Primary Key (e.g., UUID)
	OwnerID    string   `json:"ownerID"`    // Owning portfolio (Not Null)
	Name       string   `json:"name"`       // Canonical display name (Not Null)
	Aliases    []string `json:"aliases"`    // Alternative labels the property is known by
	IsActive   bool     `json:"isActive"`
	AuditFields
}
