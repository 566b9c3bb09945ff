package mapping

import (
	"github.com/hostbooks/host_books_app/internal/core/domain"
	"github.com/hostbooks/host_books_app/internal/models"
)

// ToModelProperty converts a domain Property to a model Property
func ToModelProperty(d domain.Property) models.Property {
	return models.Property{
		PropertyID:  d.PropertyID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Aliases:     d.Aliases,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProperty converts a model Property to a domain Property
func ToDomainProperty(m models.Property) domain.Property {
	return domain.Property{
		PropertyID:  m.PropertyID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Aliases:     m.Aliases,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEntityMapping converts a domain EntityMapping to a model EntityMapping
func ToModelEntityMapping(d domain.EntityMapping) models.EntityMapping {
	return models.EntityMapping{
		MappingID:       d.MappingID,
		OwnerID:         d.OwnerID,
		NormalizedLabel: d.NormalizedLabel,
		PropertyID:      d.PropertyID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntityMapping converts a model EntityMapping to a domain EntityMapping
func ToDomainEntityMapping(m models.EntityMapping) domain.EntityMapping {
	return domain.EntityMapping{
		MappingID:       m.MappingID,
		OwnerID:         m.OwnerID,
		NormalizedLabel: m.NormalizedLabel,
		PropertyID:      m.PropertyID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
