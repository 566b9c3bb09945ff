package mapping

import (
	"github.com/hostbooks/host_books_app/internal/core/domain"
	"github.com/hostbooks/host_books_app/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:       d.EntryID,
		OwnerID:       d.OwnerID,
		PropertyID:    d.PropertyID,
		Kind:          models.EntryKind(d.Kind),
		Amount:        d.Amount,
		CurrencyCode:  d.CurrencyCode,
		EffectiveDate: d.EffectiveDate,
		Description:   d.Description,
		Notes:         d.Notes,
		SourceTag:     d.SourceTag,
		ParentEntryID: d.ParentEntryID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       m.EntryID,
		OwnerID:       m.OwnerID,
		PropertyID:    m.PropertyID,
		Kind:          domain.EntryKind(m.Kind),
		Amount:        m.Amount,
		CurrencyCode:  m.CurrencyCode,
		EffectiveDate: m.EffectiveDate,
		Description:   m.Description,
		Notes:         m.Notes,
		SourceTag:     m.SourceTag,
		ParentEntryID: m.ParentEntryID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
