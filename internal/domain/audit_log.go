package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PerformedBySystem is the identity stamped on audit entries when the caller
// does not supply one.
const PerformedBySystem = "system"

// AuditLogEntry records one administrative action against an enquiry. Entries
// are created in the same transaction as the enquiry update they describe and
// are never mutated afterwards.
type AuditLogEntry struct {
	EntryID     uuid.UUID `gorm:"column:entry_id;type:uuid;primaryKey" json:"entry_id"`
	EnquiryID   uuid.UUID `gorm:"column:enquiry_id;type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"enquiry_id"`
	Action      string    `gorm:"column:action;not null" json:"action"`
	PerformedBy string    `gorm:"column:performed_by;not null" json:"performedBy"`
	CreatedAt   time.Time `gorm:"column:createdAt" json:"timestamp"`

	Enquiry *Enquiry `gorm:"foreignKey:EnquiryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AuditLogEntry) TableName() string {
	return "AuditLogEntries"
}

func (a *AuditLogEntry) BeforeCreate(tx *gorm.DB) error {
	if a.EntryID == uuid.Nil {
		a.EntryID = uuid.New()
	}
	if a.PerformedBy == "" {
		a.PerformedBy = PerformedBySystem
	}
	return nil
}
