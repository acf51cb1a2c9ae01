package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Investment is a recorded capital contribution applied toward an enquiry's
// pledge. Rows are append-only: created through the ledger service, never
// updated or deleted except by cascade when the parent enquiry is hard-deleted.
type Investment struct {
	InvestmentID uuid.UUID `gorm:"column:investment_id;type:uuid;primaryKey" json:"investment_id"`
	EnquiryID    uuid.UUID `gorm:"column:enquiry_id;type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"enquiry_id"`
	Amount       float64   `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	CreatedAt    time.Time `gorm:"column:createdAt" json:"createdAt"`

	Enquiry *Enquiry `gorm:"foreignKey:EnquiryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Investment) TableName() string {
	return "Investments"
}

func (i *Investment) BeforeCreate(tx *gorm.DB) error {
	if i.InvestmentID == uuid.Nil {
		i.InvestmentID = uuid.New()
	}
	return nil
}
