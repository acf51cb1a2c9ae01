package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is a recorded disbursement/settlement against an enquiry, distinct
// from investment inflow. Append-only like Investment.
type Payment struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	EnquiryID uuid.UUID `gorm:"column:enquiry_id;type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"enquiry_id"`
	Amount    float64   `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`

	Enquiry *Enquiry `gorm:"foreignKey:EnquiryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Payment) TableName() string {
	return "Payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}
