package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enquiry statuses. The archival axis (Active + ScheduledDeleteAt) overlays
// these: archiving stamps StatusPendingDelete, restoring stamps StatusRestored.
const (
	StatusActive        = "active"
	StatusReviewed      = "reviewed"
	StatusContacted     = "contacted"
	StatusClosed        = "closed"
	StatusPendingDelete = "pending_delete"
	StatusRestored      = "restored"
)

// ValidStatus reports whether s is one of the known enquiry statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusReviewed, StatusContacted, StatusClosed,
		StatusPendingDelete, StatusRestored:
		return true
	}
	return false
}

// Enquiry is a partnership/investment lead and its lifecycle state.
type Enquiry struct {
	EnquiryID         uuid.UUID                    `gorm:"column:enquiry_id;type:uuid;primaryKey" json:"enquiry_id"`
	FirstName         string                       `gorm:"column:first_name;not null" json:"first_name"`
	LastName          string                       `gorm:"column:last_name;not null" json:"last_name"`
	Email             string                       `gorm:"column:email;not null;index" json:"email"`
	PhoneNumber       *string                      `gorm:"column:phone_number" json:"phone_number"`
	Company           *string                      `gorm:"column:company" json:"company"`
	Category          datatypes.JSONSlice[string]  `gorm:"column:category" json:"category"`
	Message           string                       `gorm:"column:message;type:text;not null" json:"message"`
	Status            string                       `gorm:"column:status;type:varchar(20);default:'active'" json:"status"`
	IsRead            bool                         `gorm:"column:is_read;default:false" json:"isRead"`
	Active            bool                         `gorm:"column:active;default:true" json:"active"`
	PledgeAmount      *float64                     `gorm:"column:pledge_amount;type:decimal(18,2)" json:"pledgeAmount"`
	PaymentStructure  *string                      `gorm:"column:payment_structure" json:"paymentStructure"`
	TargetPaymentDate *time.Time                   `gorm:"column:target_payment_date" json:"targetPaymentDate"`
	AdminNotes        *string                      `gorm:"column:admin_notes;type:text" json:"admin_notes"`
	ScheduledDeleteAt *time.Time                   `gorm:"column:scheduled_delete_at" json:"scheduledDeleteAt"`
	CreatedAt         time.Time                    `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt         time.Time                    `gorm:"column:updatedAt" json:"updatedAt"`

	Investments []Investment    `gorm:"foreignKey:EnquiryID" json:"investments,omitempty"`
	Payments    []Payment       `gorm:"foreignKey:EnquiryID" json:"payments,omitempty"`
	AuditLog    []AuditLogEntry `gorm:"foreignKey:EnquiryID" json:"auditLog,omitempty"`
}

func (Enquiry) TableName() string {
	return "Enquiries"
}

// BeforeCreate sets enquiry_id if not already set (DBs without default uuid).
func (e *Enquiry) BeforeCreate(tx *gorm.DB) error {
	if e.EnquiryID == uuid.Nil {
		e.EnquiryID = uuid.New()
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	return nil
}
