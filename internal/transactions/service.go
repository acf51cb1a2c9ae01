package transactions

import (
	"context"
	"errors"

	"agrivest-backend/internal/constants"
	"agrivest-backend/internal/domain"
	"agrivest-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Transaction types accepted by Post.
const (
	TypeInvestment = "investment"
	TypePayment    = "payment"
)

// Service appends ledger rows. Posted rows are never updated or deleted, and
// the service never caches aggregates; snapshots are recomputed on read.
type Service struct {
	DB *gorm.DB
}

// PostInput carries one ledger posting. Amount arrives as a raw JSON value so
// both numbers and formatted strings can be validated before any write.
type PostInput struct {
	EnquiryID uuid.UUID
	Amount    float64
	Type      string

	// ActorRole backs the server-side capability re-check for payments.
	// Client-side gating disables the control but is not a security boundary.
	ActorRole string
}

// Result is the created row, either an Investment or a Payment.
type Result struct {
	Type       string             `json:"type"`
	Investment *domain.Investment `json:"investment,omitempty"`
	Payment    *domain.Payment    `json:"payment,omitempty"`
}

// Post validates and appends exactly one ledger row scoped to the enquiry.
func (s *Service) Post(ctx context.Context, in PostInput) (*Result, error) {
	if in.Amount <= 0 {
		return nil, apperr.Validation("Amount must be a positive number")
	}
	if in.Type != TypeInvestment && in.Type != TypePayment {
		return nil, apperr.Validation("Type must be \"investment\" or \"payment\"")
	}
	if in.Type == TypePayment && !constants.AllowedRole(constants.RecordPayment, in.ActorRole) {
		return nil, apperr.Forbidden("Recording payments is not permitted for this role")
	}

	var enq domain.Enquiry
	if err := s.DB.WithContext(ctx).Where("enquiry_id = ?", in.EnquiryID).First(&enq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Enquiry not found")
		}
		return nil, apperr.Internal(err)
	}

	switch in.Type {
	case TypeInvestment:
		row := domain.Investment{EnquiryID: in.EnquiryID, Amount: in.Amount}
		if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
			log.Error().Str("enquiry_id", in.EnquiryID.String()).Err(err).Msg("investment post failed")
			return nil, apperr.Internal(err)
		}
		return &Result{Type: TypeInvestment, Investment: &row}, nil
	default:
		row := domain.Payment{EnquiryID: in.EnquiryID, Amount: in.Amount}
		if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
			log.Error().Str("enquiry_id", in.EnquiryID.String()).Err(err).Msg("payment post failed")
			return nil, apperr.Internal(err)
		}
		return &Result{Type: TypePayment, Payment: &row}, nil
	}
}
