package enquiries

import (
	"context"
	"errors"
	"strings"
	"time"

	"agrivest-backend/internal/constants"
	"agrivest-backend/internal/domain"
	"agrivest-backend/internal/ledger"
	"agrivest-backend/internal/pagination"
	"agrivest-backend/internal/pkg/apperr"
	"agrivest-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service owns every enquiry mutation. All field updates flow through the
// audited transaction so an update is never observable without its log entry.
type Service struct {
	DB *gorm.DB

	// PurgeWindow is how far ahead archiving schedules the purge timestamp.
	PurgeWindow time.Duration
}

// DefaultPurgeWindow matches the 30-day archive contract.
const DefaultPurgeWindow = 30 * 24 * time.Hour

func (s *Service) purgeWindow() time.Duration {
	if s.PurgeWindow > 0 {
		return s.PurgeWindow
	}
	return DefaultPurgeWindow
}

// CreateInput is a public enquiry submission.
type CreateInput struct {
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Email       string   `json:"email"`
	PhoneNumber *string  `json:"phone_number"`
	Company     *string  `json:"company"`
	Category    []string `json:"category"`
	Message     string   `json:"message"`
}

// Create records a new public enquiry: status active, unread, not archived.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Enquiry, error) {
	if !validation.IsValidName(in.FirstName) || !validation.IsValidName(in.LastName) {
		return nil, apperr.Validation("First and last name are required")
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, apperr.Validation("Invalid email address")
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, apperr.Validation("Message is required")
	}

	enq := domain.Enquiry{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Company:     in.Company,
		Category:    in.Category,
		Message:     in.Message,
		Status:      domain.StatusActive,
		IsRead:      false,
		Active:      true,
	}
	if err := s.DB.WithContext(ctx).Create(&enq).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &enq, nil
}

// Patch applies sanitized field updates and the paired audit entry in one
// transaction. performedBy defaults to the system identity.
func (s *Service) Patch(ctx context.Context, id uuid.UUID, fields map[string]interface{}, performedBy string) (*domain.Enquiry, error) {
	updates, action, err := sanitizePatch(fields)
	if err != nil {
		return nil, err
	}
	return s.applyAudited(ctx, id, updates, action, performedBy)
}

// MarkRead flips the unread flag, advancing active -> reviewed on first open.
// Already-read enquiries return unchanged with no audit entry.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID, performedBy string) (*domain.Enquiry, error) {
	enq, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := readUpdates(enq)
	if updates == nil {
		return enq, nil
	}
	return s.applyAudited(ctx, id, updates, "Marked enquiry as read", performedBy)
}

// Archive soft-deletes the enquiry and schedules the purge timestamp.
// Valid from any state; re-archiving resets the clock.
func (s *Service) Archive(ctx context.Context, id uuid.UUID, performedBy string) (*domain.Enquiry, error) {
	updates := archiveUpdates(time.Now(), s.purgeWindow())
	return s.applyAudited(ctx, id, updates, "Archived enquiry and scheduled purge", performedBy)
}

// Restore un-archives an archived enquiry and clears the purge timestamp.
func (s *Service) Restore(ctx context.Context, id uuid.UUID, performedBy string) (*domain.Enquiry, error) {
	enq, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	updates, err := restoreUpdates(enq)
	if err != nil {
		return nil, err
	}
	return s.applyAudited(ctx, id, updates, "Restored archived enquiry", performedBy)
}

// HardDelete permanently removes the enquiry and cascades to its investments,
// payments and audit log. The admin requirement is re-checked here so route
// gating alone is never the security boundary. No partial deletion occurs.
func (s *Service) HardDelete(ctx context.Context, id uuid.UUID, actorRole string) error {
	if !constants.IsAdminRole(actorRole) {
		return apperr.Forbidden("Only administrators can permanently delete enquiries")
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var enq domain.Enquiry
		if err := tx.Where("enquiry_id = ?", id).First(&enq).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Enquiry not found")
			}
			return err
		}
		if err := tx.Where("enquiry_id = ?", id).Delete(&domain.Investment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("enquiry_id = ?", id).Delete(&domain.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("enquiry_id = ?", id).Delete(&domain.AuditLogEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&enq).Error
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		log.Error().Str("enquiry_id", id.String()).Err(err).Msg("hard delete failed")
		return apperr.Internal(err)
	}
	return nil
}

// applyAudited runs the single-transaction protocol: update the enquiry and
// append exactly one audit entry. If either half fails neither is committed.
func (s *Service) applyAudited(ctx context.Context, id uuid.UUID, updates map[string]interface{}, action, performedBy string) (*domain.Enquiry, error) {
	if performedBy == "" {
		performedBy = domain.PerformedBySystem
	}

	var updated domain.Enquiry
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var enq domain.Enquiry
		if err := tx.Where("enquiry_id = ?", id).First(&enq).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Enquiry not found")
			}
			return err
		}
		if err := tx.Model(&enq).Updates(updates).Error; err != nil {
			return err
		}
		entry := domain.AuditLogEntry{
			EnquiryID:   id,
			Action:      action,
			PerformedBy: performedBy,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.Where("enquiry_id = ?", id).First(&updated).Error
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		log.Error().Str("enquiry_id", id.String()).Str("action", action).Err(err).Msg("audited mutation failed")
		return nil, apperr.Internal(err)
	}
	return &updated, nil
}

func (s *Service) fetch(ctx context.Context, id uuid.UUID) (*domain.Enquiry, error) {
	var enq domain.Enquiry
	if err := s.DB.WithContext(ctx).Where("enquiry_id = ?", id).First(&enq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Enquiry not found")
		}
		return nil, apperr.Internal(err)
	}
	return &enq, nil
}

// Detail returns one enquiry with its ledger rows, audit history (newest
// first) and a freshly computed snapshot. The read is not transactional;
// figures are recomputed from current rows on every call.
type DetailResult struct {
	Enquiry  domain.Enquiry  `json:"enquiry"`
	Snapshot ledger.Snapshot `json:"ledger"`
}

func (s *Service) Detail(ctx context.Context, id uuid.UUID) (*DetailResult, error) {
	var enq domain.Enquiry
	err := s.DB.WithContext(ctx).
		Preload("Investments", func(db *gorm.DB) *gorm.DB { return db.Order(`"createdAt" ASC`) }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order(`"createdAt" ASC`) }).
		Preload("AuditLog", func(db *gorm.DB) *gorm.DB { return db.Order(`"createdAt" DESC`) }).
		Where("enquiry_id = ?", id).First(&enq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Enquiry not found")
		}
		return nil, apperr.Internal(err)
	}
	return &DetailResult{Enquiry: enq, Snapshot: ledger.ForEnquiry(&enq)}, nil
}

// ListParams filter the registry view before pagination.
type ListParams struct {
	Status   string
	Category string
	Search   string
	Archived bool
	PageSize int
	Offset   int
}

// List fetches the filtered enquiry set ordered newest first, then paginates
// it with the shared engine so every surface clamps identically.
func (s *Service) List(ctx context.Context, p ListParams) (pagination.Page[domain.Enquiry], error) {
	full, err := s.filtered(ctx, p)
	if err != nil {
		return pagination.Page[domain.Enquiry]{}, err
	}
	if p.PageSize <= 0 {
		p.PageSize = pagination.DefaultPageSize
	}
	return pagination.Paginate(full, p.PageSize, p.Offset), nil
}

// Summary aggregates the same filtered set fleet-wide, building on the
// per-enquiry aggregator so single-record and rollup totals cannot drift.
func (s *Service) Summary(ctx context.Context, p ListParams) (ledger.FleetTotals, error) {
	full, err := s.filteredWithLedger(ctx, p)
	if err != nil {
		return ledger.FleetTotals{}, err
	}
	return ledger.Fleet(full), nil
}

// Portfolio is the investor self-service view: the caller's own enquiries
// with snapshots, matched by submission email.
type PortfolioEntry struct {
	Enquiry  domain.Enquiry  `json:"enquiry"`
	Snapshot ledger.Snapshot `json:"ledger"`
}

func (s *Service) Portfolio(ctx context.Context, email string) ([]PortfolioEntry, error) {
	if email == "" {
		return nil, apperr.Unauthorized("No email on session")
	}
	var enqs []domain.Enquiry
	err := s.DB.WithContext(ctx).
		Preload("Investments").
		Preload("Payments").
		Where("email = ? AND active = ?", email, true).
		Order(`"createdAt" DESC`).
		Find(&enqs).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out := make([]PortfolioEntry, len(enqs))
	for i := range enqs {
		out[i] = PortfolioEntry{Enquiry: enqs[i], Snapshot: ledger.ForEnquiry(&enqs[i])}
	}
	return out, nil
}

func (s *Service) filtered(ctx context.Context, p ListParams) ([]domain.Enquiry, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Enquiry{}).Where("active = ?", !p.Archived)
	if p.Status != "" {
		q = q.Where("status = ?", p.Status)
	}
	var enqs []domain.Enquiry
	if err := q.Order(`"createdAt" DESC`).Find(&enqs).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return filterInMemory(enqs, p), nil
}

func (s *Service) filteredWithLedger(ctx context.Context, p ListParams) ([]domain.Enquiry, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Enquiry{}).
		Preload("Investments").
		Preload("Payments").
		Where("active = ?", !p.Archived)
	if p.Status != "" {
		q = q.Where("status = ?", p.Status)
	}
	var enqs []domain.Enquiry
	if err := q.Order(`"createdAt" DESC`).Find(&enqs).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return filterInMemory(enqs, p), nil
}

// filterInMemory applies the category and search filters. Category lives in a
// JSON column, so membership is checked here rather than in SQL to keep the
// query portable across Postgres and the sqlite test driver.
func filterInMemory(enqs []domain.Enquiry, p ListParams) []domain.Enquiry {
	if p.Category == "" && p.Search == "" {
		return enqs
	}
	term := strings.ToLower(strings.TrimSpace(p.Search))
	out := enqs[:0:0]
	for _, e := range enqs {
		if p.Category != "" && !hasCategory(e.Category, p.Category) {
			continue
		}
		if term != "" && !matchesSearch(&e, term) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func hasCategory(set []string, want string) bool {
	for _, c := range set {
		if strings.EqualFold(c, want) {
			return true
		}
	}
	return false
}

func matchesSearch(e *domain.Enquiry, term string) bool {
	fields := []string{e.FirstName, e.LastName, e.Email, e.Message}
	if e.Company != nil {
		fields = append(fields, *e.Company)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
