package enquiries

import (
	"context"
	"testing"
	"time"

	"agrivest-backend/internal/constants"
	"agrivest-backend/internal/domain"
	"agrivest-backend/internal/pkg/apperr"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Enquiry{}, &domain.Investment{}, &domain.Payment{}, &domain.AuditLogEntry{},
	))
	return &Service{DB: db}, db
}

func seedEnquiry(t *testing.T, db *gorm.DB) *domain.Enquiry {
	enq := &domain.Enquiry{
		FirstName: "Amara",
		LastName:  "Okafor",
		Email:     "amara@example.com",
		Message:   "Interested in the irrigation partnership",
		Status:    domain.StatusActive,
		Active:    true,
	}
	require.NoError(t, db.Create(enq).Error)
	return enq
}

func auditCount(t *testing.T, db *gorm.DB, id uuid.UUID) int64 {
	var n int64
	require.NoError(t, db.Model(&domain.AuditLogEntry{}).Where("enquiry_id = ?", id).Count(&n).Error)
	return n
}

func TestCreate_Defaults(t *testing.T) {
	svc, _ := setupService(t)
	enq, err := svc.Create(context.Background(), CreateInput{
		FirstName: "Amara", LastName: "Okafor",
		Email: "amara@example.com", Message: "hello",
		Category: []string{"dairy", "irrigation"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, enq.Status)
	assert.False(t, enq.IsRead)
	assert.True(t, enq.Active)
	assert.NotEqual(t, uuid.Nil, enq.EnquiryID)
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	svc, _ := setupService(t)
	_, err := svc.Create(context.Background(), CreateInput{
		FirstName: "Amara", LastName: "Okafor", Email: "not-an-email", Message: "hi",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = svc.Create(context.Background(), CreateInput{
		FirstName: "Amara", LastName: "Okafor", Email: "a@b.com", Message: "  ",
	})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestPatch_CreatesExactlyOneAuditEntry(t *testing.T) {
	svc, db := setupService(t)
	enq := seedEnquiry(t, db)

	updated, err := svc.Patch(context.Background(), enq.EnquiryID, map[string]interface{}{
		"status":  domain.StatusContacted,
		"company": "Okafor Farms",
	}, "jane@admin")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusContacted, updated.Status)
	require.NotNil(t, updated.Company)
	assert.Equal(t, "Okafor Farms", *updated.Company)

	require.EqualValues(t, 1, auditCount(t, db, enq.EnquiryID))
	var entry domain.AuditLogEntry
	require.NoError(t, db.Where("enquiry_id = ?", enq.EnquiryID).First(&entry).Error)
	assert.Equal(t, "Updated fields: company, status", entry.Action)
	assert.Equal(t, "jane@admin", entry.PerformedBy)
}

func TestPatch_NotesUseFixedAuditAction(t *testing.T) {
	svc, db := setupService(t)
	enq := seedEnquiry(t, db)

	_, err := svc.Patch(context.Background(), enq.EnquiryID, map[string]interface{}{
		"admin_notes": "called twice, no answer",
	}, "")
	require.NoError(t, err)

	var entry domain.AuditLogEntry
	require.NoError(t, db.Where("enquiry_id = ?", enq.EnquiryID).First(&entry).Error)
	assert.Equal(t, "Updated internal audit notes", entry.Action)
	assert.Equal(t, domain.PerformedBySystem, entry.PerformedBy)
}

func TestPatch_SanitizesPledgeAndDate(t *testing.T) {
	svc, db := setupService(t)
	enq := seedEnquiry(t, db)

	updated, err := svc.Patch(context.Background(), enq.EnquiryID, map[string]interface{}{
		"pledgeAmount": "10,000.50",
		"paymentDate":  "2026-11-01",
		"category":     "dairy",
	}, "jane@admin")
	require.NoError(t, err)
	require.NotNil(t, updated.PledgeAmount)
	assert.Equal(t, 10000.50, *updated.PledgeAmount)
	require.NotNil(t, updated.TargetPaymentDate)
	assert.Equal(t, 2026, updated.TargetPaymentDate.Year())
	assert.Equal(t, []string{"dairy"}, []string(updated.Category))
}

func TestPatch_FalsyPledgeClears(t *testing.T) {
	svc, db := setupService(t)
	enq := seedEnquiry(t, db)

	_, err := svc.Patch(context.Background(), enq.EnquiryID, map[string]interface{}{"pledgeAmount": "25,000"}, "")
	require.NoError(t, err)

	updated, err := svc.Patch(context.Background(), enq.EnquiryID, map[string]interface{}{"pledgeAmount": ""}, "")
	require.NoError(t, err)
	assert.Nil(t, updated.PledgeAmount)
}

func TestPatch_UnknownFieldRejected(t *testing.T) {
	svc, db := setupService(t)
	enq := seedEnquiry(t, db)

	_, err := svc.Patch(context.Background(), enq.EnquiryID, map[string]interface{}{"is_admin": true}, "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	assert.EqualValues(t, 0, auditCount(t, db, enq.EnquiryID))
}

func TestPatch_NotFound(t *testing.T) {
	svc, _ := setupService(t)
	_, err := svc.Patch(context.Background(), uuid.New(), map[string]interface{}{"status": "closed"}, "")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

// Induced transaction failure: with the audit table gone, the enquiry update
// must roll back too, leaving no partial state.
func TestPatch_RollsBackWhenAuditInsertFails(t *testing.T) {
	svc, db := setupService(t)
	enq := seedEnquiry(t, db)

	require.NoError(t, db.Migrator().DropTable(&domain.AuditLogEntry{}))

	_, err := svc.Patch(context.Background(), enq.EnquiryID, map[string]interface{}{
		"status": domain.StatusClosed,
	}, "jane@admin")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInternal))

	var current domain.Enquiry
	require.NoError(t, db.Where("enquiry_id = ?", enq.EnquiryID).First(&current).Error)
	assert.Equal(t, domain.StatusActive, current.Status)
}

func TestMarkRead_AdvancesActiveToReviewed(t *testing.T) {
	svc, db := setupService(t)
	enq := seedEnquiry(t, db)

	updated, err := svc.MarkRead(context.Background(), enq.EnquiryID, "jane@admin")
	require.NoError(t, err)
	assert.True(t, updated.IsRead)
	assert.Equal(t, domain.StatusReviewed, updated.Status)
	assert.EqualValues(t, 1, auditCount(t, db, enq.EnquiryID))
}

func TestMarkRead_NoOpWhenAlreadyRead(t *testing.T) {
	svc, db := setupService(t)
	enq := seedEnquiry(t, db)

	_, err := svc.MarkRead(context.Background(), enq.EnquiryID, "")
	require.NoError(t, err)
	updated, err := svc.MarkRead(context.Background(), enq.EnquiryID, "")
	require.NoError(t, err)
	assert.True(t, updated.IsRead)
	// No second audit entry for the no-op.
	assert.EqualValues(t, 1, auditCount(t, db, enq.EnquiryID))
}

func TestMarkRead_DoesNotTouchContactedStatus(t *testing.T) {
	svc, db := setupService(t)
	enq := seedEnquiry(t, db)
	require.NoError(t, db.Model(enq).Update("status", domain.StatusContacted).Error)

	updated, err := svc.MarkRead(context.Background(), enq.EnquiryID, "")
	require.NoError(t, err)
	assert.True(t, updated.IsRead)
	assert.Equal(t, domain.StatusContacted, updated.Status)
}

func TestArchiveThenRestore(t *testing.T) {
	svc, db := setupService(t)
	enq := seedEnquiry(t, db)

	archived, err := svc.Archive(context.Background(), enq.EnquiryID, "jane@admin")
	require.NoError(t, err)
	assert.False(t, archived.Active)
	assert.Equal(t, domain.StatusPendingDelete, archived.Status)
	require.NotNil(t, archived.ScheduledDeleteAt)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), *archived.ScheduledDeleteAt, time.Minute)

	restored, err := svc.Restore(context.Background(), enq.EnquiryID, "jane@admin")
	require.NoError(t, err)
	assert.True(t, restored.Active)
	assert.Equal(t, domain.StatusRestored, restored.Status)
	assert.Nil(t, restored.ScheduledDeleteAt)

	assert.EqualValues(t, 2, auditCount(t, db, enq.EnquiryID))
}

func TestArchive_ReArchivingResetsClock(t *testing.T) {
	svc, db := setupService(t)
	enq := seedEnquiry(t, db)
	svc.PurgeWindow = time.Hour

	first, err := svc.Archive(context.Background(), enq.EnquiryID, "")
	require.NoError(t, err)
	firstDeadline := *first.ScheduledDeleteAt

	time.Sleep(10 * time.Millisecond)
	second, err := svc.Archive(context.Background(), enq.EnquiryID, "")
	require.NoError(t, err)
	assert.True(t, second.ScheduledDeleteAt.After(firstDeadline))
}

func TestRestore_RejectsActiveEnquiry(t *testing.T) {
	svc, db := setupService(t)
	enq := seedEnquiry(t, db)

	_, err := svc.Restore(context.Background(), enq.EnquiryID, "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
}

func TestHardDelete_RequiresAdmin(t *testing.T) {
	svc, db := setupService(t)
	enq := seedEnquiry(t, db)
	require.NoError(t, db.Create(&domain.Investment{EnquiryID: enq.EnquiryID, Amount: 100}).Error)

	err := svc.HardDelete(context.Background(), enq.EnquiryID, constants.Manager)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	// Record and its ledger rows still exist.
	var n int64
	require.NoError(t, db.Model(&domain.Enquiry{}).Where("enquiry_id = ?", enq.EnquiryID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	require.NoError(t, db.Model(&domain.Investment{}).Where("enquiry_id = ?", enq.EnquiryID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestHardDelete_CascadesToLedgerAndAudit(t *testing.T) {
	svc, db := setupService(t)
	enq := seedEnquiry(t, db)
	require.NoError(t, db.Create(&domain.Investment{EnquiryID: enq.EnquiryID, Amount: 100}).Error)
	require.NoError(t, db.Create(&domain.Payment{EnquiryID: enq.EnquiryID, Amount: 40}).Error)
	_, err := svc.Patch(context.Background(), enq.EnquiryID, map[string]interface{}{"status": "closed"}, "")
	require.NoError(t, err)

	require.NoError(t, svc.HardDelete(context.Background(), enq.EnquiryID, constants.Admin))

	for _, model := range []interface{}{&domain.Enquiry{}, &domain.Investment{}, &domain.Payment{}, &domain.AuditLogEntry{}} {
		var n int64
		require.NoError(t, db.Model(model).Where("enquiry_id = ?", enq.EnquiryID).Count(&n).Error)
		assert.EqualValues(t, 0, n)
	}
}

func TestHardDelete_NotFound(t *testing.T) {
	svc, _ := setupService(t)
	err := svc.HardDelete(context.Background(), uuid.New(), constants.Admin)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestList_FiltersAndPaginates(t *testing.T) {
	svc, db := setupService(t)
	for i := 0; i < 12; i++ {
		enq := seedEnquiry(t, db)
		if i%2 == 0 {
			require.NoError(t, db.Model(enq).Update("status", domain.StatusContacted).Error)
		}
	}

	page, err := svc.List(context.Background(), ListParams{Status: domain.StatusContacted, PageSize: 4, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 4)
	assert.Equal(t, 2, page.PageCount)
	assert.Equal(t, 2, page.Offset)
	assert.Equal(t, 6, page.Total)
}

func TestList_ClampsOffsetWhenFilterShrinksList(t *testing.T) {
	svc, db := setupService(t)
	for i := 0; i < 5; i++ {
		seedEnquiry(t, db)
	}
	page, err := svc.List(context.Background(), ListParams{PageSize: 8, Offset: 16})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Offset)
	assert.Equal(t, 1, page.PageCount)
	assert.Len(t, page.Items, 5)
}

func TestList_SearchMatchesNameAndCompany(t *testing.T) {
	svc, db := setupService(t)
	seedEnquiry(t, db)
	company := "Greenfield Co-op"
	other := &domain.Enquiry{
		FirstName: "Ben", LastName: "Smith", Email: "ben@example.com",
		Message: "pledge", Status: domain.StatusActive, Active: true, Company: &company,
	}
	require.NoError(t, db.Create(other).Error)

	page, err := svc.List(context.Background(), ListParams{Search: "greenfield", PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Ben", page.Items[0].FirstName)
}

func TestList_ArchivedFilter(t *testing.T) {
	svc, db := setupService(t)
	keep := seedEnquiry(t, db)
	gone := seedEnquiry(t, db)
	_, err := svc.Archive(context.Background(), gone.EnquiryID, "")
	require.NoError(t, err)

	active, err := svc.List(context.Background(), ListParams{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, active.Items, 1)
	assert.Equal(t, keep.EnquiryID, active.Items[0].EnquiryID)

	archived, err := svc.List(context.Background(), ListParams{Archived: true, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, archived.Items, 1)
	assert.Equal(t, gone.EnquiryID, archived.Items[0].EnquiryID)
}

func TestDetail_IncludesLedgerRowsAndSnapshot(t *testing.T) {
	svc, db := setupService(t)
	enq := seedEnquiry(t, db)
	_, err := svc.Patch(context.Background(), enq.EnquiryID, map[string]interface{}{"pledgeAmount": "10,000"}, "")
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.Investment{EnquiryID: enq.EnquiryID, Amount: 4000}).Error)

	detail, err := svc.Detail(context.Background(), enq.EnquiryID)
	require.NoError(t, err)
	assert.Len(t, detail.Enquiry.Investments, 1)
	assert.Len(t, detail.Enquiry.AuditLog, 1)
	assert.Equal(t, 4000.0, detail.Snapshot.TotalInvested)
	assert.Equal(t, 40.0, detail.Snapshot.Progress)
}

func TestSummary_UsesSameAggregator(t *testing.T) {
	svc, db := setupService(t)
	a := seedEnquiry(t, db)
	b := seedEnquiry(t, db)
	require.NoError(t, db.Create(&domain.Investment{EnquiryID: a.EnquiryID, Amount: 4000}).Error)
	require.NoError(t, db.Create(&domain.Investment{EnquiryID: b.EnquiryID, Amount: 1500}).Error)
	require.NoError(t, db.Create(&domain.Payment{EnquiryID: b.EnquiryID, Amount: 500}).Error)

	totals, err := svc.Summary(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, totals.Enquiries)
	assert.Equal(t, 5500.0, totals.TotalInvested)
	assert.Equal(t, 500.0, totals.TotalPaid)
	assert.Equal(t, 5000.0, totals.Balance)
}

func TestPortfolio_OwnEnquiriesOnly(t *testing.T) {
	svc, db := setupService(t)
	mine := seedEnquiry(t, db)
	require.NoError(t, db.Create(&domain.Enquiry{
		FirstName: "Ben", LastName: "Smith", Email: "ben@example.com",
		Message: "other", Status: domain.StatusActive, Active: true,
	}).Error)
	require.NoError(t, db.Create(&domain.Investment{EnquiryID: mine.EnquiryID, Amount: 250}).Error)

	entries, err := svc.Portfolio(context.Background(), "amara@example.com")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, mine.EnquiryID, entries[0].Enquiry.EnquiryID)
	assert.Equal(t, 250.0, entries[0].Snapshot.TotalInvested)
}
