package enquiries

import (
	"time"

	"agrivest-backend/internal/domain"
	"agrivest-backend/internal/pkg/apperr"
)

// Lifecycle transitions for an enquiry. The primary status axis runs
// active -> reviewed (first admin open) -> contacted/closed (explicit admin
// action, reversible). The archival axis overlays it through Active plus the
// pending_delete/restored status markers. Each transition yields the column
// updates to apply through the audited mutation path.

// readUpdates marks an unread enquiry read, advancing active -> reviewed.
// Returns nil when the enquiry is already read (no-op, no audit entry).
func readUpdates(e *domain.Enquiry) map[string]interface{} {
	if e.IsRead {
		return nil
	}
	updates := map[string]interface{}{"is_read": true}
	if e.Status == domain.StatusActive {
		updates["status"] = domain.StatusReviewed
	}
	return updates
}

// archiveUpdates soft-deletes: valid from any state, and re-archiving resets
// the purge clock.
func archiveUpdates(now time.Time, purgeWindow time.Duration) map[string]interface{} {
	return map[string]interface{}{
		"active":              false,
		"status":              domain.StatusPendingDelete,
		"scheduled_delete_at": now.Add(purgeWindow),
	}
}

// restoreUpdates un-archives. Only valid on an archived enquiry. The purge
// timestamp is cleared so a restored record can never be swept.
func restoreUpdates(e *domain.Enquiry) (map[string]interface{}, error) {
	if e.Active {
		return nil, apperr.Conflict("Enquiry is not archived")
	}
	return map[string]interface{}{
		"active":              true,
		"status":              domain.StatusRestored,
		"scheduled_delete_at": nil,
	}, nil
}
