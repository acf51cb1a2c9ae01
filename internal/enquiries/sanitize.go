package enquiries

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"agrivest-backend/internal/domain"
	"agrivest-backend/internal/pkg/apperr"
	"agrivest-backend/internal/pkg/validation"

	"gorm.io/datatypes"
)

// auditNotesAction is the fixed audit message when a patch touches the
// internal notes.
const auditNotesAction = "Updated internal audit notes"

// sanitizePatch turns a raw JSON field map into column updates and the audit
// action describing them. Rules: pledgeAmount strips thousands separators and
// parses to decimal (nil for falsy input); paymentDate is renamed to the
// target payment date and parsed (nil for falsy); a bare category string is
// coerced to a one-element set.
func sanitizePatch(fields map[string]interface{}) (map[string]interface{}, string, error) {
	updates := make(map[string]interface{}, len(fields))
	touched := make([]string, 0, len(fields))
	notesTouched := false

	for name, raw := range fields {
		switch name {
		case "first_name", "last_name", "message":
			s, ok := raw.(string)
			if !ok || strings.TrimSpace(s) == "" {
				return nil, "", apperr.Validation(fmt.Sprintf("Field %q must be a non-empty string", name))
			}
			updates[name] = s

		case "email":
			s, _ := raw.(string)
			if !validation.IsValidEmail(s) {
				return nil, "", apperr.Validation("Invalid email address")
			}
			updates["email"] = s

		case "phone_number", "company", "paymentStructure":
			col := name
			if name == "paymentStructure" {
				col = "payment_structure"
			}
			if s, ok := raw.(string); ok && s != "" {
				updates[col] = s
			} else {
				updates[col] = nil
			}

		case "status":
			s, _ := raw.(string)
			if !domain.ValidStatus(s) {
				return nil, "", apperr.Validation(fmt.Sprintf("Unknown status %q", s))
			}
			updates["status"] = s

		case "isRead":
			b, ok := raw.(bool)
			if !ok {
				return nil, "", apperr.Validation("Field \"isRead\" must be a boolean")
			}
			updates["is_read"] = b

		case "pledgeAmount":
			amount, err := parseAmountField(raw)
			if err != nil {
				return nil, "", err
			}
			if amount == nil {
				updates["pledge_amount"] = nil
			} else {
				updates["pledge_amount"] = *amount
			}

		case "paymentDate":
			date, err := parseDateField(raw)
			if err != nil {
				return nil, "", err
			}
			if date == nil {
				updates["target_payment_date"] = nil
			} else {
				updates["target_payment_date"] = *date
			}

		case "category":
			set, err := coerceCategory(raw)
			if err != nil {
				return nil, "", err
			}
			updates["category"] = set

		case "admin_notes":
			if s, ok := raw.(string); ok && s != "" {
				updates["admin_notes"] = s
			} else {
				updates["admin_notes"] = nil
			}
			notesTouched = true

		default:
			return nil, "", apperr.Validation(fmt.Sprintf("Field %q cannot be updated", name))
		}
		touched = append(touched, name)
	}

	if len(updates) == 0 {
		return nil, "", apperr.Validation("No fields to update")
	}

	action := auditNotesAction
	if !notesTouched {
		sort.Strings(touched)
		action = "Updated fields: " + strings.Join(touched, ", ")
	}
	return updates, action, nil
}

// parseAmountField accepts a JSON number or a string with thousands
// separators. Falsy input (nil, "", 0) clears the pledge.
func parseAmountField(raw interface{}) (*float64, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		if v == 0 {
			return nil, nil
		}
		return &v, nil
	case string:
		amount, err := validation.ParseAmount(v)
		if err != nil {
			return nil, apperr.Validation("Pledge amount must be a decimal number")
		}
		return amount, nil
	}
	return nil, apperr.Validation("Pledge amount must be a decimal number")
}

// parseDateField accepts an ISO date string. Falsy input clears the target date.
func parseDateField(raw interface{}) (*time.Time, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		date, err := validation.ParseDate(v)
		if err != nil {
			return nil, apperr.Validation("Payment date must be an ISO date")
		}
		return date, nil
	}
	return nil, apperr.Validation("Payment date must be an ISO date")
}

// coerceCategory accepts a string array or a bare string (coerced to a
// one-element set).
func coerceCategory(raw interface{}) (datatypes.JSONSlice[string], error) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return datatypes.JSONSlice[string]{}, nil
		}
		return datatypes.JSONSlice[string]{v}, nil
	case []interface{}:
		set := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, apperr.Validation("Category entries must be strings")
			}
			set = append(set, s)
		}
		return datatypes.NewJSONSlice(set), nil
	}
	return nil, apperr.Validation("Category must be a string or an array of strings")
}
