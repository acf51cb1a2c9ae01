// Package ledger derives balance and progress figures from raw investment and
// payment rows. Snapshots are recomputed on every read and never stored, so
// every view of the same rows agrees numerically.
package ledger

import (
	"math"

	"agrivest-backend/internal/domain"
)

// Snapshot holds the derived ledger figures for one enquiry.
type Snapshot struct {
	TotalInvested float64 `json:"totalInvested"`
	TotalPaid     float64 `json:"totalPaid"`
	Balance       float64 `json:"balance"`
	Progress      float64 `json:"progress"`
}

// Aggregate computes the ledger snapshot for a single enquiry.
// Empty lists yield zero sums. Balance is not clamped and goes negative when
// payments exceed recorded investments. Progress is 0 when the pledge is
// absent or non-positive, otherwise capped at 100.
func Aggregate(pledgeAmount *float64, investments []domain.Investment, payments []domain.Payment) Snapshot {
	var invested, paid float64
	for _, inv := range investments {
		invested += inv.Amount
	}
	for _, p := range payments {
		paid += p.Amount
	}

	// Balance is derived from the rounded totals, not rounded separately, so
	// balance == totalInvested - totalPaid holds exactly even for sub-cent rows.
	snap := Snapshot{
		TotalInvested: round2(invested),
		TotalPaid:     round2(paid),
	}
	snap.Balance = snap.TotalInvested - snap.TotalPaid
	if pledgeAmount != nil && *pledgeAmount > 0 {
		snap.Progress = math.Min(100, invested / *pledgeAmount*100)
	}
	return snap
}

// ForEnquiry aggregates using the enquiry's own preloaded rows.
func ForEnquiry(e *domain.Enquiry) Snapshot {
	return Aggregate(e.PledgeAmount, e.Investments, e.Payments)
}

// FleetTotals sums per-enquiry snapshots across a filtered set. It is built on
// the same per-enquiry aggregator so single-record and multi-record totals
// cannot drift. PledgedTotal sums pledges; fleet progress is recomputed from
// the summed figures rather than averaging percentages.
type FleetTotals struct {
	Enquiries     int     `json:"enquiries"`
	PledgedTotal  float64 `json:"pledgedTotal"`
	TotalInvested float64 `json:"totalInvested"`
	TotalPaid     float64 `json:"totalPaid"`
	Balance       float64 `json:"balance"`
	Progress      float64 `json:"progress"`
}

// Fleet combines the snapshots of the given enquiries.
func Fleet(enquiries []domain.Enquiry) FleetTotals {
	totals := FleetTotals{Enquiries: len(enquiries)}
	for i := range enquiries {
		snap := ForEnquiry(&enquiries[i])
		totals.TotalInvested = round2(totals.TotalInvested + snap.TotalInvested)
		totals.TotalPaid = round2(totals.TotalPaid + snap.TotalPaid)
		if enquiries[i].PledgeAmount != nil && *enquiries[i].PledgeAmount > 0 {
			totals.PledgedTotal = round2(totals.PledgedTotal + *enquiries[i].PledgeAmount)
		}
	}
	// Same construction as Aggregate: the identity must survive summation.
	totals.Balance = totals.TotalInvested - totals.TotalPaid
	if totals.PledgedTotal > 0 {
		totals.Progress = math.Min(100, totals.TotalInvested/totals.PledgedTotal*100)
	}
	return totals
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
