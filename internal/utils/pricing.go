package utils

import (
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
)

// All amounts are integer cents. Percentage math rounds half-up so a 5% fee
// on $0.50 is 3 cents, matching how totals are displayed to both parties.

// ServiceFeePercent is the platform fee charged on the rental subtotal.
const ServiceFeePercent = 5

// Insurance premiums as a percentage of the rental subtotal.
const (
	InsuranceBasicPercent   = 5
	InsurancePremiumPercent = 10
)

// BookingCostBreakdown itemizes everything the renter is charged up front.
type BookingCostBreakdown struct {
	Days            int   `json:"days"`
	SubtotalCents   int64 `json:"subtotal_cents"`
	ServiceFeeCents int64 `json:"service_fee_cents"`
	InsuranceCents  int64 `json:"insurance_cents"`
	DepositCents    int64 `json:"deposit_cents"`
	TotalCents      int64 `json:"total_cents"`
}

// ReleaseBreakdown itemizes where escrowed money goes when a booking settles.
type ReleaseBreakdown struct {
	OwnerPayoutCents     int64 `json:"owner_payout_cents"`
	RenterRefundCents    int64 `json:"renter_refund_cents"`
	DepositReturnedCents int64 `json:"deposit_returned_cents"`
	ClaimDeductionCents  int64 `json:"claim_deduction_cents"`
}

// RoundPercent computes percent% of amount in cents, rounding half-up.
func RoundPercent(amountCents int64, percent int64) int64 {
	return (amountCents*percent + 50) / 100
}

// ComputeDeposit derives the damage deposit for a piece of equipment: the
// fixed amount when set, otherwise a percentage of the daily rate, otherwise
// zero.
func ComputeDeposit(eq *domain.Equipment) int64 {
	if eq.DamageDepositCents > 0 {
		return eq.DamageDepositCents
	}
	if eq.DamageDepositPercentage > 0 {
		return RoundPercent(eq.DailyRateCents, eq.DamageDepositPercentage)
	}
	return 0
}

func insurancePercent(t domain.InsuranceType) (int64, error) {
	switch t {
	case domain.InsuranceNone, "":
		return 0, nil
	case domain.InsuranceBasic:
		return InsuranceBasicPercent, nil
	case domain.InsurancePremium:
		return InsurancePremiumPercent, nil
	default:
		return 0, fmt.Errorf("unknown insurance type %q", t)
	}
}

// ComputeBookingTotal prices a booking for [start, end), end date exclusive.
// Custom per-day rate overrides take precedence over the flat daily rate.
func ComputeBookingTotal(eq *domain.Equipment, start, end time.Time, insurance domain.InsuranceType, depositCents int64) (BookingCostBreakdown, error) {
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		return BookingCostBreakdown{}, fmt.Errorf("end date must be after start date")
	}

	var subtotal int64
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		rate := eq.DailyRateCents
		if custom, ok := eq.CustomDayRates[d.Format("2006-01-02")]; ok {
			rate = custom
		}
		subtotal += rate
	}

	insPct, err := insurancePercent(insurance)
	if err != nil {
		return BookingCostBreakdown{}, err
	}

	fee := RoundPercent(subtotal, ServiceFeePercent)
	ins := RoundPercent(subtotal, insPct)

	return BookingCostBreakdown{
		Days:            days,
		SubtotalCents:   subtotal,
		ServiceFeeCents: fee,
		InsuranceCents:  ins,
		DepositCents:    depositCents,
		TotalCents:      subtotal + fee + ins + depositCents,
	}, nil
}

// ComputeRelease settles an escrow on completion. deductionCents is the
// resolved claim deduction (0 when no claim); it is floored at 0 and capped
// at the deposit, and whatever is deducted from the renter's deposit moves to
// the owner. ownerFeeSharePercent is the configured slice of the service fee
// the owner keeps.
func ComputeRelease(e *domain.EscrowPayment, deductionCents int64, ownerFeeSharePercent int64) ReleaseBreakdown {
	if deductionCents < 0 {
		deductionCents = 0
	}
	if deductionCents > e.DepositCents {
		deductionCents = e.DepositCents
	}
	depositReturned := e.DepositCents - deductionCents

	return ReleaseBreakdown{
		OwnerPayoutCents:     e.SubtotalCents + RoundPercent(e.ServiceFeeCents, ownerFeeSharePercent) + deductionCents,
		RenterRefundCents:    depositReturned,
		DepositReturnedCents: depositReturned,
		ClaimDeductionCents:  deductionCents,
	}
}
