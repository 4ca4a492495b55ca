package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gearshare-backend/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func TestRoundPercent(t *testing.T) {
	t.Run("Half Rounds Up", func(t *testing.T) {
		// 5% of $0.50 is 2.5 cents.
		assert.Equal(t, int64(3), RoundPercent(50, 5))
	})

	t.Run("Below Half Rounds Down", func(t *testing.T) {
		// 5% of $0.49 is 2.45 cents.
		assert.Equal(t, int64(2), RoundPercent(49, 5))
	})

	t.Run("Exact Amounts Stay Exact", func(t *testing.T) {
		assert.Equal(t, int64(375), RoundPercent(7500, 5))
		assert.Equal(t, int64(0), RoundPercent(7500, 0))
	})
}

func TestComputeDeposit(t *testing.T) {
	t.Run("Fixed Amount Wins", func(t *testing.T) {
		eq := &domain.Equipment{DailyRateCents: 2500, DamageDepositCents: 5000, DamageDepositPercentage: 20}
		assert.Equal(t, int64(5000), ComputeDeposit(eq))
	})

	t.Run("Percentage Of Daily Rate", func(t *testing.T) {
		eq := &domain.Equipment{DailyRateCents: 2500, DamageDepositPercentage: 20}
		assert.Equal(t, int64(500), ComputeDeposit(eq))
	})

	t.Run("No Deposit Configured", func(t *testing.T) {
		eq := &domain.Equipment{DailyRateCents: 2500}
		assert.Equal(t, int64(0), ComputeDeposit(eq))
	})
}

func TestComputeBookingTotal(t *testing.T) {
	t.Run("Three Days With Basic Insurance", func(t *testing.T) {
		// $25/day for 3 days: subtotal $75, 5% fee $3.75, basic insurance $3.75.
		eq := &domain.Equipment{DailyRateCents: 2500}
		got, err := ComputeBookingTotal(eq, day("2024-06-01"), day("2024-06-04"), domain.InsuranceBasic, 0)
		assert.NoError(t, err)
		assert.Equal(t, 3, got.Days)
		assert.Equal(t, int64(7500), got.SubtotalCents)
		assert.Equal(t, int64(375), got.ServiceFeeCents)
		assert.Equal(t, int64(375), got.InsuranceCents)
		assert.Equal(t, int64(8250), got.TotalCents)
	})

	t.Run("Deposit Rides On Top Of The Total", func(t *testing.T) {
		eq := &domain.Equipment{DailyRateCents: 2500}
		got, err := ComputeBookingTotal(eq, day("2024-06-01"), day("2024-06-04"), domain.InsuranceBasic, 5000)
		assert.NoError(t, err)
		assert.Equal(t, int64(5000), got.DepositCents)
		assert.Equal(t, int64(13250), got.TotalCents)
	})

	t.Run("Custom Day Rates Override The Flat Rate", func(t *testing.T) {
		eq := &domain.Equipment{
			DailyRateCents: 2500,
			CustomDayRates: map[string]int64{"2024-06-02": 4000},
		}
		got, err := ComputeBookingTotal(eq, day("2024-06-01"), day("2024-06-04"), domain.InsuranceNone, 0)
		assert.NoError(t, err)
		assert.Equal(t, int64(2500+4000+2500), got.SubtotalCents)
		assert.Equal(t, int64(0), got.InsuranceCents)
	})

	t.Run("Premium Insurance Is Ten Percent", func(t *testing.T) {
		eq := &domain.Equipment{DailyRateCents: 2500}
		got, err := ComputeBookingTotal(eq, day("2024-06-01"), day("2024-06-04"), domain.InsurancePremium, 0)
		assert.NoError(t, err)
		assert.Equal(t, int64(750), got.InsuranceCents)
	})

	t.Run("Unknown Insurance Type Is Rejected", func(t *testing.T) {
		eq := &domain.Equipment{DailyRateCents: 2500}
		_, err := ComputeBookingTotal(eq, day("2024-06-01"), day("2024-06-04"), domain.InsuranceType("GOLD"), 0)
		assert.Error(t, err)
	})

	t.Run("Zero Day Range Is Rejected", func(t *testing.T) {
		eq := &domain.Equipment{DailyRateCents: 2500}
		_, err := ComputeBookingTotal(eq, day("2024-06-01"), day("2024-06-01"), domain.InsuranceNone, 0)
		assert.Error(t, err)
	})
}

func TestComputeRelease(t *testing.T) {
	escrow := func() *domain.EscrowPayment {
		return &domain.EscrowPayment{
			TotalCents:      13250,
			SubtotalCents:   7500,
			ServiceFeeCents: 375,
			InsuranceCents:  375,
			DepositCents:    5000,
		}
	}

	t.Run("No Claim Returns The Full Deposit", func(t *testing.T) {
		rel := ComputeRelease(escrow(), 0, 0)
		assert.Equal(t, int64(7500), rel.OwnerPayoutCents)
		assert.Equal(t, int64(5000), rel.RenterRefundCents)
		assert.Equal(t, int64(5000), rel.DepositReturnedCents)
		assert.Equal(t, int64(0), rel.ClaimDeductionCents)
	})

	t.Run("Deduction Moves From Deposit To Owner", func(t *testing.T) {
		rel := ComputeRelease(escrow(), 2000, 0)
		assert.Equal(t, int64(9500), rel.OwnerPayoutCents)
		assert.Equal(t, int64(3000), rel.RenterRefundCents)
		// Deposit conservation: returned plus deducted equals the deposit.
		assert.Equal(t, escrow().DepositCents, rel.DepositReturnedCents+rel.ClaimDeductionCents)
	})

	t.Run("Deduction Is Capped At The Deposit", func(t *testing.T) {
		rel := ComputeRelease(escrow(), 99999, 0)
		assert.Equal(t, int64(5000), rel.ClaimDeductionCents)
		assert.Equal(t, int64(0), rel.RenterRefundCents)
		assert.Equal(t, int64(12500), rel.OwnerPayoutCents)
	})

	t.Run("Negative Deduction Is Floored At Zero", func(t *testing.T) {
		rel := ComputeRelease(escrow(), -100, 0)
		assert.Equal(t, int64(0), rel.ClaimDeductionCents)
		assert.Equal(t, int64(5000), rel.RenterRefundCents)
	})

	t.Run("Owner Fee Share Adds A Fee Slice", func(t *testing.T) {
		rel := ComputeRelease(escrow(), 0, 100)
		assert.Equal(t, int64(7500+375), rel.OwnerPayoutCents)
	})
}
