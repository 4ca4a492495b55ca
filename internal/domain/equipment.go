package domain

import "time"

type InsuranceType string

const (
	InsuranceNone    InsuranceType = "NONE"
	InsuranceBasic   InsuranceType = "BASIC"
	InsurancePremium InsuranceType = "PREMIUM"
)

// Equipment is read-only to this core: listing CRUD lives elsewhere. The
// fields here are the pricing and claim-window inputs the booking flow needs.
type Equipment struct {
	ID                       int64  `json:"id"`
	OwnerID                  int64  `json:"owner_id"`
	Name                     string `json:"name"`
	DailyRateCents           int64  `json:"daily_rate_cents"`
	// CustomDayRates overrides the flat daily rate for specific dates,
	// keyed by yyyy-mm-dd.
	CustomDayRates           map[string]int64 `json:"custom_day_rates,omitempty"`
	DamageDepositCents       int64            `json:"damage_deposit_cents"`        // fixed deposit, takes precedence when set
	DamageDepositPercentage  int64            `json:"damage_deposit_percentage"`   // fallback: % of daily rate
	DepositRefundTimelineHrs int              `json:"deposit_refund_timeline_hours"`
	CreatedAt                time.Time        `json:"created_at"`
	UpdatedAt                time.Time        `json:"updated_at"`
}

// DefaultClaimWindowHours applies when equipment does not configure its own
// deposit refund timeline.
const DefaultClaimWindowHours = 48

// ClaimWindowHours returns the configured claim window, falling back to the
// 48h default.
func (e *Equipment) ClaimWindowHours() int {
	if e.DepositRefundTimelineHrs > 0 {
		return e.DepositRefundTimelineHrs
	}
	return DefaultClaimWindowHours
}
