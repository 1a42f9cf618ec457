package domain

import "time"

// RateCard is the pricing snapshot of a piece of equipment. A zero tier rate
// means the tier is not offered.
type RateCard struct {
	DailyRateCents       int64 `json:"daily_rate_cents"`
	WeeklyRateCents      int64 `json:"weekly_rate_cents"`
	MonthlyRateCents     int64 `json:"monthly_rate_cents"`
	DeliveryFeeCents     int64 `json:"delivery_fee_cents"`
	SecurityDepositCents int64 `json:"security_deposit_cents"`
}

type Equipment struct {
	ID                   int64     `json:"id"`
	OwnerID              int64     `json:"owner_id"`
	Name                 string    `json:"name"`
	DailyRateCents       int64     `json:"daily_rate_cents"`
	WeeklyRateCents      int64     `json:"weekly_rate_cents"`
	MonthlyRateCents     int64     `json:"monthly_rate_cents"`
	DeliveryFeeCents     int64     `json:"delivery_fee_cents"`
	SecurityDepositCents int64     `json:"security_deposit_cents"`
	Listed               bool      `json:"listed"` // soft "is listed" toggle, independent of reservations
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (e *Equipment) Rates() RateCard {
	return RateCard{
		DailyRateCents:       e.DailyRateCents,
		WeeklyRateCents:      e.WeeklyRateCents,
		MonthlyRateCents:     e.MonthlyRateCents,
		DeliveryFeeCents:     e.DeliveryFeeCents,
		SecurityDepositCents: e.SecurityDepositCents,
	}
}
