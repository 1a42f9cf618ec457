package utils

import (
	"fmt"
	"time"

	"farmrent-backend/internal/domain"
)

const (
	daysPerWeek  = 7
	daysPerMonth = 30 // fixed unit, not calendar months
)

// CalculateRentalCost prices an inclusive date range against a rate card.
//
// Tiers are consumed coarsest first: whole 30-day months while the monthly
// rate beats 30 daily rates, then whole weeks while the weekly rate beats 7
// daily rates, then single days. A leftover that would cost more than one
// unit of the next enabled coarser tier is billed as that unit instead, which
// keeps the price non-decreasing in duration.
func CalculateRentalCost(startDate, endDate time.Time, rates domain.RateCard) (domain.PriceBreakdown, error) {
	days := domain.DateRange{Start: Day(startDate), End: Day(endDate)}.Days()
	if days <= 0 {
		return domain.PriceBreakdown{}, fmt.Errorf("%w: duration is %d days", domain.ErrInvalidDateRange, days)
	}
	if rates.DailyRateCents <= 0 {
		return domain.PriceBreakdown{}, fmt.Errorf("%w: daily rate must be positive", domain.ErrInvalidArgument)
	}

	monthly := rates.MonthlyRateCents > 0 && rates.MonthlyRateCents < daysPerMonth*rates.DailyRateCents
	weekly := rates.WeeklyRateCents > 0 && rates.WeeklyRateCents < daysPerWeek*rates.DailyRateCents

	var months, weeks, rest int64
	rest = int64(days)
	if monthly {
		months = rest / daysPerMonth
		rest %= daysPerMonth
	}
	if weekly {
		weeks = rest / daysPerWeek
		rest %= daysPerWeek
		if rest*rates.DailyRateCents > rates.WeeklyRateCents {
			weeks++
			rest = 0
		}
	}
	if monthly && weeks*rates.WeeklyRateCents+rest*rates.DailyRateCents > rates.MonthlyRateCents {
		months++
		weeks, rest = 0, 0
	}

	b := domain.PriceBreakdown{
		Months:               int32(months),
		Weeks:                int32(weeks),
		Days:                 int32(rest),
		MonthsCostCents:      months * rates.MonthlyRateCents,
		WeeksCostCents:       weeks * rates.WeeklyRateCents,
		DaysCostCents:        rest * rates.DailyRateCents,
		DeliveryFeeCents:     rates.DeliveryFeeCents,
		SecurityDepositCents: rates.SecurityDepositCents,
	}
	b.RentalCostCents = b.MonthsCostCents + b.WeeksCostCents + b.DaysCostCents
	b.TotalCents = b.RentalCostCents + b.DeliveryFeeCents
	return b, nil
}
