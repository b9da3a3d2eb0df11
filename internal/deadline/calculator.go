// Package deadline computes USPTO office-action response deadlines and
// extension fees.  Statutory response periods run in calendar months from the
// office action mailing date; a due date landing on a weekend or federal
// holiday rolls forward to the next business day.
package deadline

import (
	"time"

	"github.com/adsforge/adsforge/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Value objects
// ─────────────────────────────────────────────────────────────────────────────

// EntitySize selects the fee schedule column.
type EntitySize string

const (
	EntityLarge EntitySize = "large"
	EntitySmall EntitySize = "small"
	EntityMicro EntitySize = "micro"
)

// ExtensionFee is the cost of one extension tier for each entity size, in US
// dollars.  Tier 0 is the statutory period itself and costs nothing; tiers
// 1-5 are the monthly extensions under 37 CFR 1.136(a).
type ExtensionFee struct {
	Months int `json:"months"`
	Large  int `json:"large"`
	Small  int `json:"small"`
	Micro  int `json:"micro"`
}

// feeSchedule mirrors the USPTO fee schedule for extensions of time.
var feeSchedule = []ExtensionFee{
	{Months: 0, Large: 0, Small: 0, Micro: 0},
	{Months: 1, Large: 220, Small: 88, Micro: 44},
	{Months: 2, Large: 640, Small: 256, Micro: 128},
	{Months: 3, Large: 1480, Small: 592, Micro: 296},
	{Months: 4, Large: 2320, Small: 928, Micro: 464},
	{Months: 5, Large: 3160, Small: 1264, Micro: 632},
}

// MaxExtensionMonths is the statutory maximum extension under 1.136(a).
const MaxExtensionMonths = 5

// Result carries the computed deadline and the extension options beyond it.
type Result struct {
	MailingDate   time.Time `json:"mailing_date"`
	PeriodMonths  int       `json:"period_months"`
	StatutoryDue  time.Time `json:"statutory_due"`  // before business-day roll
	Due           time.Time `json:"due"`            // after business-day roll
	Extensions    []Option  `json:"extensions"`     // tiers 1..5
	FinalDeadline time.Time `json:"final_deadline"` // due + max extension, rolled
}

// Option is one available extension tier.
type Option struct {
	Months int       `json:"months"`
	Due    time.Time `json:"due"`
	Fee    int       `json:"fee_usd"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Calculator
// ─────────────────────────────────────────────────────────────────────────────

// Calculator computes response deadlines.  It is stateless and safe for
// concurrent use.
type Calculator struct {
	entitySize EntitySize
}

// NewCalculator constructs a Calculator for the given entity size.
func NewCalculator(size EntitySize) *Calculator {
	if size == "" {
		size = EntityLarge
	}
	return &Calculator{entitySize: size}
}

// Calculate computes the response deadline for an office action mailed on
// mailingDate with a shortened statutory period of periodMonths (typically
// 1, 2, or 3 months).
func (c *Calculator) Calculate(mailingDate time.Time, periodMonths int) (*Result, error) {
	if mailingDate.IsZero() {
		return nil, errors.New(errors.ErrCodeDeadlineInvalidPeriod, "mailing date is required")
	}
	if periodMonths < 1 || periodMonths > 6 {
		return nil, errors.New(errors.ErrCodeDeadlineInvalidPeriod, "statutory period must be 1-6 months")
	}

	statutory := addMonths(mailingDate, periodMonths)
	due := RollToBusinessDay(statutory)

	res := &Result{
		MailingDate:  mailingDate,
		PeriodMonths: periodMonths,
		StatutoryDue: statutory,
		Due:          due,
	}

	for tier := 1; tier <= MaxExtensionMonths; tier++ {
		extDue := RollToBusinessDay(addMonths(statutory, tier))
		res.Extensions = append(res.Extensions, Option{
			Months: tier,
			Due:    extDue,
			Fee:    c.FeeFor(tier),
		})
	}
	res.FinalDeadline = res.Extensions[len(res.Extensions)-1].Due
	return res, nil
}

// FeeFor returns the extension fee for the given tier and the calculator's
// entity size.  Tier 0 is free; tiers outside the schedule return the top
// tier's fee.
func (c *Calculator) FeeFor(months int) int {
	if months < 0 {
		return 0
	}
	if months >= len(feeSchedule) {
		months = len(feeSchedule) - 1
	}
	fee := feeSchedule[months]
	switch c.entitySize {
	case EntitySmall:
		return fee.Small
	case EntityMicro:
		return fee.Micro
	default:
		return fee.Large
	}
}

// addMonths advances by calendar months the way 37 CFR 1.7 counts them: the
// same day-of-month N months later, clamped to the last day of the target
// month when the source day does not exist there (Jan 31 + 1 month = Feb 28/29).
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	target := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	last := lastDayOfMonth(target.Year(), target.Month())
	if day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// RollToBusinessDay moves a date falling on a weekend or federal holiday to
// the next business day, per 37 CFR 1.7(a).
func RollToBusinessDay(t time.Time) time.Time {
	for isWeekend(t) || IsFederalHoliday(t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
