package export

import (
	"fmt"
	"math"
	"time"

	"github.com/teambition/rrule-go"

	"cfcal/internal/period"
	"cfcal/internal/timeerr"
	"cfcal/internal/timevec"
)

var slotFreq = [timevec.Slots]rrule.Frequency{
	rrule.YEARLY, rrule.MONTHLY, rrule.DAILY,
	rrule.HOURLY, rrule.MINUTELY, rrule.SECONDLY,
}

var freqNames = [timevec.Slots]string{
	"YEARLY", "MONTHLY", "DAILY", "HOURLY", "MINUTELY", "SECONDLY",
}

// stepSlot resolves the step to its single non-zero slot. Mixed-unit or
// fractional steps have no RRULE equivalent.
func stepSlot(step timevec.Duration) (int, int, error) {
	slot := -1
	for i := 0; i < timevec.Slots; i++ {
		v := step.At(i)
		if v == 0 {
			continue
		}
		if slot >= 0 {
			return 0, 0, timeerr.Wrap(timeerr.ErrUnsupportedOperation,
				"mixed-unit step has no recurrence rule")
		}
		if _, frac := math.Modf(v); frac != 0 || v < 0 {
			return 0, 0, timeerr.Wrapf(timeerr.ErrUnsupportedOperation,
				"step of %g %s has no recurrence rule", v, timevec.SlotNames[i])
		}
		slot = i
	}
	if slot < 0 {
		return 0, 0, timeerr.Wrap(timeerr.ErrNonProgressingStep,
			"zero step has no recurrence rule")
	}
	return slot, int(step.At(slot)), nil
}

// RRule maps a single-unit step onto its RFC 5545 recurrence rule.
func RRule(step timevec.Duration) (string, error) {
	slot, interval, err := stepSlot(step)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("FREQ=%s;INTERVAL=%d", freqNames[slot], interval), nil
}

// Occurrences expands the period and step through the recurrence engine and
// returns the civil instants, the same series a downstream calendar client
// would reconstruct from RecurringICS output.
func Occurrences(p period.Period, step timevec.Duration) ([]time.Time, error) {
	if err := checkExportable(p.Calendar()); err != nil {
		return nil, err
	}
	slot, interval, err := stepSlot(step)
	if err != nil {
		return nil, err
	}
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:     slotFreq[slot],
		Interval: interval,
		Dtstart:  civilTime(p.Initial()),
		Until:    civilTime(p.Final()),
	})
	if err != nil {
		return nil, err
	}
	all := r.All()
	if p.LeftOpen && len(all) > 0 && all[0].Equal(civilTime(p.Initial())) {
		all = all[1:]
	}
	if p.RightOpen && len(all) > 0 && all[len(all)-1].Equal(civilTime(p.Final())) {
		all = all[:len(all)-1]
	}
	return all, nil
}
