package domain

import "time"

// Event is the normalized reminder view of an activity, merged from the
// one-off and fixed feeds into a single shape.
type Event struct {
	ID     string
	Member string
	Text   string
	Fixed  bool

	// OccursAt holds a one-off activity's stored occurrence. Zero for fixed
	// activities, whose occurrence depends on the evaluation day.
	OccursAt time.Time

	// Hour and Minute hold a fixed activity's time of day.
	Hour   int
	Minute int
}

// MergeEvents combines the two activity snapshots into one normalized
// sequence. Pure function of its inputs; fixed activities without a parsable
// time of day are skipped since they can never produce a reminder.
func MergeEvents(activities []Activity, fixed []FixedActivity) []Event {
	events := make([]Event, 0, len(activities)+len(fixed))
	for _, a := range activities {
		events = append(events, Event{
			ID:       a.ID,
			Member:   a.Member,
			Text:     a.Text,
			OccursAt: a.Date,
		})
	}
	for _, f := range fixed {
		hour, minute, ok := parseTimeOfDay(f.Time)
		if !ok {
			continue
		}
		events = append(events, Event{
			ID:     f.ID,
			Member: f.Member,
			Text:   f.Text,
			Fixed:  true,
			Hour:   hour,
			Minute: minute,
		})
	}
	return events
}

// OccurrenceOn resolves the event's concrete occurrence for the given day.
// One-off events keep their stored timestamp regardless of day; fixed events
// recur at Hour:Minute on every calendar day, in day's location. The fixed
// case must be resolved against the current day on every evaluation, since
// its date component changes at midnight.
func (e Event) OccurrenceOn(day time.Time) time.Time {
	if !e.Fixed {
		return e.OccursAt
	}
	return time.Date(day.Year(), day.Month(), day.Day(), e.Hour, e.Minute, 0, 0, day.Location())
}

// NotifyKey derives the dedup identity for the event's occurrence on the
// given day. A one-off occurs once, so its id suffices; a fixed event gets a
// fresh key each day so it can notify again tomorrow.
func (e Event) NotifyKey(day time.Time) string {
	if !e.Fixed {
		return e.ID
	}
	return e.ID + "-" + DateKey(day)
}

func parseTimeOfDay(s string) (hour, minute int, ok bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}
