package store

import (
	"sort"
	"time"
)

// AddCountdown appends a new countdown, filling in id and creation time.
func (s *Store) AddCountdown(c Countdown) (Countdown, error) {
	c.ID = newID()
	c.CreatedAt = time.Now()
	if c.Repeat == "" {
		c.Repeat = RepeatNone
	}
	err := s.mutate(func(st *AppState) bool {
		st.Countdowns = append(st.Countdowns, c)
		return true
	})
	return c, err
}

// ArchiveCountdown marks a countdown archived. Only expired, non-count-up
// records are eligible; anything else is a no-op, as is an unknown id.
func (s *Store) ArchiveCountdown(id string, now time.Time) error {
	return s.mutate(func(st *AppState) bool {
		for i := range st.Countdowns {
			c := &st.Countdowns[i]
			if c.ID != id || c.Archived || c.CountUp {
				continue
			}
			res, err := Resolve(*c, now)
			if err != nil || !res.Past {
				return false
			}
			c.Archived = true
			return true
		}
		return false
	})
}

// DeleteCountdown hard-deletes a countdown. Unknown ids are a no-op.
func (s *Store) DeleteCountdown(id string) error {
	return s.mutate(func(st *AppState) bool {
		for i, c := range st.Countdowns {
			if c.ID == id {
				st.Countdowns = append(st.Countdowns[:i], st.Countdowns[i+1:]...)
				return true
			}
		}
		return false
	})
}

// SortCountdowns orders records by effective target ascending. Records whose
// target cannot be resolved sort to the end so temporal displays can skip
// them without crashing.
func SortCountdowns(cs []Countdown, now time.Time) []Countdown {
	out := append([]Countdown(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, erri := Resolve(out[i], now)
		rj, errj := Resolve(out[j], now)
		if erri != nil {
			return false
		}
		if errj != nil {
			return true
		}
		return ri.Target.Before(rj.Target)
	})
	return out
}

// Reminder is a due-soon line for a countdown target or todo deadline.
type Reminder struct {
	Title    string
	DaysLeft int // 0 = today, 1 = tomorrow
	Deadline bool
}

// UpcomingReminders lists countdowns whose effective target, and incomplete
// todos whose deadline, fall today or tomorrow. A target earlier today still
// counts as due today even though the instant has passed.
func (s *Store) UpcomingReminders(now time.Time) []Reminder {
	snap := s.Snapshot()
	var out []Reminder
	for _, c := range snap.Countdowns {
		if c.Archived || c.CountUp {
			continue
		}
		res, err := Resolve(c, now)
		if err != nil {
			continue
		}
		if d := calendarDaysUntil(now, res.Target); d == 0 || d == 1 {
			out = append(out, Reminder{Title: c.Title, DaysLeft: d})
		}
	}
	for _, t := range snap.Todos {
		if t.Completed || t.Deadline == "" {
			continue
		}
		due, err := parseTarget(t.Deadline, now.Location())
		if err != nil {
			continue
		}
		if d := calendarDaysUntil(now, due); d == 0 || d == 1 {
			out = append(out, Reminder{Title: t.Title, DaysLeft: d, Deadline: true})
		}
	}
	return out
}

// calendarDaysUntil counts whole calendar days between now's day and the
// target's day in local time. 0 means today, 1 tomorrow, negative already
// past; the time of day on either side does not matter.
func calendarDaysUntil(now, target time.Time) int {
	y, m, d := now.Date()
	nowDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	y, m, d = target.In(now.Location()).Date()
	targetDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return int(targetDay.Sub(nowDay).Round(24*time.Hour) / (24 * time.Hour))
}
