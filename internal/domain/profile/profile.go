package profile

// Profile carries the per-session gamification counters: XP, daily streak,
// and how many cases were completed today.
type Profile struct {
	SessionID     string
	XP            int
	Streak        int
	LastStreakDay string // ISO date of the last streak increment
	CasesToday    int
}

// New returns a fresh profile for a session.
func New(sessionID string) *Profile {
	return &Profile{SessionID: sessionID}
}

// AddXP applies a (possibly negative) XP delta. XP never drops below zero.
func (p *Profile) AddXP(delta int) {
	p.XP += delta
	if p.XP < 0 {
		p.XP = 0
	}
}

// CasesCompletedToday returns today's completion count, treating a stale
// counter from a previous day as zero.
func (p *Profile) CasesCompletedToday(today string) int {
	if p.LastStreakDay != today {
		return 0
	}
	return p.CasesToday
}

// CompleteCase bumps the daily counters. The streak increases only once
// per calendar day, on the first completion.
func (p *Profile) CompleteCase(today string) {
	if p.LastStreakDay != today {
		p.Streak++
		p.LastStreakDay = today
		p.CasesToday = 1
		return
	}
	p.CasesToday++
}
