package model

import "strings"

// Frequency types. Exactly one of the auxiliary fields (CustomDays,
// WeeklyDay, AfterChoreID, Cron) is meaningful per chore, selected by
// FrequencyType.
const (
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
	FreqCustom  = "custom"
	FreqAfter   = "after"
	FreqCron    = "cron"
)

// Chore is the persisted chore record. The JSON field names are the storage
// schema of the original chores.json and must round-trip exactly for the
// admin UI.
type Chore struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
	Spawn       bool    `json:"spawn"`

	FrequencyType string   `json:"frequencyType"`
	CustomDays    int      `json:"customDays,omitempty"`
	WeeklyDay     *int     `json:"weeklyDay,omitempty"` // 0=Sunday .. 6=Saturday
	AfterChoreID  string   `json:"afterChoreId,omitempty"`
	Cron          string   `json:"cron,omitempty"`

	// CronSpawnedDate is the day-scoped latch: set to today's date when the
	// cron expression fired, cleared once the date rolls over.
	CronSpawnedDate string `json:"cronSpawnedDate"`

	InPool        bool     `json:"inPool"`
	AssignedTo    string   `json:"assignedTo"`
	Undesirable   bool     `json:"undesirable,omitempty"`
	EligibleUsers []string `json:"eligibleUsers,omitempty"`
	AfterDinner   bool     `json:"afterDinner,omitempty"`

	// Claim state: a same-day reservation of a pool chore. A claim with
	// ClaimedDate != today is stale and gets reverted on the next read.
	Claimed     bool   `json:"claimed,omitempty"`
	ClaimedDate string `json:"claimedDate,omitempty"`

	LastMarkedDate string `json:"lastMarkedDate"`
	LastMarkedBy   string `json:"lastMarkedBy"`
	TimesMarkedOff int    `json:"timesMarkedOff"`
}

// Freq returns the normalized frequency type, defaulting to daily when the
// field is empty (legacy records).
func (c *Chore) Freq() string {
	f := strings.ToLower(strings.TrimSpace(c.FrequencyType))
	if f == "" {
		return FreqDaily
	}
	return f
}

// DoneOn reports whether the chore was completed on the given date string.
func (c *Chore) DoneOn(dateStr string) bool {
	return c.LastMarkedDate != "" && c.LastMarkedDate == dateStr
}

// MarkedByUsers splits LastMarkedBy into the list of users who completed the
// chore last, lowercased and trimmed. "skipped" entries are returned as-is;
// callers that care filter them.
func (c *Chore) MarkedByUsers() []string {
	if c.LastMarkedBy == "" {
		return nil
	}
	parts := strings.Split(c.LastMarkedBy, ",")
	users := make([]string, 0, len(parts))
	for _, p := range parts {
		if u := strings.ToLower(strings.TrimSpace(p)); u != "" {
			users = append(users, u)
		}
	}
	return users
}

// UndoSnapshot holds the pre-completion values restored by an undo. At most
// one snapshot exists per chore; the next completion overwrites it.
type UndoSnapshot struct {
	ChoreID        string `json:"choreId"`
	LastMarkedDate string `json:"lastMarkedDate"`
	LastMarkedBy   string `json:"lastMarkedBy"`
	TimesMarkedOff int    `json:"timesMarkedOff"`
}
