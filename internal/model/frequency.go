package model

// Frequency classifies how often a group's transactions recur.
type Frequency string

const (
	FreqDaily       Frequency = "daily"
	FreqWeekly      Frequency = "weekly"
	FreqSemiMonthly Frequency = "semi-monthly"
	FreqMonthly     Frequency = "monthly"
	FreqQuarterly   Frequency = "quarterly"
	FreqUncommon    Frequency = "uncommon"
	FreqVaries      Frequency = "varies"
)

// FrequencyOption is one row of the read-only frequency reference table.
// Multiplier is the nominal occurrences per month, used for display only;
// forecast timing uses the calendar rules in the forecast package.
type FrequencyOption struct {
	ID         Frequency `json:"id"`
	Name       string    `json:"name"`
	Multiplier float64   `json:"multiplier"`
}

var frequencyOptions = []FrequencyOption{
	{FreqDaily, "Daily (most business days)", 22},
	{FreqWeekly, "Weekly", 4.33},
	{FreqSemiMonthly, "Twice per Month", 2},
	{FreqMonthly, "Monthly", 1},
	{FreqQuarterly, "Quarterly", 0.33},
	{FreqUncommon, "Uncommon / One-time", 0},
	{FreqVaries, "Varies", 1},
}

// FrequencyOptions returns the fixed frequency reference table.
func FrequencyOptions() []FrequencyOption {
	out := make([]FrequencyOption, len(frequencyOptions))
	copy(out, frequencyOptions)
	return out
}

// ValidFrequency reports whether f is one of the defined frequencies.
func ValidFrequency(f Frequency) bool {
	for _, opt := range frequencyOptions {
		if opt.ID == f {
			return true
		}
	}
	return false
}
