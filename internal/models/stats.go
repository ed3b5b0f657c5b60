package models

type CardStat struct {
	TotalCards      int     `json:"total_cards" db:"total_cards"`
	CardsDue        int     `json:"cards_due" db:"cards_due"`
	CardsDueSoon    int     `json:"cards_due_soon" db:"cards_due_soon"`
	CardsMastered   int     `json:"cards_mastered" db:"cards_mastered"`
	CardsStruggling int     `json:"cards_struggling" db:"cards_struggling"`
	NewCards        int     `json:"new_cards" db:"new_cards"`
	TotalSuccess    int     `json:"total_success" db:"total_success"`
	TotalFail       int     `json:"total_fail" db:"total_fail"`
	Accuracy        float64 `json:"accuracy" db:"accuracy"`
	AvgEase         float64 `json:"avg_ease" db:"avg_ease"`
	AvgIntervalDays float64 `json:"avg_interval_days" db:"avg_interval_days"`
}

type GradeStat struct {
	Grade          string  `json:"grade" db:"grade"`
	Count          int     `json:"count" db:"count"`
	AvgTimeSeconds float64 `json:"avg_time_seconds" db:"avg_time_seconds"`
}

type StudentStats struct {
	Cards  *CardStat   `json:"cards"`
	Grades []GradeStat `json:"grades"`
}

// ImportResult summarises a vocabulary import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
