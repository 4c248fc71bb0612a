// Package model defines shared data structures.
package model

import "time"

// Config defines trial settings.
type Config struct {
	WordListPath string
	Duration     int
	RevealDelay  time.Duration
	ASCIIOnly    bool
	LogLevel     string
	LogPath      string
}

// Result captures a finished typing trial.
type Result struct {
	TrialID        string
	StartedAt      time.Time
	EndedAt        time.Time
	CorrectWords   int
	IncorrectWords int
	TotalWords     int
	CorrectChars   int
	WPM            float64
	CPM            float64
	Accuracy       float64
}
