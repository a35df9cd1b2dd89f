package tui

import (
	"riskwatch/internal/api"
	"riskwatch/internal/predict"
	"riskwatch/internal/stats"
)

// Completion messages for async work. Each carries the request
// generation it belongs to; the update loop drops messages from a
// generation that has since been cancelled or superseded.

type loggedInMsg struct {
	Err error
}

type registeredMsg struct {
	Message string
	Err     error
}

type rosterLoadedMsg struct {
	Gen int
	Err error
}

type predictionsMsg struct {
	Gen    int
	Result predict.BatchResult
}

type predictedMsg struct {
	Gen        int
	StudentID  int
	Prediction api.Prediction
	TrackErr   error
	Err        error
}

type statsMsg struct {
	Gen      int
	Overview stats.Overview
	Err      error
}

type studentSavedMsg struct {
	Gen     int
	Editing bool
	Err     error
}

type studentDeletedMsg struct {
	Gen int
	Err error
}

type interventionsMsg struct {
	Gen       int
	StudentID int
	Items     []api.Intervention
	Err       error
}

type completedMsg struct {
	Gen int
	Err error
}
