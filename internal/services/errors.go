package services

import "errors"

// Dashboard service errors
var (
	ErrUnknownTab    = errors.New("unknown tab")
	ErrUnknownSeries = errors.New("unknown series")
	ErrUnknownChart  = errors.New("unknown chart")

	// ErrNoDataset is returned by constructors given a nil dataset
	ErrNoDataset = errors.New("no dataset loaded")
)
