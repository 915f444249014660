package services

import "fmt"

// Service errors
var (
	ErrNoInputSource = &ServiceError{Message: "no input source configured - start with registrant and league files to enable re-runs"}
	ErrInvalidSeed   = &ServiceError{Message: "seed must be a non-negative integer"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// LeagueNotFoundError reports a league id missing from a stored run
type LeagueNotFoundError struct {
	RunID    string
	LeagueID int
}

func (e *LeagueNotFoundError) Error() string {
	return fmt.Sprintf("league %d not found in run %s", e.LeagueID, e.RunID)
}
