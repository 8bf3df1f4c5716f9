// Package bookmaker provides clients for placing bets with bookmakers.
package bookmaker

import "fmt"

// APIError represents an error returned by a bookmaker API
type APIError struct {
	Bookmaker string
	Message   string
	Status    int
	Cause     error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %s (status: %d)", e.Bookmaker, e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// AuthenticationError represents an authentication failure
type AuthenticationError struct {
	Bookmaker string
	Message   string
	Cause     error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s authentication error: %s", e.Bookmaker, e.Message)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Cause
}

// GameNotFoundError represents a fixture the bookmaker does not price
type GameNotFoundError struct {
	Bookmaker string
	HomeTeam  string
	AwayTeam  string
}

func (e *GameNotFoundError) Error() string {
	return fmt.Sprintf("%s has no market for %s v %s", e.Bookmaker, e.HomeTeam, e.AwayTeam)
}

// PlacementError represents a rejected bet placement
type PlacementError struct {
	Bookmaker string
	GameRef   string
	Message   string
	Cause     error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("%s rejected bet on %s: %s", e.Bookmaker, e.GameRef, e.Message)
}

func (e *PlacementError) Unwrap() error {
	return e.Cause
}

// NewAPIError creates a new bookmaker API error
func NewAPIError(bookmaker, message string, status int, cause error) *APIError {
	return &APIError{Bookmaker: bookmaker, Message: message, Status: status, Cause: cause}
}

// NewAuthenticationError creates a new authentication error
func NewAuthenticationError(bookmaker, message string, cause error) *AuthenticationError {
	return &AuthenticationError{Bookmaker: bookmaker, Message: message, Cause: cause}
}

// NewPlacementError creates a new placement error
func NewPlacementError(bookmaker, gameRef, message string, cause error) *PlacementError {
	return &PlacementError{Bookmaker: bookmaker, GameRef: gameRef, Message: message, Cause: cause}
}
