package hawsclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	msgTypeAuthRequired = "auth_required"
	msgTypeAuth         = "auth"
	msgTypeAuthOK       = "auth_ok"
	msgTypeAuthInvalid  = "auth_invalid"
	msgTypeResult       = "result"
	msgTypeGetStates    = "get_states"
)

type authMessage struct {
	Type        string `json:"type"`
	AccessToken string `json:"access_token"`
}

type commandMessage struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type resultError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// envelope covers all message shapes received from the server.
type envelope struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Success   bool            `json:"success"`
	Error     *resultError    `json:"error"`
	Result    json.RawMessage `json:"result"`
	Message   string          `json:"message"`
	HAVersion string          `json:"ha_version"`
}

var (
	// ErrEntityNotFound is returned when a state lookup finds no entity
	// with the wanted ID.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrStateUnavailable is returned for entities whose state is
	// "unknown" or "unavailable", typically while the server is still
	// starting up.
	ErrStateUnavailable = errors.New("entity state unknown or unavailable")
)

// State is the condition of a single entity as reported by the server.
type State struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastUpdated time.Time      `json:"last_updated"`
}

// Float parses the state as a numeric sensor value.
func (s *State) Float() (float64, error) {
	switch s.State {
	case "", "unknown", "unavailable":
		return 0, fmt.Errorf("%w: %s", ErrStateUnavailable, s.EntityID)
	}

	value, err := strconv.ParseFloat(s.State, 64)
	if err != nil {
		return 0, fmt.Errorf("entity %s has non-numeric state %q: %w",
			s.EntityID, s.State, err)
	}

	return value, nil
}

// States is the full set of entity states returned by a single request.
type States []State

// Find returns the state with the given entity ID.
func (s States) Find(entityID string) (*State, error) {
	for i := range s {
		if s[i].EntityID == entityID {
			return &s[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
}
