// Package wallet models the lifecycle of a connection to a user's wallet
// as an explicit state machine. Every transition is driven by a method
// call, so callers can always observe which of the four states the session
// is in rather than inferring it from nullable fields.
package wallet

import (
	"context"
	"crypto/ed25519"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// State is the connection state of a Session.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateDisconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnecting:
		return "disconnecting"
	default:
		return "invalid"
	}
}

// ErrInvalidTransition indicates a session method was called from a state
// it is not valid in, for example connecting an already connected session.
var ErrInvalidTransition = errors.New("invalid session state transition")

// Identity is the wallet identity established by a successful connection.
type Identity struct {
	PublicKey ed25519.PublicKey
	Label     string
}

// Connector performs the actual wallet handshake. Implementations return
// *Error values so failures carry a typed kind.
type Connector interface {
	Connect(ctx context.Context) (Identity, error)
	Disconnect(ctx context.Context) error
}

// Session tracks the connection lifecycle over a Connector. It is safe for
// concurrent use; only one transition runs at a time.
type Session struct {
	log       *logrus.Entry
	connector Connector

	mu       sync.Mutex
	state    State
	identity Identity
}

func NewSession(connector Connector) *Session {
	return &Session{
		log:       logrus.StandardLogger().WithField("type", "wallet/session"),
		connector: connector,
	}
}

// State returns the session's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Identity returns the connected identity. The bool is false in any state
// other than StateConnected.
func (s *Session) Identity() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConnected {
		return Identity{}, false
	}
	return s.identity, true
}

// Connect performs the wallet handshake. It is only valid from
// StateDisconnected; the session is observable as StateConnecting for the
// duration of the handshake, and returns to StateDisconnected if the
// handshake fails.
func (s *Session) Connect(ctx context.Context) (Identity, error) {
	s.mu.Lock()
	if s.state != StateDisconnected {
		state := s.state
		s.mu.Unlock()
		return Identity{}, errors.Wrapf(ErrInvalidTransition, "cannot connect from %s", state)
	}
	s.state = StateConnecting
	s.mu.Unlock()

	identity, err := s.connector.Connect(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateDisconnected
		s.log.WithError(err).WithField("kind", Classify(err)).Debug("wallet connect failed")
		return Identity{}, err
	}

	s.state = StateConnected
	s.identity = identity
	return identity, nil
}

// Disconnect tears the connection down. It is only valid from
// StateConnected. The session always ends up StateDisconnected, even if the
// connector's teardown fails.
func (s *Session) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateConnected {
		state := s.state
		s.mu.Unlock()
		return errors.Wrapf(ErrInvalidTransition, "cannot disconnect from %s", state)
	}
	s.state = StateDisconnecting
	s.mu.Unlock()

	err := s.connector.Disconnect(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateDisconnected
	s.identity = Identity{}

	return err
}
