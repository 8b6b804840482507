// Package dao provides data access objects for use in the mata server.
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds all the repositories used by the server.
type Store interface {
	Automata() AutomatonRepository
	Close() error
}

// Automaton is the persisted form of an automaton: its Mata text
// representation plus the bookkeeping fields the server needs to serve it
// back out and list it.
type Automaton struct {
	ID      uuid.UUID
	Name    string
	Kind    string // "nfa" or "nft"
	Text    string // canonical Mata text representation
	Created time.Time
	Updated time.Time
}

// AutomatonRepository stores and retrieves persisted automata.
type AutomatonRepository interface {
	Create(ctx context.Context, a Automaton) (Automaton, error)
	GetByID(ctx context.Context, id uuid.UUID) (Automaton, error)
	GetAll(ctx context.Context) ([]Automaton, error)
	Update(ctx context.Context, id uuid.UUID, a Automaton) (Automaton, error)
	Delete(ctx context.Context, id uuid.UUID) (Automaton, error)
	Close() error
}
