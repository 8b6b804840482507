// Package inmem provides in-memory implementations of the dao repository
// interfaces, for use in testing and in deployments that do not need
// persistence across restarts.
package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dekarrin/mata/server/dao"
	"github.com/google/uuid"
)

// NewDatastore returns a dao.Store backed entirely by in-process maps. Its
// contents do not survive process restart.
func NewDatastore() dao.Store {
	return &store{automata: NewAutomataRepository()}
}

type store struct {
	automata *AutomataRepository
}

func (s *store) Automata() dao.AutomatonRepository { return s.automata }
func (s *store) Close() error                      { return nil }

// NewAutomataRepository returns an empty, ready-to-use in-memory
// AutomatonRepository.
func NewAutomataRepository() *AutomataRepository {
	return &AutomataRepository{automata: make(map[uuid.UUID]dao.Automaton)}
}

// AutomataRepository is an in-memory dao.AutomatonRepository.
type AutomataRepository struct {
	automata map[uuid.UUID]dao.Automaton
}

func (r *AutomataRepository) Close() error { return nil }

func (r *AutomataRepository) Create(ctx context.Context, a dao.Automaton) (dao.Automaton, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Automaton{}, fmt.Errorf("could not generate ID: %w", err)
	}

	if _, ok := r.automata[newUUID]; ok {
		return dao.Automaton{}, dao.ErrConstraintViolation
	}

	a.ID = newUUID
	a.Created = time.Now()
	a.Updated = a.Created

	r.automata[a.ID] = a
	return a, nil
}

func (r *AutomataRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Automaton, error) {
	a, ok := r.automata[id]
	if !ok {
		return dao.Automaton{}, dao.ErrNotFound
	}
	return a, nil
}

func (r *AutomataRepository) GetAll(ctx context.Context) ([]dao.Automaton, error) {
	all := make([]dao.Automaton, 0, len(r.automata))
	for k := range r.automata {
		all = append(all, r.automata[k])
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ID.String() < all[j].ID.String()
	})

	return all, nil
}

func (r *AutomataRepository) Update(ctx context.Context, id uuid.UUID, a dao.Automaton) (dao.Automaton, error) {
	existing, ok := r.automata[id]
	if !ok {
		return dao.Automaton{}, dao.ErrNotFound
	}

	a.ID = id
	a.Created = existing.Created
	a.Updated = time.Now()

	r.automata[id] = a
	return a, nil
}

func (r *AutomataRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Automaton, error) {
	a, ok := r.automata[id]
	if !ok {
		return dao.Automaton{}, dao.ErrNotFound
	}

	delete(r.automata, id)
	return a, nil
}
