package inmem

import (
	"context"
	"testing"

	"github.com/dekarrin/mata/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_AutomataRepository_CreateGetUpdateDelete(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	repo := NewAutomataRepository()

	created, err := repo.Create(ctx, dao.Automaton{Name: "abb", Kind: "nfa", Text: "@NFA-explicit\n"})
	if !assert.NoError(err) {
		return
	}
	assert.NotEqual(uuid.Nil, created.ID)
	assert.False(created.Created.IsZero())
	assert.Equal(created.Created, created.Updated)

	fetched, err := repo.GetByID(ctx, created.ID)
	if assert.NoError(err) {
		assert.Equal(created, fetched)
	}

	updated, err := repo.Update(ctx, created.ID, dao.Automaton{Name: "abb-renamed", Kind: "nfa", Text: created.Text})
	if !assert.NoError(err) {
		return
	}
	assert.Equal(created.ID, updated.ID)
	assert.Equal(created.Created, updated.Created)
	assert.Equal("abb-renamed", updated.Name)

	deleted, err := repo.Delete(ctx, created.ID)
	if assert.NoError(err) {
		assert.Equal(created.ID, deleted.ID)
	}

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_AutomataRepository_GetByID_unknown(t *testing.T) {
	repo := NewAutomataRepository()
	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func Test_AutomataRepository_Update_unknown(t *testing.T) {
	repo := NewAutomataRepository()
	_, err := repo.Update(context.Background(), uuid.New(), dao.Automaton{})
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func Test_AutomataRepository_Delete_unknown(t *testing.T) {
	repo := NewAutomataRepository()
	_, err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func Test_AutomataRepository_GetAll_sortedByID(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewAutomataRepository()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		a, err := repo.Create(ctx, dao.Automaton{Name: "a", Kind: "nfa"})
		if !assert.NoError(err) {
			return
		}
		ids = append(ids, a.ID)
	}

	all, err := repo.GetAll(ctx)
	if !assert.NoError(err) {
		return
	}
	assert.Len(all, 5)
	for i := 1; i < len(all); i++ {
		assert.Less(all[i-1].ID.String(), all[i].ID.String())
	}
}

func Test_NewDatastore(t *testing.T) {
	assert := assert.New(t)

	store := NewDatastore()
	assert.NotNil(store.Automata())
	assert.NoError(store.Close())
}
