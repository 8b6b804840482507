package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/mata/server/dao"
	"github.com/google/uuid"
)

// AutomataDB is a dao.AutomatonRepository backed by a SQLite table.
type AutomataDB struct {
	db *sql.DB
}

func (repo *AutomataDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS automata (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		mata_text BLOB NOT NULL,
		created INTEGER NOT NULL,
		updated INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *AutomataDB) Create(ctx context.Context, a dao.Automaton) (dao.Automaton, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Automaton{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO automata (id, name, kind, mata_text, created, updated) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Automaton{}, wrapDBError(err)
	}

	now := time.Now()
	_, err = stmt.ExecContext(ctx,
		convertToDB_UUID(newUUID),
		a.Name,
		a.Kind,
		convertToDB_Text(a.Text),
		convertToDB_Time(now),
		convertToDB_Time(now),
	)
	if err != nil {
		return dao.Automaton{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *AutomataDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Automaton, error) {
	a := dao.Automaton{ID: id}
	var created, updated int64
	var textBlob []byte

	row := repo.db.QueryRowContext(ctx, `SELECT name, kind, mata_text, created, updated FROM automata WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	err := row.Scan(&a.Name, &a.Kind, &textBlob, &created, &updated)
	if err != nil {
		return a, wrapDBError(err)
	}

	if err := convertFromDB_Text(textBlob, &a.Text); err != nil {
		return a, err
	}
	a.Created = time.Unix(created, 0)
	a.Updated = time.Unix(updated, 0)

	return a, nil
}

func (repo *AutomataDB) GetAll(ctx context.Context) ([]dao.Automaton, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, kind, mata_text, created, updated FROM automata ORDER BY id;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Automaton

	for rows.Next() {
		var a dao.Automaton
		var id string
		var created, updated int64
		var textBlob []byte

		if err := rows.Scan(&id, &a.Name, &a.Kind, &textBlob, &created, &updated); err != nil {
			return nil, wrapDBError(err)
		}

		if err := convertFromDB_UUID(id, &a.ID); err != nil {
			return all, err
		}
		if err := convertFromDB_Text(textBlob, &a.Text); err != nil {
			return all, err
		}
		a.Created = time.Unix(created, 0)
		a.Updated = time.Unix(updated, 0)

		all = append(all, a)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *AutomataDB) Update(ctx context.Context, id uuid.UUID, a dao.Automaton) (dao.Automaton, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE automata SET name=?, kind=?, mata_text=?, updated=? WHERE id=?;`,
		a.Name,
		a.Kind,
		convertToDB_Text(a.Text),
		convertToDB_Time(time.Now()),
		convertToDB_UUID(id),
	)
	if err != nil {
		return dao.Automaton{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Automaton{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Automaton{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, id)
}

func (repo *AutomataDB) Delete(ctx context.Context, id uuid.UUID) (dao.Automaton, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM automata WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *AutomataDB) Close() error {
	return nil
}
