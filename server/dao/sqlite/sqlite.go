// Package sqlite provides a dao.Store backed by a single SQLite database
// file, via the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/mata/server/dao"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string
	db         *sql.DB
	automata   *AutomataDB
}

// NewDatastore opens (creating if needed) a SQLite database file named
// data.db within storageDir and returns a dao.Store backed by it.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{dbFilename: "data.db"}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.automata = &AutomataDB{db: st.db}
	if err := st.automata.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Automata() dao.AutomatonRepository { return s.automata }

func (s *store) Close() error {
	return s.db.Close()
}

// automatonBlob is the on-disk encoding of a stored automaton's Mata text.
// It exists solely so the text can be round-tripped through
// rezi.EncBinary/DecBinary, matching the way other binary-blob columns in
// this codebase are stored.
type automatonBlob struct {
	Text string
}

func (b automatonBlob) MarshalBinary() ([]byte, error) {
	return []byte(b.Text), nil
}

func (b *automatonBlob) UnmarshalBinary(data []byte) error {
	b.Text = string(data)
	return nil
}

// convertToDB_UUID converts a uuid.UUID to storage DB format on disk.
func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

// convertToDB_Time converts a time.Time to storage DB format on disk.
func convertToDB_Time(t time.Time) int64 {
	return t.Unix()
}

// convertToDB_Text converts a Mata text blob to storage DB format on disk.
func convertToDB_Text(text string) []byte {
	return rezi.EncBinary(automatonBlob{Text: text})
}

// convertFromDB_UUID converts storage DB format value to a uuid.UUID and
// stores it at the address pointed to by target. If there is a problem with
// the decoding, the returned error will wrap dao.ErrDecodingFailure.
func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: stored UUID %q is invalid: %s", dao.ErrDecodingFailure, s, err)
	}
	*target = u
	return nil
}

// convertFromDB_Text converts a stored rezi-encoded blob back into Mata
// text. If there is a problem with the decoding, the returned error will
// wrap dao.ErrDecodingFailure.
func convertFromDB_Text(data []byte, target *string) error {
	var blob automatonBlob
	n, err := rezi.DecBinary(data, &blob)
	if err != nil {
		return fmt.Errorf("%w: REZI decode: %s", dao.ErrDecodingFailure, err)
	}
	if n != len(data) {
		return fmt.Errorf("%w: REZI decoded byte count mismatch; only consumed %d/%d bytes", dao.ErrDecodingFailure, n, len(data))
	}
	*target = blob.Text
	return nil
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
