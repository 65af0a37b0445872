package db

import (
	"database/sql"

	"github.com/rs/zerolog/log"
)

// execAffecting runs a write and maps "nothing changed" to sql.ErrNoRows.
func (s *pgStore) execAffecting(op string, query string, args ...any) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		log.Error().Err(err).Str("op", op).Msg("exec failed")
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// list runs the count and page queries for a list endpoint.
func (s *pgStore) list(dest any, op, selectSQL, countSQL string, w *where, order string, q ListQuery) (int, error) {
	var total int
	if err := s.db.Get(&total, countSQL+w.String(), w.args...); err != nil {
		log.Error().Err(err).Str("op", op).Msg("count failed")
		return 0, err
	}
	pageSQL, args := w.page(q)
	if err := s.db.Select(dest, selectSQL+w.String()+" ORDER BY "+order+pageSQL, args...); err != nil {
		log.Error().Err(err).Str("op", op).Msg("select failed")
		return 0, err
	}
	return total, nil
}
