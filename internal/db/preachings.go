package db

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/model"
)

const preachingColumns = `id, title, preacher, kind, preached_on, verses, description, audio_url, created_by, created_at, updated_at`

var preachingSorts = map[string]string{
	"title":    "title",
	"preacher": "preacher",
	"date":     "preached_on",
	"created":  "created_at",
}

func (s *pgStore) ListPreachings(q ListQuery, f PreachingFilter) ([]model.Preaching, int, error) {
	q = q.Normalize()
	var w where
	if f.Kind != "" {
		w.add("kind = ?", f.Kind)
	}
	if f.From != nil {
		w.add("preached_on >= ?", *f.From)
	}
	if f.To != nil {
		w.add("preached_on <= ?", *f.To)
	}
	w.search(q.Search, "title", "preacher", "description", "array_to_string(verses, ' ')")

	out := []model.Preaching{}
	total, err := s.list(&out, "ListPreachings",
		`SELECT `+preachingColumns+` FROM preachings`,
		`SELECT count(*) FROM preachings`,
		&w, q.orderBy(preachingSorts, "preached_on DESC, id DESC"), q)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *pgStore) GetPreaching(id int) (model.Preaching, error) {
	var p model.Preaching
	err := s.db.Get(&p, `SELECT `+preachingColumns+` FROM preachings WHERE id = $1;`, id)
	return p, err
}

// GetPreachingForDay returns the latest preaching of kind recorded for day.
func (s *pgStore) GetPreachingForDay(kind string, day time.Time) (model.Preaching, error) {
	var p model.Preaching
	err := s.db.Get(&p, `
	SELECT `+preachingColumns+`
	  FROM preachings
	 WHERE kind = $1 AND preached_on = $2::date
	 ORDER BY id DESC
	 LIMIT 1;`, kind, day.Format("2006-01-02"))
	return p, err
}

func (s *pgStore) CreatePreaching(p model.Preaching) (model.Preaching, error) {
	var out model.Preaching
	err := s.db.Get(&out, `
	INSERT INTO preachings (title, preacher, kind, preached_on, verses, description, audio_url, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
	RETURNING `+preachingColumns+`;`,
		p.Title, p.Preacher, p.Kind, p.PreachedOn, stringArray(p.Verses), p.Description, p.AudioURL, p.CreatedBy)
	if err != nil {
		log.Error().Err(err).Msg("CreatePreaching failed")
	}
	return out, err
}

func (s *pgStore) UpdatePreaching(id int, patch PreachingPatch) (model.Preaching, error) {
	var out model.Preaching
	err := s.db.Get(&out, `
	UPDATE preachings
	   SET title       = COALESCE($2, title),
	       preacher    = COALESCE($3, preacher),
	       kind        = COALESCE($4, kind),
	       preached_on = COALESCE($5, preached_on),
	       verses      = COALESCE($6, verses),
	       description = COALESCE($7, description),
	       audio_url   = COALESCE($8, audio_url),
	       updated_at  = now()
	 WHERE id = $1
	RETURNING `+preachingColumns+`;`,
		id, patch.Title, patch.Preacher, patch.Kind, patch.PreachedOn,
		arrayOrNil(patch.Verses), patch.Description, patch.AudioURL)
	return out, err
}

func (s *pgStore) DeletePreaching(id int) error {
	return s.execAffecting("DeletePreaching", `
	WITH gone AS (DELETE FROM reactions WHERE target_type = 'preaching' AND target_id = $1)
	DELETE FROM preachings WHERE id = $1;`, id)
}
