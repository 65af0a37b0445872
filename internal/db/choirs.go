package db

import (
	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/model"
)

const choirColumns = `id, name, description, leader, created_at, updated_at`

var choirSorts = map[string]string{
	"name":    "name",
	"created": "created_at",
}

func (s *pgStore) ListChoirs(q ListQuery) ([]model.Choir, int, error) {
	q = q.Normalize()
	var w where
	w.search(q.Search, "name", "description", "leader")

	out := []model.Choir{}
	total, err := s.list(&out, "ListChoirs",
		`SELECT `+choirColumns+` FROM choirs`,
		`SELECT count(*) FROM choirs`,
		&w, q.orderBy(choirSorts, "name ASC, id ASC"), q)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *pgStore) GetChoir(id int) (model.Choir, error) {
	var c model.Choir
	if err := s.db.Get(&c, `SELECT `+choirColumns+` FROM choirs WHERE id = $1;`, id); err != nil {
		return c, err
	}
	songs := []model.Song{}
	if err := s.db.Select(&songs, `
	SELECT id, choir_id, title, lyrics, audio_url, created_at FROM songs WHERE choir_id = $1 ORDER BY title, id;`, id); err != nil {
		log.Error().Err(err).Int("choir_id", id).Msg("failed to load songs")
		return c, err
	}
	c.Songs = songs
	return c, nil
}

func (s *pgStore) CreateChoir(c model.Choir) (model.Choir, error) {
	var out model.Choir
	err := s.db.Get(&out, `
	INSERT INTO choirs (name, description, leader, created_at, updated_at)
	VALUES ($1, $2, $3, now(), now())
	RETURNING `+choirColumns+`;`, c.Name, c.Description, c.Leader)
	if err != nil {
		log.Error().Err(err).Msg("CreateChoir failed")
	}
	return out, err
}

func (s *pgStore) UpdateChoir(id int, patch ChoirPatch) (model.Choir, error) {
	err := s.execAffecting("UpdateChoir", `
	UPDATE choirs
	   SET name        = COALESCE($2, name),
	       description = COALESCE($3, description),
	       leader      = COALESCE($4, leader),
	       updated_at  = now()
	 WHERE id = $1;`, id, patch.Name, patch.Description, patch.Leader)
	if err != nil {
		return model.Choir{}, err
	}
	return s.GetChoir(id)
}

func (s *pgStore) DeleteChoir(id int) error {
	return s.execAffecting("DeleteChoir", `DELETE FROM choirs WHERE id = $1;`, id)
}

func (s *pgStore) AddSong(choirID int, song model.Song) (model.Song, error) {
	var out model.Song
	err := s.db.Get(&out, `
	INSERT INTO songs (choir_id, title, lyrics, audio_url, created_at)
	VALUES ($1, $2, $3, $4, now())
	RETURNING id, choir_id, title, lyrics, audio_url, created_at;`, choirID, song.Title, song.Lyrics, song.AudioURL)
	if err != nil {
		log.Error().Err(err).Int("choir_id", choirID).Msg("AddSong failed")
	}
	return out, err
}

func (s *pgStore) DeleteSong(choirID, songID int) error {
	return s.execAffecting("DeleteSong", `DELETE FROM songs WHERE choir_id = $1 AND id = $2;`, choirID, songID)
}
