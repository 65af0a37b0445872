package db

import (
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/model"
)

const videoColumns = `id, title, category, url, thumbnail_url, published_at, created_by, created_at`

var videoSorts = map[string]string{
	"title":     "title",
	"category":  "category",
	"published": "published_at",
}

func (s *pgStore) ListVideos(q ListQuery, category string) ([]model.Video, int, error) {
	q = q.Normalize()
	var w where
	if category != "" {
		w.add("category = ?", category)
	}
	w.search(q.Search, "title", "category")

	out := []model.Video{}
	total, err := s.list(&out, "ListVideos",
		`SELECT `+videoColumns+` FROM videos`,
		`SELECT count(*) FROM videos`,
		&w, q.orderBy(videoSorts, "published_at DESC, id DESC"), q)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *pgStore) GetVideo(id int) (model.Video, error) {
	var v model.Video
	err := s.db.Get(&v, `SELECT `+videoColumns+` FROM videos WHERE id = $1;`, id)
	return v, err
}

func (s *pgStore) CreateVideo(v model.Video) (model.Video, error) {
	var out model.Video
	var published sql.NullTime
	if !v.PublishedAt.IsZero() {
		published = sql.NullTime{Time: v.PublishedAt, Valid: true}
	}
	err := s.db.Get(&out, `
	INSERT INTO videos (title, category, url, thumbnail_url, published_at, created_by, created_at)
	VALUES ($1, $2, $3, $4, COALESCE($5, now()), $6, now())
	RETURNING `+videoColumns+`;`,
		v.Title, v.Category, v.URL, v.ThumbnailURL, published, v.CreatedBy)
	if err != nil {
		log.Error().Err(err).Msg("CreateVideo failed")
	}
	return out, err
}

func (s *pgStore) UpdateVideo(id int, patch VideoPatch) (model.Video, error) {
	var out model.Video
	err := s.db.Get(&out, `
	UPDATE videos
	   SET title         = COALESCE($2, title),
	       category      = COALESCE($3, category),
	       url           = COALESCE($4, url),
	       thumbnail_url = COALESCE($5, thumbnail_url),
	       published_at  = COALESCE($6, published_at)
	 WHERE id = $1
	RETURNING `+videoColumns+`;`,
		id, patch.Title, patch.Category, patch.URL, patch.ThumbnailURL, patch.PublishedAt)
	return out, err
}

func (s *pgStore) DeleteVideo(id int) error {
	return s.execAffecting("DeleteVideo", `
	WITH gone AS (DELETE FROM reactions WHERE target_type = 'video' AND target_id = $1)
	DELETE FROM videos WHERE id = $1;`, id)
}
