package db

import (
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/model"
)

// likes and favorites are counted from reactions at read time.
const studySelect = `
SELECT s.id, s.title, s.content, s.verses, s.questions, s.created_by, s.created_at, s.updated_at,
       (SELECT count(*) FROM reactions r WHERE r.target_type = 'study' AND r.target_id = s.id AND r.kind = 'like')     AS likes,
       (SELECT count(*) FROM reactions r WHERE r.target_type = 'study' AND r.target_id = s.id AND r.kind = 'favorite') AS favorites
  FROM studies s`

var studySorts = map[string]string{
	"title":   "s.title",
	"created": "s.created_at",
	"updated": "s.updated_at",
}

func (s *pgStore) ListStudies(q ListQuery) ([]model.Study, int, error) {
	q = q.Normalize()
	var w where
	w.search(q.Search, "s.title", "s.content", "array_to_string(s.verses, ' ')")

	out := []model.Study{}
	total, err := s.list(&out, "ListStudies", studySelect, `SELECT count(*) FROM studies s`,
		&w, q.orderBy(studySorts, "s.created_at DESC, s.id DESC"), q)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *pgStore) GetStudy(id int) (model.Study, error) {
	var st model.Study
	if err := s.db.Get(&st, studySelect+` WHERE s.id = $1;`, id); err != nil {
		return st, err
	}
	comments := []model.StudyComment{}
	if err := s.db.Select(&comments, `
	SELECT id, study_id, user_id, body, created_at
	  FROM study_comments
	 WHERE study_id = $1
	 ORDER BY created_at, id;`, id); err != nil {
		log.Error().Err(err).Int("study_id", id).Msg("failed to load study comments")
		return st, err
	}
	st.Comments = comments
	return st, nil
}

func (s *pgStore) CreateStudy(st model.Study) (model.Study, error) {
	var id int
	err := s.db.QueryRow(`
	INSERT INTO studies (title, content, verses, questions, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, now(), now())
	RETURNING id;`,
		st.Title, st.Content, stringArray(st.Verses), stringArray(st.Questions), st.CreatedBy).Scan(&id)
	if err != nil {
		log.Error().Err(err).Msg("CreateStudy failed")
		return model.Study{}, err
	}
	return s.GetStudy(id)
}

func (s *pgStore) UpdateStudy(id int, patch StudyPatch) (model.Study, error) {
	err := s.execAffecting("UpdateStudy", `
	UPDATE studies
	   SET title      = COALESCE($2, title),
	       content    = COALESCE($3, content),
	       verses     = COALESCE($4, verses),
	       questions  = COALESCE($5, questions),
	       updated_at = now()
	 WHERE id = $1;`,
		id, patch.Title, patch.Content, arrayOrNil(patch.Verses), arrayOrNil(patch.Questions))
	if err != nil {
		return model.Study{}, err
	}
	return s.GetStudy(id)
}

func (s *pgStore) DeleteStudy(id int) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// reactions reference targets loosely, so they are cleared by hand
	if _, err := tx.Exec(`DELETE FROM reactions WHERE target_type = 'study' AND target_id = $1;`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE reminders SET state = 'cancelled', updated_at = now()
	                       WHERE target_type = 'study' AND target_id = $1 AND state = 'scheduled';`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM studies WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("study_id", id).Msg("DeleteStudy failed")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

func (s *pgStore) AddStudyComment(studyID, userID int, body string) (model.StudyComment, error) {
	var c model.StudyComment
	err := s.db.Get(&c, `
	INSERT INTO study_comments (study_id, user_id, body, created_at)
	VALUES ($1, $2, $3, now())
	RETURNING id, study_id, user_id, body, created_at;`, studyID, userID, body)
	if err != nil {
		log.Error().Err(err).Int("study_id", studyID).Msg("AddStudyComment failed")
	}
	return c, err
}

func (s *pgStore) GetStudyComment(id int) (model.StudyComment, error) {
	var c model.StudyComment
	err := s.db.Get(&c, `SELECT id, study_id, user_id, body, created_at FROM study_comments WHERE id = $1;`, id)
	return c, err
}

func (s *pgStore) DeleteStudyComment(id int) error {
	return s.execAffecting("DeleteStudyComment", `DELETE FROM study_comments WHERE id = $1;`, id)
}
