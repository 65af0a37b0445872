package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/model"
)

const baptismClassColumns = `id, name, teacher, location, starts_on, ends_on, capacity, created_by, created_at, updated_at`
const studentColumns = `id, class_id, full_name, email, phone, status, baptized, baptized_on, registered_at`

var baptismSorts = map[string]string{
	"name":    "name",
	"teacher": "teacher",
	"starts":  "starts_on",
	"created": "created_at",
}

func (s *pgStore) ListBaptismClasses(q ListQuery) ([]model.BaptismClass, int, error) {
	q = q.Normalize()
	var w where
	w.search(q.Search, "name", "teacher", "location")

	out := []model.BaptismClass{}
	total, err := s.list(&out, "ListBaptismClasses",
		`SELECT `+baptismClassColumns+` FROM baptism_classes`,
		`SELECT count(*) FROM baptism_classes`,
		&w, q.orderBy(baptismSorts, "starts_on DESC, id DESC"), q)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *pgStore) GetBaptismClass(id int) (model.BaptismClass, error) {
	var c model.BaptismClass
	if err := s.db.Get(&c, `SELECT `+baptismClassColumns+` FROM baptism_classes WHERE id = $1;`, id); err != nil {
		return c, err
	}
	students := []model.BaptismStudent{}
	if err := s.db.Select(&students, `
	SELECT `+studentColumns+`
	  FROM baptism_students
	 WHERE class_id = $1
	 ORDER BY registered_at, id;`, id); err != nil {
		log.Error().Err(err).Int("class_id", id).Msg("failed to load baptism students")
		return c, err
	}
	c.Students = students
	return c, nil
}

func (s *pgStore) CreateBaptismClass(c model.BaptismClass) (model.BaptismClass, error) {
	var out model.BaptismClass
	err := s.db.Get(&out, `
	INSERT INTO baptism_classes (name, teacher, location, starts_on, ends_on, capacity, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
	RETURNING `+baptismClassColumns+`;`,
		c.Name, c.Teacher, c.Location, c.StartsOn, c.EndsOn, c.Capacity, c.CreatedBy)
	if err != nil {
		log.Error().Err(err).Msg("CreateBaptismClass failed")
	}
	return out, err
}

func (s *pgStore) UpdateBaptismClass(id int, patch BaptismClassPatch) (model.BaptismClass, error) {
	err := s.execAffecting("UpdateBaptismClass", `
	UPDATE baptism_classes
	   SET name       = COALESCE($2, name),
	       teacher    = COALESCE($3, teacher),
	       location   = CASE WHEN $8 THEN NULL ELSE COALESCE($4, location) END,
	       starts_on  = COALESCE($5, starts_on),
	       ends_on    = COALESCE($6, ends_on),
	       capacity   = COALESCE($7, capacity),
	       updated_at = now()
	 WHERE id = $1;`,
		id, patch.Name, patch.Teacher, patch.Location, patch.StartsOn, patch.EndsOn, patch.Capacity, patch.ClearLocation)
	if err != nil {
		return model.BaptismClass{}, err
	}
	return s.GetBaptismClass(id)
}

func (s *pgStore) DeleteBaptismClass(id int) error {
	return s.execAffecting("DeleteBaptismClass", `DELETE FROM baptism_classes WHERE id = $1;`, id)
}

// RegisterStudent adds a pending registration. The class row is locked so
// concurrent registrations cannot exceed capacity; rejected students do not count.
func (s *pgStore) RegisterStudent(classID int, st model.BaptismStudent) (model.BaptismStudent, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return model.BaptismStudent{}, err
	}
	defer tx.Rollback()

	var capacity sql.NullInt64
	if err := tx.Get(&capacity, `SELECT capacity FROM baptism_classes WHERE id = $1 FOR UPDATE;`, classID); err != nil {
		return model.BaptismStudent{}, err
	}
	if capacity.Valid {
		var taken int64
		if err := tx.Get(&taken, `
		SELECT count(*) FROM baptism_students WHERE class_id = $1 AND status <> 'rejected';`, classID); err != nil {
			return model.BaptismStudent{}, err
		}
		if taken >= capacity.Int64 {
			return model.BaptismStudent{}, ErrClassFull
		}
	}

	var out model.BaptismStudent
	err = tx.Get(&out, `
	INSERT INTO baptism_students (class_id, full_name, email, phone, status, baptized, registered_at)
	VALUES ($1, $2, $3, $4, 'pending', false, now())
	RETURNING `+studentColumns+`;`, classID, st.FullName, st.Email, st.Phone)
	if err != nil {
		if isUniqueViolation(err) {
			return model.BaptismStudent{}, ErrDuplicate
		}
		log.Error().Err(err).Int("class_id", classID).Msg("RegisterStudent failed")
		return model.BaptismStudent{}, err
	}
	return out, tx.Commit()
}

func (s *pgStore) GetStudent(classID, studentID int) (model.BaptismStudent, error) {
	var st model.BaptismStudent
	err := s.db.Get(&st, `SELECT `+studentColumns+` FROM baptism_students WHERE class_id = $1 AND id = $2;`, classID, studentID)
	return st, err
}

func (s *pgStore) UpdateStudent(classID, studentID int, patch StudentPatch) (model.BaptismStudent, error) {
	var out model.BaptismStudent
	err := s.db.Get(&out, `
	UPDATE baptism_students
	   SET full_name   = COALESCE($3, full_name),
	       email       = COALESCE($4, email),
	       phone       = COALESCE($5, phone),
	       status      = COALESCE($6, status),
	       baptized    = COALESCE($7, baptized),
	       baptized_on = CASE WHEN $9 THEN NULL ELSE COALESCE($8, baptized_on) END
	 WHERE class_id = $1 AND id = $2
	RETURNING `+studentColumns+`;`,
		classID, studentID, patch.FullName, patch.Email, patch.Phone, patch.Status, patch.Baptized, patch.BaptizedOn, patch.ClearBaptizedOn)
	if err != nil && isUniqueViolation(err) {
		return out, ErrDuplicate
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error().Err(err).Int("student_id", studentID).Msg("UpdateStudent failed")
	}
	return out, err
}

func (s *pgStore) DeleteStudent(classID, studentID int) error {
	return s.execAffecting("DeleteStudent", `DELETE FROM baptism_students WHERE class_id = $1 AND id = $2;`, classID, studentID)
}

func (s *pgStore) BaptismStats(classID int) (model.BaptismStats, error) {
	var st model.BaptismStats
	err := s.db.Get(&st, `
	SELECT count(*)                                    AS total,
	       count(*) FILTER (WHERE status = 'pending')  AS pending,
	       count(*) FILTER (WHERE status = 'approved') AS approved,
	       count(*) FILTER (WHERE status = 'rejected') AS rejected,
	       count(*) FILTER (WHERE baptized)            AS baptized
	  FROM baptism_students
	 WHERE class_id = $1;`, classID)
	return st, err
}
