package db

import (
	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/model"
)

const departmentColumns = `id, name, description, leader, members, plans, actions, created_at, updated_at`

var departmentSorts = map[string]string{
	"name":    "name",
	"created": "created_at",
	"updated": "updated_at",
}

func (s *pgStore) ListDepartments(q ListQuery) ([]model.Department, int, error) {
	q = q.Normalize()
	var w where
	w.search(q.Search, "name", "description", "leader")

	out := []model.Department{}
	total, err := s.list(&out, "ListDepartments",
		`SELECT `+departmentColumns+` FROM departments`,
		`SELECT count(*) FROM departments`,
		&w, q.orderBy(departmentSorts, "name ASC, id ASC"), q)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *pgStore) GetDepartment(id int) (model.Department, error) {
	var d model.Department
	if err := s.db.Get(&d, `SELECT `+departmentColumns+` FROM departments WHERE id = $1;`, id); err != nil {
		return d, err
	}

	committee := []model.CommitteeMember{}
	if err := s.db.Select(&committee, `
	SELECT id, department_id, name, role FROM department_committee WHERE department_id = $1 ORDER BY id;`, id); err != nil {
		log.Error().Err(err).Int("department_id", id).Msg("failed to load committee")
		return d, err
	}

	var flat []model.DepartmentComment
	if err := s.db.Select(&flat, `
	SELECT id, department_id, parent_id, user_id, body, created_at
	  FROM department_comments
	 WHERE department_id = $1
	 ORDER BY created_at, id;`, id); err != nil {
		log.Error().Err(err).Int("department_id", id).Msg("failed to load comments")
		return d, err
	}

	d.Committee = committee
	d.Comments = NestComments(flat)
	return d, nil
}

// NestComments turns a creation-ordered flat list into a reply tree.
// Replies whose parent is missing are promoted to the top level.
func NestComments(flat []model.DepartmentComment) []model.DepartmentComment {
	children := make(map[int][]int, len(flat))
	index := make(map[int]int, len(flat))
	for i, c := range flat {
		index[c.ID] = i
	}
	var roots []int
	for i, c := range flat {
		if c.ParentID != nil {
			if _, ok := index[*c.ParentID]; ok {
				children[*c.ParentID] = append(children[*c.ParentID], i)
				continue
			}
		}
		roots = append(roots, i)
	}

	var build func(i int) model.DepartmentComment
	build = func(i int) model.DepartmentComment {
		c := flat[i]
		c.Replies = nil
		for _, j := range children[c.ID] {
			c.Replies = append(c.Replies, build(j))
		}
		return c
	}

	out := make([]model.DepartmentComment, 0, len(roots))
	for _, i := range roots {
		out = append(out, build(i))
	}
	return out
}

func (s *pgStore) CreateDepartment(d model.Department) (model.Department, error) {
	var out model.Department
	err := s.db.Get(&out, `
	INSERT INTO departments (name, description, leader, members, plans, actions, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	RETURNING `+departmentColumns+`;`,
		d.Name, d.Description, d.Leader, stringArray(d.Members), stringArray(d.Plans), stringArray(d.Actions))
	if err != nil {
		log.Error().Err(err).Msg("CreateDepartment failed")
	}
	return out, err
}

func (s *pgStore) UpdateDepartment(id int, patch DepartmentPatch) (model.Department, error) {
	err := s.execAffecting("UpdateDepartment", `
	UPDATE departments
	   SET name        = COALESCE($2, name),
	       description = COALESCE($3, description),
	       leader      = COALESCE($4, leader),
	       members     = COALESCE($5, members),
	       plans       = COALESCE($6, plans),
	       actions     = COALESCE($7, actions),
	       updated_at  = now()
	 WHERE id = $1;`,
		id, patch.Name, patch.Description, patch.Leader,
		arrayOrNil(patch.Members), arrayOrNil(patch.Plans), arrayOrNil(patch.Actions))
	if err != nil {
		return model.Department{}, err
	}
	return s.GetDepartment(id)
}

func (s *pgStore) DeleteDepartment(id int) error {
	return s.execAffecting("DeleteDepartment", `DELETE FROM departments WHERE id = $1;`, id)
}

func (s *pgStore) AddCommitteeMember(departmentID int, name, role string) (model.CommitteeMember, error) {
	var m model.CommitteeMember
	err := s.db.Get(&m, `
	INSERT INTO department_committee (department_id, name, role)
	VALUES ($1, $2, $3)
	RETURNING id, department_id, name, role;`, departmentID, name, role)
	if err != nil {
		log.Error().Err(err).Int("department_id", departmentID).Msg("AddCommitteeMember failed")
	}
	return m, err
}

func (s *pgStore) RemoveCommitteeMember(departmentID, memberID int) error {
	return s.execAffecting("RemoveCommitteeMember",
		`DELETE FROM department_committee WHERE department_id = $1 AND id = $2;`, departmentID, memberID)
}

func (s *pgStore) AddDepartmentComment(departmentID, userID int, parentID *int, body string) (model.DepartmentComment, error) {
	var c model.DepartmentComment
	err := s.db.Get(&c, `
	INSERT INTO department_comments (department_id, parent_id, user_id, body, created_at)
	VALUES ($1, $2, $3, $4, now())
	RETURNING id, department_id, parent_id, user_id, body, created_at;`, departmentID, parentID, userID, body)
	if err != nil {
		log.Error().Err(err).Int("department_id", departmentID).Msg("AddDepartmentComment failed")
	}
	return c, err
}

func (s *pgStore) GetDepartmentComment(id int) (model.DepartmentComment, error) {
	var c model.DepartmentComment
	err := s.db.Get(&c, `
	SELECT id, department_id, parent_id, user_id, body, created_at FROM department_comments WHERE id = $1;`, id)
	return c, err
}
