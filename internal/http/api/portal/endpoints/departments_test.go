package endpoints

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/model"
)

type fakeDepartments struct {
	departments map[int]model.Department
	committee   map[int]model.CommitteeMember
	comments    map[int]model.DepartmentComment
	nextID      int
}

func newFakeDepartments() *fakeDepartments {
	return &fakeDepartments{
		departments: map[int]model.Department{
			1: {ID: 1, Name: "Ushers"},
			2: {ID: 2, Name: "Media"},
		},
		committee: map[int]model.CommitteeMember{},
		comments: map[int]model.DepartmentComment{
			5: {ID: 5, DepartmentID: 2, UserID: adminID, Body: "Cameras arrive Friday"},
		},
		nextID: 100,
	}
}

func (f *fakeDepartments) ListDepartments(q db.ListQuery) ([]model.Department, int, error) {
	out := []model.Department{}
	for _, d := range f.departments {
		out = append(out, d)
	}
	return out, len(out), nil
}

func (f *fakeDepartments) GetDepartment(id int) (model.Department, error) {
	d, ok := f.departments[id]
	if !ok {
		return d, sql.ErrNoRows
	}
	return d, nil
}

func (f *fakeDepartments) CreateDepartment(d model.Department) (model.Department, error) {
	for _, existing := range f.departments {
		if existing.Name == d.Name {
			return d, db.ErrDuplicate
		}
	}
	f.nextID++
	d.ID = f.nextID
	f.departments[d.ID] = d
	return d, nil
}

func (f *fakeDepartments) UpdateDepartment(id int, patch db.DepartmentPatch) (model.Department, error) {
	d, ok := f.departments[id]
	if !ok {
		return d, sql.ErrNoRows
	}
	if patch.Members != nil {
		d.Members = *patch.Members
	}
	f.departments[id] = d
	return d, nil
}

func (f *fakeDepartments) DeleteDepartment(id int) error {
	if _, ok := f.departments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.departments, id)
	return nil
}

func (f *fakeDepartments) AddCommitteeMember(departmentID int, name, role string) (model.CommitteeMember, error) {
	f.nextID++
	m := model.CommitteeMember{ID: f.nextID, DepartmentID: departmentID, Name: name, Role: role}
	f.committee[m.ID] = m
	return m, nil
}

func (f *fakeDepartments) RemoveCommitteeMember(departmentID, memberID int) error {
	m, ok := f.committee[memberID]
	if !ok || m.DepartmentID != departmentID {
		return sql.ErrNoRows
	}
	delete(f.committee, memberID)
	return nil
}

func (f *fakeDepartments) AddDepartmentComment(departmentID, userID int, parentID *int, body string) (model.DepartmentComment, error) {
	f.nextID++
	c := model.DepartmentComment{ID: f.nextID, DepartmentID: departmentID, UserID: userID, ParentID: parentID, Body: body}
	f.comments[c.ID] = c
	return c, nil
}

func (f *fakeDepartments) GetDepartmentComment(id int) (model.DepartmentComment, error) {
	c, ok := f.comments[id]
	if !ok {
		return c, sql.ErrNoRows
	}
	return c, nil
}

func TestDepartmentCommentReplies(t *testing.T) {
	store := newFakeDepartments()
	r := newRouter(DepartmentModule(store, nil))

	assert.Equal(t, http.StatusUnauthorized,
		do(t, r, http.MethodPost, "/api/departments/2/comments", map[string]any{"body": "hi"}, 0).Code)

	w := do(t, r, http.MethodPost, "/api/departments/2/comments", map[string]any{"body": "I can help", "parent_id": 5}, memberID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reply := decode[model.DepartmentComment](t, w)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, 5, *reply.ParentID)
	assert.Equal(t, memberID, reply.UserID)

	// parent lives in another department
	w = do(t, r, http.MethodPost, "/api/departments/1/comments", map[string]any{"body": "me too", "parent_id": 5}, memberID)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/departments/2/comments", map[string]any{"body": "lost", "parent_id": 404}, memberID)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/departments/9/comments", map[string]any{"body": "nobody home"}, memberID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDepartmentCommittee(t *testing.T) {
	store := newFakeDepartments()
	r := newRouter(DepartmentModule(store, nil))

	body := map[string]any{"name": "Ruth", "role": "Secretary"}
	assert.Equal(t, http.StatusForbidden, do(t, r, http.MethodPost, "/api/departments/1/committee", body, memberID).Code)

	w := do(t, r, http.MethodPost, "/api/departments/1/committee", body, adminID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	m := decode[model.CommitteeMember](t, w)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, "/api/departments/2/committee/"+itoa(m.ID), nil, adminID).Code)
	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/api/departments/1/committee/"+itoa(m.ID), nil, adminID).Code)
	assert.Empty(t, store.committee)
}

func TestCreateDepartmentDuplicateName(t *testing.T) {
	store := newFakeDepartments()
	r := newRouter(DepartmentModule(store, nil))

	w := do(t, r, http.MethodPost, "/api/departments", map[string]any{"name": "Media"}, adminID)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/api/departments", map[string]any{"name": "Choir support", "members": []string{"Ann", "Tom"}}, adminID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, []string{"Ann", "Tom"}, []string(decode[model.Department](t, w).Members))
}
