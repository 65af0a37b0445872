package endpoints

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/model"
)

type fakeBaptism struct {
	classes  map[int]model.BaptismClass
	students map[int]model.BaptismStudent
	nextID   int
}

func newFakeBaptism() *fakeBaptism {
	capacity := 2
	return &fakeBaptism{
		classes: map[int]model.BaptismClass{
			1: {ID: 1, Name: "Spring class", Teacher: "Pastor John", Capacity: &capacity,
				StartsOn: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), EndsOn: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		},
		students: map[int]model.BaptismStudent{},
		nextID:   10,
	}
}

func (f *fakeBaptism) ListBaptismClasses(q db.ListQuery) ([]model.BaptismClass, int, error) {
	out := []model.BaptismClass{}
	for _, c := range f.classes {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (f *fakeBaptism) GetBaptismClass(id int) (model.BaptismClass, error) {
	c, ok := f.classes[id]
	if !ok {
		return c, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeBaptism) CreateBaptismClass(c model.BaptismClass) (model.BaptismClass, error) {
	f.nextID++
	c.ID = f.nextID
	f.classes[c.ID] = c
	return c, nil
}

func (f *fakeBaptism) UpdateBaptismClass(id int, patch db.BaptismClassPatch) (model.BaptismClass, error) {
	c, ok := f.classes[id]
	if !ok {
		return c, sql.ErrNoRows
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.StartsOn != nil {
		c.StartsOn = *patch.StartsOn
	}
	if patch.EndsOn != nil {
		c.EndsOn = *patch.EndsOn
	}
	if patch.Location != nil {
		c.Location = patch.Location
	}
	if patch.ClearLocation {
		c.Location = nil
	}
	f.classes[id] = c
	return c, nil
}

func (f *fakeBaptism) DeleteBaptismClass(id int) error {
	if _, ok := f.classes[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.classes, id)
	return nil
}

func (f *fakeBaptism) RegisterStudent(classID int, s model.BaptismStudent) (model.BaptismStudent, error) {
	c, ok := f.classes[classID]
	if !ok {
		return s, sql.ErrNoRows
	}
	count := 0
	for _, st := range f.students {
		if st.ClassID != classID {
			continue
		}
		count++
		if s.Email != nil && st.Email != nil && *st.Email == *s.Email {
			return s, db.ErrDuplicate
		}
	}
	if c.Capacity != nil && count >= *c.Capacity {
		return s, db.ErrClassFull
	}
	f.nextID++
	s.ID, s.ClassID, s.Status = f.nextID, classID, model.StudentPending
	f.students[s.ID] = s
	return s, nil
}

func (f *fakeBaptism) GetStudent(classID, studentID int) (model.BaptismStudent, error) {
	s, ok := f.students[studentID]
	if !ok || s.ClassID != classID {
		return s, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeBaptism) UpdateStudent(classID, studentID int, patch db.StudentPatch) (model.BaptismStudent, error) {
	s, err := f.GetStudent(classID, studentID)
	if err != nil {
		return s, err
	}
	if patch.Status != nil {
		s.Status = *patch.Status
	}
	if patch.Baptized != nil {
		s.Baptized = *patch.Baptized
	}
	if patch.BaptizedOn != nil {
		s.BaptizedOn = patch.BaptizedOn
	}
	if patch.ClearBaptizedOn {
		s.BaptizedOn = nil
	}
	f.students[studentID] = s
	return s, nil
}

func (f *fakeBaptism) DeleteStudent(classID, studentID int) error {
	if _, err := f.GetStudent(classID, studentID); err != nil {
		return err
	}
	delete(f.students, studentID)
	return nil
}

func (f *fakeBaptism) BaptismStats(classID int) (model.BaptismStats, error) {
	var st model.BaptismStats
	for _, s := range f.students {
		if s.ClassID != classID {
			continue
		}
		st.Total++
		switch s.Status {
		case model.StudentPending:
			st.Pending++
		case model.StudentApproved:
			st.Approved++
		case model.StudentRejected:
			st.Rejected++
		}
		if s.Baptized {
			st.Baptized++
		}
	}
	return st, nil
}

func TestRegisterStudentEnforcesCapacityAndDuplicates(t *testing.T) {
	store := newFakeBaptism()
	r := newRouter(BaptismModule(store, nil))

	w := do(t, r, http.MethodPost, "/api/baptism-classes/1/students", map[string]any{"full_name": "Ada", "email": "ada@example.com"}, 0)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, model.StudentPending, decode[model.BaptismStudent](t, w).Status)

	w = do(t, r, http.MethodPost, "/api/baptism-classes/1/students", map[string]any{"full_name": "Ada again", "email": "ada@example.com"}, 0)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/api/baptism-classes/1/students", map[string]any{"full_name": "Ben"}, 0)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodPost, "/api/baptism-classes/1/students", map[string]any{"full_name": "Cleo"}, 0)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "full")

	w = do(t, r, http.MethodPost, "/api/baptism-classes/99/students", map[string]any{"full_name": "Dan"}, 0)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/api/baptism-classes/1/students", map[string]any{"full_name": ""}, 0)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBaptizedRequiresApproval(t *testing.T) {
	store := newFakeBaptism()
	r := newRouter(BaptismModule(store, nil))
	w := do(t, r, http.MethodPost, "/api/baptism-classes/1/students", map[string]any{"full_name": "Ada"}, 0)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[model.BaptismStudent](t, w).ID
	path := "/api/baptism-classes/1/students/" + itoa(id)

	w = do(t, r, http.MethodPut, path, map[string]any{"baptized": true}, adminID)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPut, path, map[string]any{"status": "approved", "baptized": true}, adminID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	st := decode[model.BaptismStudent](t, w)
	assert.True(t, st.Baptized)
	require.NotNil(t, st.BaptizedOn)
	assert.True(t, st.BaptizedOn.Equal(today()))

	assert.Equal(t, http.StatusForbidden, do(t, r, http.MethodPut, path, map[string]any{"status": "rejected"}, memberID).Code)

	w = do(t, r, http.MethodGet, "/api/baptism-classes/1/stats", nil, 0)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.BaptismStats{Total: 1, Approved: 1, Baptized: 1}, decode[model.BaptismStats](t, w))
}

func TestBaptismClassDates(t *testing.T) {
	store := newFakeBaptism()
	r := newRouter(BaptismModule(store, nil))

	w := do(t, r, http.MethodPost, "/api/baptism-classes", map[string]any{
		"name": "Autumn", "teacher": "Grace", "starts_on": "2026-10-10", "ends_on": "2026-10-01",
	}, adminID)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/baptism-classes", map[string]any{
		"name": "Autumn", "teacher": "Grace", "starts_on": "2026-10-10", "ends_on": "2026-10-10",
	}, adminID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodPut, "/api/baptism-classes/1", map[string]any{"ends_on": "2026-03-01"}, adminID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnbaptizingClearsBaptismDate(t *testing.T) {
	store := newFakeBaptism()
	on := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)
	store.students[11] = model.BaptismStudent{ID: 11, ClassID: 1, FullName: "Ada",
		Status: model.StudentApproved, Baptized: true, BaptizedOn: &on}
	r := newRouter(BaptismModule(store, nil))

	w := do(t, r, http.MethodPut, "/api/baptism-classes/1/students/11", map[string]any{"baptized": false}, adminID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	st := decode[model.BaptismStudent](t, w)
	assert.False(t, st.Baptized)
	assert.Nil(t, st.BaptizedOn)
}

func TestUpdateBaptismClassClearsLocation(t *testing.T) {
	store := newFakeBaptism()
	room := "Room 4"
	c := store.classes[1]
	c.Location = &room
	store.classes[1] = c
	r := newRouter(BaptismModule(store, nil))

	w := do(t, r, http.MethodPut, "/api/baptism-classes/1", map[string]any{"name": "Spring class"}, adminID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotNil(t, store.classes[1].Location)

	w = do(t, r, http.MethodPut, "/api/baptism-classes/1", map[string]any{"location": ""}, adminID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, store.classes[1].Location)
}
