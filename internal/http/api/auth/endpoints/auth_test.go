package endpoints

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/model"
)

const jwtSecret = "supersecret"

type memUsers struct {
	byID map[int]*model.User
}

func (m *memUsers) CreateUser(email, hashedPassword string, name *string, role string) (int, error) {
	for _, u := range m.byID {
		if u.Email == strings.ToLower(email) {
			return 0, db.ErrDuplicate
		}
	}
	id := len(m.byID) + 1
	m.byID[id] = &model.User{ID: id, Email: strings.ToLower(email), HashedPassword: hashedPassword, Name: name, Role: role}
	return id, nil
}

func (m *memUsers) GetUserByEmail(email string) (*model.User, error) {
	for _, u := range m.byID {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memUsers) GetUserByID(id int) (*model.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memUsers) UpdateUserProfile(id int, email string, name, phone *string) error {
	for otherID, u := range m.byID {
		if otherID != id && u.Email == strings.ToLower(email) {
			return db.ErrDuplicate
		}
	}
	u, ok := m.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Email, u.Name, u.Phone = strings.ToLower(email), name, phone
	return nil
}

func setupRouter(store db.UserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	api.SetupValidation()
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api", SecretKey: jwtSecret, Users: store}, AuthModule(jwtSecret, store))
	return r
}

func send(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenFrom(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestSignupLoginAndProfile(t *testing.T) {
	store := &memUsers{byID: map[int]*model.User{}}
	router := setupRouter(store)

	w := send(router, http.MethodPost, "/api/auth/signup", map[string]any{"email": "Test@Example.com", "password": "12345678"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := tokenFrom(t, w)
	assert.Equal(t, model.RoleMember, store.byID[1].Role)

	w = send(router, http.MethodGet, "/api/auth/current_profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = send(router, http.MethodGet, "/api/auth/current_profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"test@example.com"`)
	assert.Contains(t, w.Body.String(), `"role":"member"`)

	w = send(router, http.MethodPost, "/api/auth/login", map[string]any{"email": "test@example.com", "password": "12345678"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	tokenFrom(t, w)

	w = send(router, http.MethodPut, "/api/auth/current_profile", map[string]any{"email": "test@example.com", "phone": "+250788123456"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, store.byID[1].Phone)
	assert.Equal(t, "+250788123456", *store.byID[1].Phone)
}

func TestSignupConflictsAndValidation(t *testing.T) {
	store := &memUsers{byID: map[int]*model.User{}}
	router := setupRouter(store)

	require.Equal(t, http.StatusCreated,
		send(router, http.MethodPost, "/api/auth/signup", map[string]any{"email": "a@example.com", "password": "12345678"}, "").Code)
	assert.Equal(t, http.StatusConflict,
		send(router, http.MethodPost, "/api/auth/signup", map[string]any{"email": "A@example.com", "password": "abcdefgh"}, "").Code)
	assert.Equal(t, http.StatusBadRequest,
		send(router, http.MethodPost, "/api/auth/signup", map[string]any{"email": "b@example.com", "password": "short"}, "").Code)
	assert.Equal(t, http.StatusBadRequest,
		send(router, http.MethodPost, "/api/auth/signup", map[string]any{"email": "not-an-email", "password": "12345678"}, "").Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := &memUsers{byID: map[int]*model.User{}}
	router := setupRouter(store)
	require.Equal(t, http.StatusCreated,
		send(router, http.MethodPost, "/api/auth/signup", map[string]any{"email": "a@example.com", "password": "12345678"}, "").Code)

	w := send(router, http.MethodPost, "/api/auth/login", map[string]any{"email": "a@example.com", "password": "wrong-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = send(router, http.MethodPost, "/api/auth/login", map[string]any{"email": "ghost@example.com", "password": "12345678"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	store := &memUsers{byID: map[int]*model.User{}}
	router := setupRouter(store)
	send(router, http.MethodPost, "/api/auth/signup", map[string]any{"email": "a@example.com", "password": "12345678"}, "")
	w := send(router, http.MethodPost, "/api/auth/signup", map[string]any{"email": "b@example.com", "password": "12345678"}, "")
	token := tokenFrom(t, w)

	w = send(router, http.MethodPut, "/api/auth/current_profile", map[string]any{"email": "a@example.com"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}
