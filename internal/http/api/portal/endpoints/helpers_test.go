package endpoints

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/http/middleware"
	"github.com/Obed704/church-portal/internal/model"
)

const (
	testSecret = "endpoint-secret"
	memberID   = 1
	adminID    = 2
)

type users map[int]*model.User

func (u users) CreateUser(email, hashedPassword string, name *string, role string) (int, error) {
	return 0, nil
}
func (u users) GetUserByEmail(email string) (*model.User, error) { return nil, sql.ErrNoRows }
func (u users) GetUserByID(id int) (*model.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}
func (u users) UpdateUserProfile(id int, email string, name, phone *string) error { return nil }

func newRouter(modules ...api.Module) *gin.Engine {
	gin.SetMode(gin.TestMode)
	api.SetupValidation()
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api",
		SecretKey: testSecret,
		Users: users{
			memberID: {ID: memberID, Email: "member@example.com", Role: model.RoleMember},
			adminID:  {ID: adminID, Email: "admin@example.com", Role: model.RoleAdmin},
		},
	}, modules...)
	return r
}

func tokenFor(t *testing.T, userID int) string {
	t.Helper()
	token, err := middleware.GenerateJWT(userID, testSecret)
	require.NoError(t, err)
	return token
}

// do sends body as JSON when it is not nil. userID 0 sends no token.
func do(t *testing.T, r http.Handler, method, path string, body any, userID int) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, userID))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func itoa(i int) string { return strconv.Itoa(i) }
