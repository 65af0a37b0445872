package endpoints

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/http/api/auth/packets"
	"github.com/Obed704/church-portal/internal/http/middleware"
	"github.com/Obed704/church-portal/internal/model"
)

type AccountManager struct {
	jwtSecret string
	store     db.UserStore
}

// AuthModule mounts signup, login and the current profile under the group.
func AuthModule(jwtSecret string, store db.UserStore) api.Module {
	ctl := &AccountManager{jwtSecret: jwtSecret, store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/auth/signup", ctl.userSignup)
		c.PUBLIC_POST("/auth/login", ctl.userLogin)
		c.GET("/auth/current_profile", ctl.getCurrentProfile)
		c.PUT("/auth/current_profile", ctl.updateCurrentProfile)
	})
}

func profile(u *model.User) packets.ProfileResponse {
	return packets.ProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// POST /api/auth/signup
func (a *AccountManager) userSignup(c *gin.Context) (any, *api.APIError) {
	var request packets.SignupRequest
	if apiErr := api.BindJSON(c, &request); apiErr != nil {
		return nil, apiErr
	}

	hashed, err := middleware.HashPassword(request.Password)
	if err != nil {
		log.Error().Err(err).Str("email", request.Email).Msg("Error hashing password")
		return nil, api.Internal("Something went wrong, please try again")
	}

	userID, err := a.store.CreateUser(request.Email, hashed, request.Name, model.RoleMember)
	if errors.Is(err, db.ErrDuplicate) {
		log.Info().Str("email", request.Email).Msg("Email conflict on signup")
		return nil, api.Conflict("Email already registered, please sign up with a different email")
	}
	if err != nil {
		log.Error().Err(err).Str("email", request.Email).Msg("Could not create user")
		return nil, api.Internal("Something went wrong, please try again")
	}

	token, err := middleware.GenerateJWT(userID, a.jwtSecret)
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("Could not generate JWT")
		return nil, api.Internal("Something went wrong, please try again")
	}
	log.Info().Int("user_id", userID).Msg("[auth] member signed up")
	return api.Created(packets.TokenResponse{Token: token}), nil
}

// POST /api/auth/login
func (a *AccountManager) userLogin(c *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if apiErr := api.BindJSON(c, &request); apiErr != nil {
		return nil, apiErr
	}

	user, err := a.store.GetUserByEmail(request.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, api.StoreError(err, "user")
	}
	if err != nil || !middleware.CheckPassword(user.HashedPassword, request.Password) {
		log.Info().Str("email", request.Email).Msg("Login failed")
		return nil, api.Unauthorized(middleware.ErrInvalidCredentials.Error())
	}

	token, err := middleware.GenerateJWT(user.ID, a.jwtSecret)
	if err != nil {
		log.Error().Err(err).Int("user_id", user.ID).Msg("Could not generate JWT")
		return nil, api.Internal("Something went wrong, please try again")
	}
	return packets.TokenResponse{Token: token}, nil
}

// GET /api/auth/current_profile
func (a *AccountManager) getCurrentProfile(c *gin.Context, user *model.User) (any, *api.APIError) {
	return profile(user), nil
}

// PUT /api/auth/current_profile
func (a *AccountManager) updateCurrentProfile(c *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.UpdateCurrentProfileRequest
	if apiErr := api.BindJSON(c, &request); apiErr != nil {
		return nil, apiErr
	}

	err := a.store.UpdateUserProfile(user.ID, request.Email, request.Name, request.Phone)
	if errors.Is(err, db.ErrDuplicate) {
		return nil, api.Conflict("Email already registered")
	}
	if err != nil {
		return nil, api.StoreError(err, "user")
	}

	updated, err := a.store.GetUserByID(user.ID)
	if err != nil {
		return nil, api.StoreError(err, "user")
	}
	return profile(updated), nil
}
