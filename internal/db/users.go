package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/model"
)

const userColumns = `id, email, hashed_password, name, phone, role, created_at, updated_at`

// inserts new user into table, returns new user ID.
func (s *pgStore) CreateUser(email, hashedPassword string, name *string, role string) (int, error) {
	query := `
	INSERT INTO users (email, hashed_password, name, role, created_at, updated_at)
	VALUES (lower($1), $2, $3, $4, now(), now())
	RETURNING id;
	`
	var newID int
	err := s.db.QueryRow(query, email, hashedPassword, name, role).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		log.Error().Err(err).Msg("failed to create user")
		return 0, err
	}
	return newID, nil
}

// fetches user by email. returns nil, sql.ErrNoRows if not found.
func (s *pgStore) GetUserByEmail(email string) (*model.User, error) {
	var u model.User
	err := s.db.Get(&u, `SELECT `+userColumns+` FROM users WHERE email = lower($1);`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Msg("failed to get user by email")
		return nil, err
	}
	return &u, nil
}

// fetches a user by ID. Returns nil, sql.ErrNoRows if not found.
func (s *pgStore) GetUserByID(id int) (*model.User, error) {
	var u model.User
	err := s.db.Get(&u, `SELECT `+userColumns+` FROM users WHERE id = $1;`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Int("user_id", id).Msg("failed to get user by id")
		return nil, err
	}
	return &u, nil
}

// updates a user's email, name and phone, and bumps updated_at.
// returns sql.ErrNoRows if the user ID doesn’t exist.
func (s *pgStore) UpdateUserProfile(id int, email string, name, phone *string) error {
	query := `
	UPDATE users
	SET email = lower($2),
	name = $3,
	phone = $4,
	updated_at = now()
	WHERE id = $1;
	`
	res, err := s.db.Exec(query, id, email, name, phone)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		log.Error().Err(err).Msg("failed to update user profile - exec")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Msg("failed to update user profile - rows affected")
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
