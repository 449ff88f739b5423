package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/accounthub-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id int64) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
	CreateUser(username, email, password string) (models.User, error)
	UpdateUser(id int64, email, newPassword string) (models.User, error)
	DeleteUser(id int64) error
	ListUsers(search string) ([]models.PublicUser, error)
	AuthenticateUser(username, password string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByUsername retrieves a single user by their username, including
// the password hash.
func (s *UserService) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser creates a new user, hashing their password. Returns
// ErrConflict when the username is taken. The check-then-insert is not
// atomic; the UNIQUE constraint on username is the backstop for races.
func (s *UserService) CreateUser(username, email, password string) (models.User, error) {
	if username == "" || email == "" || password == "" {
		return models.User{}, ErrInvalidRequest
	}

	if _, err := s.GetUserByUsername(username); err == nil {
		return models.User{}, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	stmt, err := s.db.Prepare("INSERT INTO users(username, email, password_hash) VALUES(?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	res, err := stmt.Exec(username, email, string(hashedPassword))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrConflict
		}
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(id)
}

// UpdateUser applies a partial update of email and/or password. At least
// one field must be provided. The new password is hashed before storage.
func (s *UserService) UpdateUser(id int64, email, newPassword string) (models.User, error) {
	var sets []string
	var params []interface{}

	if email != "" {
		sets = append(sets, "email = ?")
		params = append(params, email)
	}
	if newPassword != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash new password: %w", err)
		}
		sets = append(sets, "password_hash = ?")
		params = append(params, string(hashedPassword))
	}
	if len(sets) == 0 {
		return models.User{}, ErrInvalidRequest
	}

	params = append(params, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = ?", strings.Join(sets, ", "))
	if _, err := s.db.Exec(query, params...); err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(id)
}

// DeleteUser removes a user from the database. Deleting a non-existent
// id is not an error at this layer.
func (s *UserService) DeleteUser(id int64) error {
	_, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	return err
}

// ListUsers returns all users (id, username, email only). When search is
// non-empty, filters to rows where username or email contains the term.
func (s *UserService) ListUsers(search string) ([]models.PublicUser, error) {
	query := "SELECT id, username, email FROM users"
	var params []interface{}
	if search != "" {
		query += " WHERE username LIKE ? OR email LIKE ?"
		term := "%" + search + "%"
		params = append(params, term, term)
	}

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.PublicUser{}
	for rows.Next() {
		var user models.PublicUser
		if err := rows.Scan(&user.ID, &user.Username, &user.Email); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// AuthenticateUser verifies a user's credentials. An unknown username and
// a wrong password both return ErrUnauthorized.
func (s *UserService) AuthenticateUser(username, password string) (models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrUnauthorized
	}
	return user, nil
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure. modernc.org/sqlite does not export a typed error for this.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
