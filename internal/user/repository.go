package user

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSettingsNotFound = errors.New("user settings not found")
)

type Repository interface {
	createUser(user *User) error
	getUserByEmail(email string) (*User, error)
	getUserByLogin(login string) (*User, error)
	userExistsByLoginOrEmail(login, email string) (*User, error)
	getUserByLoginOrEmail(loginOrEmail string) (*User, error)
	getUserByID(id string) (*User, error)
	updateProfile(userID, login, avatar string) error
	updateUserPasswordAndHashToken(userID, newPasswordHash, newHashToken string) error
	getSettings(userID string) (*Settings, error)
	saveSettings(userID string, settings Settings) error
	deleteSettings(userID string) error
	deleteUser(userID string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{
		db: db,
	}
}

const userColumns = "id, email, login, avatar, password_hash, two_factor_enabled, two_factor_method, hash_token, created_at, updated_at"

func scanUser(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Login, &user.Avatar, &user.PasswordHash, &user.TwoFactorEnabled, &user.TwoFactorMethod, &user.HashToken, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %v", err)
	}
	return &user, nil
}

func (r *userRepository) createUser(user *User) error {
	query := `
		INSERT INTO users (email, login, avatar, password_hash, two_factor_enabled, two_factor_method, hash_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id;
	`
	var id string
	err := r.db.QueryRow(query, user.Email, user.Login, user.Avatar, user.PasswordHash, user.TwoFactorEnabled, user.TwoFactorMethod, user.HashToken).Scan(&id)
	if err != nil {
		return fmt.Errorf("could not create user: %v", err)
	}

	user.ID = id
	return nil
}

func (r *userRepository) getUserByEmail(email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return scanUser(r.db.QueryRow(query, email))
}

func (r *userRepository) getUserByLogin(login string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE login = $1`, userColumns)
	return scanUser(r.db.QueryRow(query, login))
}

func (r *userRepository) userExistsByLoginOrEmail(login, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE login = $1 OR email = $2`, userColumns)
	return scanUser(r.db.QueryRow(query, login, email))
}

func (r *userRepository) getUserByLoginOrEmail(loginOrEmail string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE login = $1 OR email = $1`, userColumns)
	return scanUser(r.db.QueryRow(query, loginOrEmail))
}

func (r *userRepository) getUserByID(id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return scanUser(r.db.QueryRow(query, id))
}

func (r *userRepository) updateProfile(userID, login, avatar string) error {
	query := `
		UPDATE users
		SET login = $1,
		    avatar = $2,
		    updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.Exec(query, login, avatar, userID)
	if err != nil {
		return fmt.Errorf("could not update user profile: %v", err)
	}
	return nil
}

func (r *userRepository) updateUserPasswordAndHashToken(userID, newPasswordHash, newHashToken string) error {
	query := `
        UPDATE users
        SET password_hash = $1,
            hash_token = $2,
            updated_at = $3
        WHERE id = $4
    `
	_, err := r.db.Exec(query, newPasswordHash, newHashToken, time.Now(), userID)
	return err
}

func (r *userRepository) getSettings(userID string) (*Settings, error) {
	query := `
		SELECT theme, default_view
		FROM user_settings
		WHERE user_id = $1
	`
	var settings Settings
	err := r.db.QueryRow(query, userID).Scan(&settings.Theme, &settings.DefaultView)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("could not retrieve user settings: %v", err)
	}
	return &settings, nil
}

func (r *userRepository) saveSettings(userID string, settings Settings) error {
	query := `
        INSERT INTO user_settings (user_id, theme, default_view, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (user_id) DO UPDATE
        SET theme = EXCLUDED.theme,
            default_view = EXCLUDED.default_view,
            updated_at = NOW()
    `
	_, err := r.db.Exec(query, userID, settings.Theme, settings.DefaultView)
	if err != nil {
		return fmt.Errorf("could not save user settings: %v", err)
	}
	return nil
}

func (r *userRepository) deleteSettings(userID string) error {
	query := `DELETE FROM user_settings WHERE user_id = $1`
	_, err := r.db.Exec(query, userID)
	if err != nil {
		return fmt.Errorf("could not delete user settings: %v", err)
	}
	return nil
}

func (r *userRepository) deleteUser(userID string) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.Exec(query, userID)
	if err != nil {
		return fmt.Errorf("could not delete user: %v", err)
	}
	return nil
}
