package user

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxEmailLength = 35
	minEmailLength = 3
	maxLoginLength = 30
	minLoginLength = 5
	bcryptCost     = 12

	defaultAvatar      = "😊"
	defaultTheme       = "light"
	defaultViewMode    = "grid"
	maxAvatarLength    = 10
	minPasswordLength  = 6
)

var (
	ErrInvalidEmail       = fmt.Errorf("email address is not valid")
	ErrEmailLength        = fmt.Errorf("email address is too long or too short, max length: %d, min length: %d", maxEmailLength, minEmailLength)
	ErrLoginLength        = fmt.Errorf("login is too long or too short, max length: %d, min length: %d", maxLoginLength, minLoginLength)
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrLoginAlreadyExists = errors.New("login already exists")
	ErrInternalError      = errors.New("internal Server Error")
	ErrInvalidOldPassword = errors.New("invalid old password")
	ErrInvalidPassword    = errors.New("invalid password")
)

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Login            string    `json:"login"`
	Avatar           string    `json:"avatar"`
	PasswordHash     string    `json:"-"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	TwoFactorMethod  string    `json:"two_factor_method"`
	HashToken        string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Settings struct {
	Theme       string `json:"theme"`
	DefaultView string `json:"defaultView"`
}

// DataSeeder fills a freshly registered account with starter content.
type DataSeeder interface {
	SeedDefaultData(ctx context.Context, userID string) error
}

// DataPurger removes every record the account owns before the user row goes.
type DataPurger interface {
	PurgeUserData(ctx context.Context, userID string) error
}

type Service interface {
	Register(email, login, password string) (*User, error)
	GetUserByID(userID string) (*User, error)
	GetUserByLoginOrEmail(loginOrEmail string) (*User, error)
	UpdateProfile(userID, login, avatar string) (*User, error)
	ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error
	GetSettings(userID string) (*Settings, error)
	UpdateSettings(userID string, settings Settings) (*Settings, error)
	DeleteAccount(userID, password string) error
}

type service struct {
	repo   Repository
	seeder DataSeeder
	purger DataPurger
}

func NewUserService(repo Repository, seeder DataSeeder, purger DataPurger) Service {
	return &service{
		repo:   repo,
		seeder: seeder,
		purger: purger,
	}
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

func generateHashToken() (string, error) {
	token := make([]byte, 32)
	_, err := rand.Read(token)
	if err != nil {
		return "", fmt.Errorf("could not generate hash token: %v", err)
	}
	return hex.EncodeToString(token), nil
}

func validateEmailAddress(email string) error {
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	if len(email) > maxEmailLength || len(email) <= minEmailLength {
		return ErrEmailLength
	}
	return nil
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword(
		[]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

func (s *service) Register(email, login, password string) (*User, error) {
	if err := validateEmailAddress(email); err != nil {
		return nil, err
	}

	if len(login) == 0 {
		parts := strings.Split(email, "@")
		if len(parts) < 2 {
			return nil, ErrInvalidEmail
		}
		login = parts[0]
	} else if len(login) > maxLoginLength || len(login) < minLoginLength {
		return nil, ErrLoginLength
	}

	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	existingUser, err := s.repo.userExistsByLoginOrEmail(login, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		fmt.Println("Error with database request")
		return nil, ErrInternalError
	}

	if existingUser != nil {
		if existingUser.Login == login {
			return nil, ErrLoginAlreadyExists
		} else if existingUser.Email == email {
			return nil, ErrEmailAlreadyExists
		}
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		fmt.Println("Error during hashing the password")
		return nil, ErrInternalError
	}

	hashToken, err := generateHashToken()
	if err != nil {
		fmt.Println("Error during generating a hashToken")
		return nil, ErrInternalError
	}

	user := &User{
		Email:        email,
		Login:        login,
		Avatar:       defaultAvatar,
		PasswordHash: passwordHash,
		HashToken:    hashToken,
	}

	if err := s.repo.createUser(user); err != nil {
		fmt.Println("Error during creating the user: ", err)
		return nil, ErrInternalError
	}

	if err := s.repo.saveSettings(user.ID, Settings{Theme: defaultTheme, DefaultView: defaultViewMode}); err != nil {
		fmt.Println("Error during creating default settings: ", err)
		return nil, ErrInternalError
	}

	// Seeding is best effort, the account is usable without starter data.
	if err := s.seeder.SeedDefaultData(context.Background(), user.ID); err != nil {
		fmt.Println("Error during seeding default data: ", err)
	}

	return user, nil
}

func (s *service) GetUserByID(userID string) (*User, error) {
	return s.repo.getUserByID(userID)
}

func (s *service) GetUserByLoginOrEmail(loginOrEmail string) (*User, error) {
	return s.repo.getUserByLoginOrEmail(loginOrEmail)
}

func (s *service) UpdateProfile(userID, login, avatar string) (*User, error) {
	existingUser, err := s.repo.getUserByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternalError
	}

	if login == "" {
		login = existingUser.Login
	} else if len(login) > maxLoginLength || len(login) < minLoginLength {
		return nil, ErrLoginLength
	}

	if login != existingUser.Login {
		other, err := s.repo.getUserByLogin(login)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, ErrInternalError
		}
		if other != nil && other.ID != userID {
			return nil, ErrLoginAlreadyExists
		}
	}

	if avatar == "" {
		avatar = existingUser.Avatar
	} else if len([]rune(avatar)) > maxAvatarLength {
		avatar = existingUser.Avatar
	}

	if err := s.repo.updateProfile(userID, login, avatar); err != nil {
		return nil, ErrInternalError
	}

	existingUser.Login = login
	existingUser.Avatar = avatar
	return existingUser, nil
}

func (s *service) ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error {
	user, err := s.repo.getUserByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if !doPasswordsMatch(user.PasswordHash, oldPassword) {
		return ErrInvalidOldPassword
	}

	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	newPasswordHash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("could not hash password: %v", err)
	}

	// Rotating the hash token invalidates every refresh token issued so far.
	newHashToken, err := generateHashToken()
	if err != nil {
		return fmt.Errorf("could not generate hash token: %v", err)
	}

	if err := s.repo.updateUserPasswordAndHashToken(userID, newPasswordHash, newHashToken); err != nil {
		return fmt.Errorf("could not update user password: %v", err)
	}

	return nil
}

func (s *service) GetSettings(userID string) (*Settings, error) {
	settings, err := s.repo.getSettings(userID)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			defaults := Settings{Theme: defaultTheme, DefaultView: defaultViewMode}
			if err := s.repo.saveSettings(userID, defaults); err != nil {
				return nil, ErrInternalError
			}
			return &defaults, nil
		}
		return nil, ErrInternalError
	}
	return settings, nil
}

func (s *service) UpdateSettings(userID string, settings Settings) (*Settings, error) {
	if settings.Theme == "" {
		settings.Theme = defaultTheme
	}
	if settings.DefaultView == "" {
		settings.DefaultView = defaultViewMode
	}
	if err := s.repo.saveSettings(userID, settings); err != nil {
		return nil, ErrInternalError
	}
	return &settings, nil
}

func (s *service) DeleteAccount(userID, password string) error {
	user, err := s.repo.getUserByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if !doPasswordsMatch(user.PasswordHash, password) {
		return ErrInvalidPassword
	}

	// Bookmarks go before categories, both before the user row.
	if err := s.purger.PurgeUserData(context.Background(), userID); err != nil {
		fmt.Println("Error during purging user data: ", err)
		return ErrInternalError
	}

	if err := s.repo.deleteSettings(userID); err != nil {
		return ErrInternalError
	}

	if err := s.repo.deleteUser(userID); err != nil {
		return ErrInternalError
	}

	return nil
}
