package apiv1

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"med-diagnosis-api/meta"
)

// Account is an administrator credential. Accounts guard the admin CRUD
// surface over diseases, symptoms and other accounts.
type Account struct {
	meta.BaseResource `json:",inline"`

	// Username is the unique login name.
	Username string `gorm:"size:100;not null;unique" json:"username" binding:"required"`

	// Email is the administrator's email address.
	Email string `gorm:"size:100;not null;unique" json:"email" binding:"required,email"`

	// Password carries the plaintext credential on requests only. The
	// create/update hooks hash it into PasswordHash and clear it, so it
	// never reaches the database or a response body.
	Password string `gorm:"-" json:"password,omitempty"`

	// PasswordHash is the stored bcrypt hash. Never serialized.
	PasswordHash string `gorm:"column:password;size:100;not null" json:"-"`

	// IsActive indicates whether the account may log in.
	IsActive bool `gorm:"default:true" json:"isActive"`
}

// TableName specifies the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// isHashedPassword checks if a password is already a bcrypt hash
func isHashedPassword(password string) bool {
	return strings.HasPrefix(password, "$2a$") || strings.HasPrefix(password, "$2b$")
}

// Validate implements meta.ResourceValidator.
func (a *Account) Validate() error {
	if a.Username == "" {
		return errors.New("username is required")
	}
	if len(a.Username) < 3 {
		return errors.New("username must be at least 3 characters long")
	}

	if a.Email == "" {
		return errors.New("email is required")
	}
	if !emailRegex.MatchString(a.Email) {
		return errors.New("invalid email format")
	}

	if a.Password == "" && a.PasswordHash == "" {
		return errors.New("password is required")
	}

	return nil
}

// SetPassword hashes the given plaintext into the stored hash.
func (a *Account) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hashedPassword)
	a.Password = ""
	return nil
}

// ComparePassword compares the given password with the stored hash.
func (a *Account) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
}

// hashPassword moves a pending plaintext credential into the hash. A
// credential that already looks like a bcrypt hash is stored as-is.
func (a *Account) hashPassword() error {
	if a.Password == "" {
		return nil
	}
	if isHashedPassword(a.Password) {
		a.PasswordHash = a.Password
		a.Password = ""
		return nil
	}
	return a.SetPassword(a.Password)
}

// BeforeCreate is a GORM hook that runs before creating an account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	a.Kind = "Account"
	a.APIVersion = "v1"

	a.SetStatus("Active", "Account created", "Created")

	if err := a.hashPassword(); err != nil {
		return err
	}
	if a.PasswordHash == "" {
		return errors.New("password is required")
	}

	return a.BaseResource.BeforeCreate(tx)
}

// BeforeUpdate is a GORM hook that runs before updating an account.
// An update without a password keeps the stored hash.
func (a *Account) BeforeUpdate(tx *gorm.DB) error {
	a.Kind = "Account"
	a.APIVersion = "v1"

	a.SetStatus("Active", "Account updated", "Updated")

	if err := a.hashPassword(); err != nil {
		return err
	}
	if a.PasswordHash == "" {
		return errors.New("password is required")
	}

	return a.BaseResource.BeforeUpdate(tx)
}
