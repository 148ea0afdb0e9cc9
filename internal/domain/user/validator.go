package user

import (
	"fmt"
	"net/mail"
	"strings"
)

// Validator - проверка учетных данных до обращения к бэкенду
type Validator interface {
	ValidateCredentials(c Credentials) error
}

type CredentialsValidator struct{}

func NewCredentialsValidator() *CredentialsValidator {
	return &CredentialsValidator{}
}

// ValidateCredentials проверяет email и наличие пароля
func (v *CredentialsValidator) ValidateCredentials(c Credentials) error {
	if err := v.ValidateEmail(c.Email); err != nil {
		return err
	}
	if c.Password == "" {
		return ErrPasswordMissing
	}
	return nil
}

// ValidateEmail валидирует email
func (v *CredentialsValidator) ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: empty", ErrInvalidEmail)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	return nil
}
