package admincore

import (
	"fmt"
	"strings"
)

const minPasswordLength = 6

// FieldErrors maps field names to human-readable problems. It unwraps to
// [ErrValidation] so callers can match the class with errors.Is.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for name := range fe {
		fields = append(fields, name)
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(fields, ", "))
}

func (fe FieldErrors) Unwrap() error { return ErrValidation }

// ValidateCredentials checks a login form before it is sent to the provider.
func ValidateCredentials(email, password string) error {
	fe := FieldErrors{}
	if !validEmail(email) {
		fe["email"] = "malformed email"
	}
	if len(password) < minPasswordLength {
		fe["password"] = fmt.Sprintf("shorter than %d characters", minPasswordLength)
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// UserForm is the editable subset of a dashboard user.
type UserForm struct {
	Nombre   string
	Email    string
	Telefono string
	Rol      string
	Password string
}

// ValidateUserForm checks a new-user form. Staff accounts sign in
// themselves, so barbero and admin require a password; cliente does not.
func ValidateUserForm(form UserForm) error {
	return validateUser(form, true)
}

// ValidateUserUpdate checks an edit form. Same rules as [ValidateUserForm]
// except an empty password means "keep the current one"; a non-empty one is
// still held to the minimum length.
func ValidateUserUpdate(form UserForm) error {
	return validateUser(form, false)
}

func validateUser(form UserForm, passwordRequired bool) error {
	fe := FieldErrors{}
	if strings.TrimSpace(form.Nombre) == "" {
		fe["nombre"] = "required"
	}
	if !validEmail(form.Email) {
		fe["email"] = "malformed email"
	}
	switch form.Rol {
	case RolCliente:
	case RolBarbero, RolAdmin:
		switch {
		case form.Password == "" && !passwordRequired:
		case len(form.Password) < minPasswordLength:
			fe["password"] = fmt.Sprintf("required for role %q, minimum %d characters", form.Rol, minPasswordLength)
		}
	default:
		fe["rol"] = fmt.Sprintf("unknown role %q", form.Rol)
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// validEmail applies the same loose shape check the login form uses: one @
// with a dot somewhere after it. The provider is the real authority.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1 && !strings.Contains(domain, "@")
}
