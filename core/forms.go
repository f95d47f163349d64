package core

import (
	"regexp"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Form validation. Each form validates itself and returns the first
// failing rule as a field-scoped *Error with KindValidation, so the
// caller surfaces exactly one message at a time.

const (
	PasswordMinLen = 8
	PasswordMaxLen = 100

	TitleMaxLen       = 100
	DescriptionMaxLen = 300
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if !emailRegexp.MatchString(email) {
		return ValidationError("email", "Please enter a valid email")
	}
	return nil
}

// Length rules count characters, not bytes, so multibyte input
// measures the way the user typed it.
func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < PasswordMinLen {
		return ValidationError("password", "Password must be at least 8 characters")
	}
	if n > PasswordMaxLen {
		return ValidationError("password", "Password is too long")
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return ValidationError("title", "Title is required")
	}
	if utf8.RuneCountInString(title) > TitleMaxLen {
		return ValidationError("title", "Title must be less than 100 characters")
	}
	return nil
}

func validateDescription(description *string) error {
	if description != nil && utf8.RuneCountInString(*description) > DescriptionMaxLen {
		return ValidationError("description", "Description must be less than 300 characters")
	}
	return nil
}

func validateTodoID(id string) error {
	if uuid.Validate(id) != nil {
		return ValidationError("id", "Invalid todo ID format")
	}
	return nil
}

// SignupForm carries the signup request fields.
type SignupForm struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (f SignupForm) Validate() error {
	if err := validateEmail(f.Email); err != nil {
		return err
	}
	if err := validatePassword(f.Password); err != nil {
		return err
	}
	if f.Password != f.ConfirmPassword {
		return ValidationError("confirmPassword", "Passwords do not match")
	}
	return nil
}

// LoginForm carries the login request fields. The password is not
// length-checked here; the provider decides whether it matches.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() error {
	if err := validateEmail(f.Email); err != nil {
		return err
	}
	if f.Password == "" {
		return ValidationError("password", "Password is required")
	}
	return nil
}

// ForgotPasswordForm requests a password-recovery mail.
type ForgotPasswordForm struct {
	Email string `json:"email"`
}

func (f ForgotPasswordForm) Validate() error {
	return validateEmail(f.Email)
}

// ResetPasswordForm sets a new password for the current session's user.
type ResetPasswordForm struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (f ResetPasswordForm) Validate() error {
	if err := validatePassword(f.Password); err != nil {
		return err
	}
	if f.Password != f.ConfirmPassword {
		return ValidationError("confirmPassword", "Passwords do not match")
	}
	return nil
}

// TodoCreateForm creates a new todo.
type TodoCreateForm struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

func (f TodoCreateForm) Validate() error {
	if err := validateTitle(f.Title); err != nil {
		return err
	}
	return validateDescription(f.Description)
}

// TodoUpdateForm replaces a todo's mutable fields.
type TodoUpdateForm struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func (f TodoUpdateForm) Validate() error {
	if err := validateTodoID(f.ID); err != nil {
		return err
	}
	if err := validateTitle(f.Title); err != nil {
		return err
	}
	return validateDescription(f.Description)
}

// TodoDeleteForm removes a todo.
type TodoDeleteForm struct {
	ID string `json:"id"`
}

func (f TodoDeleteForm) Validate() error {
	return validateTodoID(f.ID)
}

// TodoToggleForm sets a todo's completed flag.
type TodoToggleForm struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

func (f TodoToggleForm) Validate() error {
	return validateTodoID(f.ID)
}
