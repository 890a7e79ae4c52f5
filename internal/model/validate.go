package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/sakaleshhubli/books-api/internal/validator"
)

// Validation limits. Year upper bounds are computed per call so long-running
// processes do not drift across a year boundary.
const (
	MaxTitleLength       = 200
	MaxAuthorLength      = 100
	MaxGenreLength       = 50
	MaxDescriptionLength = 1000
	MinBookYear          = 1800
	MinAuthorYear        = 1000

	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxEmailLength    = 255
)

// ValidateBook checks a create payload. Required-field failures mask the
// length checks for the same field.
func ValidateBook(v *validator.Validator, in CreateBookInput) {
	v.Check(strings.TrimSpace(in.Title) != "", "title", "must be provided")
	v.Check(len(in.Title) <= MaxTitleLength, "title", fmt.Sprintf("must not be more than %d characters", MaxTitleLength))

	v.Check(strings.TrimSpace(in.Author) != "", "author", "must be provided")
	v.Check(len(in.Author) <= MaxAuthorLength, "author", fmt.Sprintf("must not be more than %d characters", MaxAuthorLength))

	checkBookOptional(v, in.Year, in.Genre, in.Description)
}

// ValidateBookUpdate checks a partial update payload; only supplied fields
// are validated.
func ValidateBookUpdate(v *validator.Validator, in UpdateBookInput) {
	if in.Title != nil {
		v.Check(strings.TrimSpace(*in.Title) != "", "title", "must not be empty")
		v.Check(len(*in.Title) <= MaxTitleLength, "title", fmt.Sprintf("must not be more than %d characters", MaxTitleLength))
	}
	if in.Author != nil {
		v.Check(strings.TrimSpace(*in.Author) != "", "author", "must not be empty")
		v.Check(len(*in.Author) <= MaxAuthorLength, "author", fmt.Sprintf("must not be more than %d characters", MaxAuthorLength))
	}

	genre, description := "", ""
	if in.Genre != nil {
		genre = *in.Genre
	}
	if in.Description != nil {
		description = *in.Description
	}
	checkBookOptional(v, in.Year, genre, description)
}

func checkBookOptional(v *validator.Validator, year *int, genre, description string) {
	if year != nil {
		maxYear := time.Now().Year() + 1
		v.Check(*year >= MinBookYear && *year <= maxYear, "year", fmt.Sprintf("must be between %d and %d", MinBookYear, maxYear))
	}
	v.Check(len(genre) <= MaxGenreLength, "genre", fmt.Sprintf("must not be more than %d characters", MaxGenreLength))
	v.Check(len(description) <= MaxDescriptionLength, "description", fmt.Sprintf("must not be more than %d characters", MaxDescriptionLength))
}

// ValidateAuthor checks a create payload. The death/birth cross-check runs
// only when both years are present.
func ValidateAuthor(v *validator.Validator, in CreateAuthorInput) {
	v.Check(strings.TrimSpace(in.Name) != "", "name", "must be provided")
	v.Check(len(in.Name) <= MaxAuthorLength, "name", fmt.Sprintf("must not be more than %d characters", MaxAuthorLength))

	checkAuthorYears(v, in.BirthYear, in.DeathYear)
}

// ValidateAuthorUpdate checks a partial update payload.
func ValidateAuthorUpdate(v *validator.Validator, in UpdateAuthorInput) {
	if in.Name != nil {
		v.Check(strings.TrimSpace(*in.Name) != "", "name", "must not be empty")
		v.Check(len(*in.Name) <= MaxAuthorLength, "name", fmt.Sprintf("must not be more than %d characters", MaxAuthorLength))
	}
	checkAuthorYears(v, in.BirthYear, in.DeathYear)
}

func checkAuthorYears(v *validator.Validator, birth, death *int) {
	currentYear := time.Now().Year()
	if birth != nil {
		v.Check(*birth >= MinAuthorYear && *birth <= currentYear, "birth_year", fmt.Sprintf("must be between %d and %d", MinAuthorYear, currentYear))
	}
	if death != nil {
		v.Check(*death >= MinAuthorYear && *death <= currentYear, "death_year", fmt.Sprintf("must be between %d and %d", MinAuthorYear, currentYear))
	}
	if birth != nil && death != nil {
		v.Check(*death > *birth, "death_year", "must be after birth year")
	}
}

// ValidateRegister checks a registration payload.
func ValidateRegister(v *validator.Validator, in RegisterInput) {
	v.Check(strings.TrimSpace(in.Username) != "", "username", "must be provided")
	v.Check(len(in.Username) >= MinUsernameLength, "username", fmt.Sprintf("must be at least %d characters", MinUsernameLength))
	v.Check(len(in.Username) <= MaxUsernameLength, "username", fmt.Sprintf("must not be more than %d characters", MaxUsernameLength))

	v.Check(strings.TrimSpace(in.Email) != "", "email", "must be provided")
	v.Check(len(in.Email) <= MaxEmailLength, "email", fmt.Sprintf("must not be more than %d characters", MaxEmailLength))
	if in.Email != "" {
		v.Check(validator.Matches(in.Email, validator.EmailRX), "email", "must be a valid email address")
	}

	v.Check(in.Password != "", "password", "must be provided")
	v.Check(len(in.Password) >= MinPasswordLength, "password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	v.Check(len(in.Password) <= MaxPasswordLength, "password", fmt.Sprintf("must not be more than %d characters", MaxPasswordLength))
}

// ValidateUserUpdate checks the supplied fields of a user update.
func ValidateUserUpdate(v *validator.Validator, in UpdateUserInput) {
	if in.Username != nil {
		v.Check(strings.TrimSpace(*in.Username) != "", "username", "must not be empty")
		v.Check(len(*in.Username) >= MinUsernameLength, "username", fmt.Sprintf("must be at least %d characters", MinUsernameLength))
		v.Check(len(*in.Username) <= MaxUsernameLength, "username", fmt.Sprintf("must not be more than %d characters", MaxUsernameLength))
	}
	if in.Email != nil {
		v.Check(len(*in.Email) <= MaxEmailLength, "email", fmt.Sprintf("must not be more than %d characters", MaxEmailLength))
		v.Check(validator.Matches(*in.Email, validator.EmailRX), "email", "must be a valid email address")
	}
	if in.Password != nil {
		v.Check(len(*in.Password) >= MinPasswordLength, "password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
		v.Check(len(*in.Password) <= MaxPasswordLength, "password", fmt.Sprintf("must not be more than %d characters", MaxPasswordLength))
	}
	if in.Role != nil {
		v.Check(validator.In(*in.Role, ValidRoles...), "role", fmt.Sprintf("must be one of: %s", strings.Join(ValidRoles, ", ")))
	}
}
