package model

import "time"

// Author represents a single author record. Books reference authors by name
// only; deleting an author does not cascade into the books collection.
type Author struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	BirthYear   *int      `json:"birth_year"`
	DeathYear   *int      `json:"death_year"`
	Nationality string    `json:"nationality"`
	Biography   string    `json:"biography"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecordID implements storage.Record.
func (a Author) RecordID() int { return a.ID }

// SearchFields returns the fields matched by free-text search. Nationality
// is a filter attribute, not a searched field.
func (a Author) SearchFields() []string {
	return []string{a.Name, a.Biography}
}

// CreateAuthorInput holds the fields a client supplies when creating an author.
type CreateAuthorInput struct {
	Name        string `json:"name"`
	BirthYear   *int   `json:"birth_year"`
	DeathYear   *int   `json:"death_year"`
	Nationality string `json:"nationality"`
	Biography   string `json:"biography"`
}

// UpdateAuthorInput holds the fields a client may supply on PUT; only non-nil
// fields are applied.
type UpdateAuthorInput struct {
	Name        *string `json:"name"`
	BirthYear   *int    `json:"birth_year"`
	DeathYear   *int    `json:"death_year"`
	Nationality *string `json:"nationality"`
	Biography   *string `json:"biography"`
}

// NewAuthor builds an Author from a validated create input.
func NewAuthor(id int, in CreateAuthorInput, now time.Time) Author {
	return Author{
		ID:          id,
		Name:        in.Name,
		BirthYear:   in.BirthYear,
		DeathYear:   in.DeathYear,
		Nationality: in.Nationality,
		Biography:   in.Biography,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply copies the non-nil fields of in onto a and bumps UpdatedAt.
func (in UpdateAuthorInput) Apply(a Author, now time.Time) Author {
	if in.Name != nil {
		a.Name = *in.Name
	}
	if in.BirthYear != nil {
		a.BirthYear = in.BirthYear
	}
	if in.DeathYear != nil {
		a.DeathYear = in.DeathYear
	}
	if in.Nationality != nil {
		a.Nationality = *in.Nationality
	}
	if in.Biography != nil {
		a.Biography = *in.Biography
	}
	a.UpdatedAt = now
	return a
}
