package model

import "time"

// Book represents a single book record persisted in the books collection.
// Author is free text, not a reference into the authors collection.
type Book struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Year        *int      `json:"year"`
	Genre       string    `json:"genre"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecordID implements storage.Record.
func (b Book) RecordID() int { return b.ID }

// SearchFields returns the fields matched by free-text search.
func (b Book) SearchFields() []string {
	return []string{b.Title, b.Author, b.Genre, b.Description}
}

// CreateBookInput holds the fields a client supplies when creating a book.
type CreateBookInput struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Year        *int   `json:"year"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
}

// UpdateBookInput holds the fields a client may supply on PUT. Every field is
// a pointer so "not provided" (nil) is distinct from "set to empty"; only
// non-nil fields are applied.
type UpdateBookInput struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Year        *int    `json:"year"`
	Genre       *string `json:"genre"`
	Description *string `json:"description"`
}

// NewBook builds a Book from a validated create input, assigning the given id
// and stamping both timestamps with now.
func NewBook(id int, in CreateBookInput, now time.Time) Book {
	return Book{
		ID:          id,
		Title:       in.Title,
		Author:      in.Author,
		Year:        in.Year,
		Genre:       in.Genre,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply copies the non-nil fields of in onto b and bumps UpdatedAt.
func (in UpdateBookInput) Apply(b Book, now time.Time) Book {
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Author != nil {
		b.Author = *in.Author
	}
	if in.Year != nil {
		b.Year = in.Year
	}
	if in.Genre != nil {
		b.Genre = *in.Genre
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	b.UpdatedAt = now
	return b
}
