// Package books implements the /api/books handlers.
package books

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sakaleshhubli/books-api/internal/api/response"
	"github.com/sakaleshhubli/books-api/internal/model"
	"github.com/sakaleshhubli/books-api/internal/search"
	"github.com/sakaleshhubli/books-api/internal/storage"
	"github.com/sakaleshhubli/books-api/internal/validator"
)

// Handler serves book CRUD, search and lookup endpoints.
type Handler struct {
	store  *storage.Collection[model.Book]
	logger *zap.Logger
}

// NewHandler creates a books Handler.
func NewHandler(store *storage.Collection[model.Book], logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger.Named("books")}
}

// List returns all books with pagination.
func (h *Handler) List(c *gin.Context) {
	page, perPage, ok := pageParams(c)
	if !ok {
		return
	}

	items, pagination := search.Paginate(h.store.All(), page, perPage)
	response.List(c, items, pagination)
}

// Get returns a single book by id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	book, err := h.store.Get(id)
	if err != nil {
		response.Error(c, http.StatusNotFound, "Book not found", "")
		return
	}
	response.OK(c, http.StatusOK, book)
}

// Create validates the payload and stores a new book.
func (h *Handler) Create(c *gin.Context) {
	var in model.CreateBookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON payload", err.Error())
		return
	}

	v := validator.New()
	if model.ValidateBook(v, in); !v.Valid() {
		response.ValidationFailed(c, v.Errors)
		return
	}

	book, err := h.store.Insert(func(id int) model.Book {
		return model.NewBook(id, in, time.Now())
	})
	if err != nil {
		h.logger.Error("failed to save book", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	response.Message(c, http.StatusCreated, book, "Book created successfully")
}

// Update applies a partial update to an existing book.
func (h *Handler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var in model.UpdateBookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON payload", err.Error())
		return
	}

	v := validator.New()
	if model.ValidateBookUpdate(v, in); !v.Valid() {
		response.ValidationFailed(c, v.Errors)
		return
	}

	book, err := h.store.Update(id, func(b model.Book) model.Book {
		return in.Apply(b, time.Now())
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Book not found", "")
			return
		}
		h.logger.Error("failed to save book", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	response.Message(c, http.StatusOK, book, "Book updated successfully")
}

// Delete removes a book. The delete is hard; ids of deleted records are not
// reserved.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	book, err := h.store.Delete(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Book not found", "")
			return
		}
		h.logger.Error("failed to delete book", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	response.Message(c, http.StatusOK, book, "Book deleted successfully")
}

// Search filters books by a free-text query over title, author, genre and
// description, then paginates the matches.
func (h *Handler) Search(c *gin.Context) {
	page, perPage, ok := pageParams(c)
	if !ok {
		return
	}

	results, err := search.Match(h.store.All(), c.Query("q"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid search query", err.Error())
		return
	}

	items, pagination := search.Paginate(results, page, perPage)
	response.List(c, items, pagination)
}

// ByAuthor returns the books whose author field contains the given name,
// case-insensitively. A partial name like "austen" is enough.
func (h *Handler) ByAuthor(c *gin.Context) {
	name := strings.ToLower(c.Param("name"))
	var books []model.Book
	for _, b := range h.store.All() {
		if strings.Contains(strings.ToLower(b.Author), name) {
			books = append(books, b)
		}
	}
	if books == nil {
		books = []model.Book{}
	}
	response.OK(c, http.StatusOK, books)
}

// ByGenre returns the books of the given genre, case-insensitively.
func (h *Handler) ByGenre(c *gin.Context) {
	genre := strings.ToLower(c.Param("genre"))
	var books []model.Book
	for _, b := range h.store.All() {
		if strings.ToLower(b.Genre) == genre {
			books = append(books, b)
		}
	}
	if books == nil {
		books = []model.Book{}
	}
	response.OK(c, http.StatusOK, books)
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "Invalid id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int, int, bool) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.Error(c, http.StatusBadRequest, "Invalid pagination", "page must be a positive integer")
			return 0, 0, false
		}
		page = n
	}

	perPage := search.DefaultPerPage
	if raw := c.Query("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.Error(c, http.StatusBadRequest, "Invalid pagination", "per_page must be a positive integer")
			return 0, 0, false
		}
		perPage = n
	}

	return page, perPage, true
}
