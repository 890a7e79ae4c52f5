// Package authors implements the /api/authors handlers.
package authors

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sakaleshhubli/books-api/internal/api/response"
	"github.com/sakaleshhubli/books-api/internal/model"
	"github.com/sakaleshhubli/books-api/internal/search"
	"github.com/sakaleshhubli/books-api/internal/storage"
	"github.com/sakaleshhubli/books-api/internal/validator"
)

// Handler serves author CRUD and search endpoints.
type Handler struct {
	store  *storage.Collection[model.Author]
	logger *zap.Logger
}

// NewHandler creates an authors Handler.
func NewHandler(store *storage.Collection[model.Author], logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger.Named("authors")}
}

// List returns all authors with pagination.
func (h *Handler) List(c *gin.Context) {
	page, perPage, ok := pageParams(c)
	if !ok {
		return
	}

	items, pagination := search.Paginate(h.store.All(), page, perPage)
	response.List(c, items, pagination)
}

// Get returns a single author by id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	author, err := h.store.Get(id)
	if err != nil {
		response.Error(c, http.StatusNotFound, "Author not found", "")
		return
	}
	response.OK(c, http.StatusOK, author)
}

// Create validates the payload and stores a new author.
func (h *Handler) Create(c *gin.Context) {
	var in model.CreateAuthorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON payload", err.Error())
		return
	}

	v := validator.New()
	if model.ValidateAuthor(v, in); !v.Valid() {
		response.ValidationFailed(c, v.Errors)
		return
	}

	author, err := h.store.Insert(func(id int) model.Author {
		return model.NewAuthor(id, in, time.Now())
	})
	if err != nil {
		h.logger.Error("failed to save author", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	response.Message(c, http.StatusCreated, author, "Author created successfully")
}

// Update applies a partial update to an existing author. The death/birth
// cross-check validates the payload alone; fields already stored are not
// re-validated against it.
func (h *Handler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var in model.UpdateAuthorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON payload", err.Error())
		return
	}

	v := validator.New()
	if model.ValidateAuthorUpdate(v, in); !v.Valid() {
		response.ValidationFailed(c, v.Errors)
		return
	}

	author, err := h.store.Update(id, func(a model.Author) model.Author {
		return in.Apply(a, time.Now())
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Author not found", "")
			return
		}
		h.logger.Error("failed to save author", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	response.Message(c, http.StatusOK, author, "Author updated successfully")
}

// Delete removes an author. Books referencing the author by name are left
// untouched; there is no cascade.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	author, err := h.store.Delete(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Author not found", "")
			return
		}
		h.logger.Error("failed to delete author", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	response.Message(c, http.StatusOK, author, "Author deleted successfully")
}

// Search filters authors by a free-text query over name and biography.
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
