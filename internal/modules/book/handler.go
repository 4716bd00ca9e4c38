package book

import (
	"errors"
	"net/http"
	"strconv"

	"bookhive/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts read routes on rg and write routes on staffGroup.
func (h *Handler) RegisterRoutes(rg, staffGroup, adminGroup *gin.RouterGroup) {
	g := rg.Group("/books")
	{
		g.GET("", h.GetBooks)
		g.GET("/stats", h.GetStats)
		g.GET("/:id", h.GetBook)
	}

	s := staffGroup.Group("/books")
	{
		s.POST("", h.CreateBook)
		s.PUT("/:id", h.UpdateBook)
	}

	a := adminGroup.Group("/books")
	{
		a.DELETE("/:id", h.DeleteBook)
	}
}

func (h *Handler) GetBooks(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Error fetching books")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"books": list})
}

func (h *Handler) GetBook(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid book ID")
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Book not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Error fetching book")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"book": b})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Error fetching book stats")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

func (h *Handler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Title, author, ISBN and a positive quantity are required")
		return
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrDuplicateISBN) {
			response.Error(c, http.StatusConflict, "DUPLICATE_ISBN", "A book with this ISBN already exists")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Error creating book")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"book": b})
}

func (h *Handler) UpdateBook(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid book ID")
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Book not found")
		case errors.Is(err, ErrDuplicateISBN):
			response.Error(c, http.StatusConflict, "DUPLICATE_ISBN", "A book with this ISBN already exists")
		case errors.Is(err, ErrQuantityTooLow):
			response.Error(c, http.StatusBadRequest, "QUANTITY_TOO_LOW", "Quantity cannot drop below borrowed copies")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Error updating book")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"book": b})
}

func (h *Handler) DeleteBook(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid book ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrBookNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Book not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Error deleting book")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Book deleted"})
}
