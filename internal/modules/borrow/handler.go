package borrow

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/borrows")
	{
		g.POST("", h.BorrowBook)
		g.PUT("/:id/return", h.ReturnBook)
		g.GET("/user", h.GetUserBorrows)
	}
}

func (h *Handler) BorrowBook(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req BorrowBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Borrow(c.Request.Context(), userID, req.BookID, req.ReturnDate)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Return date must be in the future")
		case errors.Is(err, ErrBookNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Book not found")
		case errors.Is(err, ErrNotAvailable):
			response.Error(c, http.StatusBadRequest, "NOT_AVAILABLE", "Book is not available")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Error borrowing book")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"borrow": b})
}

func (h *Handler) ReturnBook(c *gin.Context) {
	borrowID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || borrowID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid borrow ID")
		return
	}

	b, err := h.service.Return(c.Request.Context(), borrowID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBorrowNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Borrow record not found")
		case errors.Is(err, ErrAlreadyReturned):
			response.Error(c, http.StatusBadRequest, "ALREADY_RETURNED", "Book already returned")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Error returning book")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"borrow": b})
}

func (h *Handler) GetUserBorrows(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	list, err := h.service.ListUserBorrows(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Error fetching borrows")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"borrows": list})
}
