package bookrequest

import (
	"errors"
	"net/http"
	"strconv"

	"bookhive/internal/domain"
	"bookhive/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts member routes on memberGroup and admin routes on
// adminGroup. Filing a request is a member action; staff drive the lifecycle.
func (h *Handler) RegisterRoutes(memberGroup, adminGroup *gin.RouterGroup) {
	g := memberGroup.Group("/book-requests")
	{
		g.POST("", h.CreateRequest)
		g.GET("/mine", h.GetMyRequests)
	}

	a := adminGroup.Group("/book-requests")
	{
		a.GET("", h.GetAllRequests)
		a.PUT("/:id/approve", h.ApproveRequest)
		a.PUT("/:id/reject", h.RejectRequest)
		a.PUT("/:id/start-acquisition", h.StartAcquisition)
		a.PUT("/:id/complete-acquisition", h.CompleteAcquisition)
	}
}

func (h *Handler) CreateRequest(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Title and author are required")
		return
	}

	r, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Title and author are required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Error creating book request")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"request": r})
}

func (h *Handler) GetAllRequests(c *gin.Context) {
	list, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Error fetching book requests")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"requests": list})
}

func (h *Handler) GetMyRequests(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	list, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Error fetching book requests")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"requests": list})
}

func (h *Handler) ApproveRequest(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, id int64) (*domain.BookRequest, error) {
		return h.service.Approve(ctx.Request.Context(), id)
	})
}

func (h *Handler) RejectRequest(c *gin.Context) {
	var req RejectRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	h.transition(c, func(ctx *gin.Context, id int64) (*domain.BookRequest, error) {
		return h.service.Reject(ctx.Request.Context(), id, req.Comment)
	})
}

func (h *Handler) StartAcquisition(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, id int64) (*domain.BookRequest, error) {
		return h.service.StartAcquisition(ctx.Request.Context(), id)
	})
}

func (h *Handler) CompleteAcquisition(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, id int64) (*domain.BookRequest, error) {
		return h.service.CompleteAcquisition(ctx.Request.Context(), id)
	})
}

func (h *Handler) transition(c *gin.Context, do func(*gin.Context, int64) (*domain.BookRequest, error)) {
	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || requestID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	r, err := do(c, requestID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Book request not found")
		case errors.Is(err, ErrInvalidState):
			response.Error(c, http.StatusBadRequest, "INVALID_STATE", "Request cannot move to that state")
		case errors.Is(err, ErrCommentRequired):
			response.Error(c, http.StatusBadRequest, "COMMENT_REQUIRED", "Rejection requires a comment")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Error updating book request")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"request": r})
}
