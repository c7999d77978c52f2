package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cafeteria/internal/model"
	"cafeteria/internal/service"
)

// FeedbackHandler records meal feedback.
type FeedbackHandler struct {
	feedback service.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(feedback service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// FeedbackRequest leaves feedback on a meal of one of the client's orders.
type FeedbackRequest struct {
	OrderID  string `json:"orderId" validate:"required"`
	Client   string `json:"client" validate:"omitempty,email"`
	MealID   string `json:"mealId" validate:"required"`
	Feedback string `json:"feedback" validate:"required"`
	Rating   int    `json:"rating"`
}

// FeedbackResponse wraps the stored feedback.
type FeedbackResponse struct {
	Message  string          `json:"message"`
	Feedback *model.Feedback `json:"feedback"`
}

// LeaveFeedback godoc
// @Summary Rate a meal
// @Description Creates the caller's feedback for the meal, or replaces it if one exists.
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FeedbackRequest true "Feedback"
// @Success 200 {object} FeedbackResponse "updated"
// @Success 201 {object} FeedbackResponse "created"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /leavefeedback [post]
func (h *FeedbackHandler) LeaveFeedback(c echo.Context) error {
	var req FeedbackRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	email, err := actingEmail(c, req.Client)
	if err != nil {
		return errorResponse(c, err)
	}

	fb, created, err := h.feedback.SubmitFeedback(c.Request().Context(), service.SubmitFeedbackInput{
		OrderID:     req.OrderID,
		ClientEmail: email,
		MealID:      req.MealID,
		Rating:      req.Rating,
		Text:        req.Feedback,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	if created {
		return c.JSON(http.StatusCreated, FeedbackResponse{Message: "feedback added", Feedback: fb})
	}
	return c.JSON(http.StatusOK, FeedbackResponse{Message: "feedback updated", Feedback: fb})
}
