package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dulina2004/ai-personal-budget-optimizer/internal/models"
	"github.com/dulina2004/ai-personal-budget-optimizer/internal/services"
	"github.com/dulina2004/ai-personal-budget-optimizer/internal/validation"
)

type BudgetHandler struct {
	validator       *validation.Validator
	session         *services.PlanSession
	recommendations *services.RecommendationService
	metrics         *services.Metrics
}

func NewBudgetHandler(validator *validation.Validator, session *services.PlanSession, recommendations *services.RecommendationService, metrics *services.Metrics) *BudgetHandler {
	return &BudgetHandler{
		validator:       validator,
		session:         session,
		recommendations: recommendations,
		metrics:         metrics,
	}
}

// Allocate handles POST /v1/budget/allocate
func (h *BudgetHandler) Allocate(c *fiber.Ctx) error {
	var input models.BudgetInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body", err.Error())
	}
	if fieldErrors := h.validator.Validate(input); fieldErrors != nil {
		return validationFailed(c, fieldErrors)
	}

	result := services.Allocate(input)
	h.metrics.ObserveAllocation(result)

	// Infeasible budgets are a modeled outcome, not an error
	return c.JSON(result)
}

// Plan handles POST /v1/budget/plan
func (h *BudgetHandler) Plan(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	var input models.BudgetInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body", err.Error())
	}
	if fieldErrors := h.validator.Validate(input); fieldErrors != nil {
		return validationFailed(c, fieldErrors)
	}

	result := services.Allocate(input)
	h.metrics.ObserveAllocation(result)

	data := models.NewBudgetData(input, result.TotalFixedExpenses)
	rec := h.recommendations.GetRecommendation(ctx, data)

	return c.JSON(models.PlanResponse{
		Budget:         result,
		Recommendation: rec,
	})
}

// Submit handles POST /v1/budget/submissions
func (h *BudgetHandler) Submit(c *fiber.Ctx) error {
	var input models.BudgetInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body", err.Error())
	}
	if fieldErrors := h.validator.Validate(input); fieldErrors != nil {
		return validationFailed(c, fieldErrors)
	}

	id, result := h.session.Submit(input)

	return c.Status(fiber.StatusAccepted).JSON(models.SubmissionResponse{
		SubmissionID:         id,
		Budget:               result,
		RecommendationStatus: models.RecommendationPending,
	})
}

// GetRecommendation handles GET /v1/budget/submissions/:id/recommendation
func (h *BudgetHandler) GetRecommendation(c *fiber.Ctx) error {
	id := c.Params("id")

	status, rec, ok := h.session.Recommendation(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error:   "Submission not found",
			Message: "No submission exists with id " + id,
			Code:    fiber.StatusNotFound,
		})
	}

	return c.JSON(models.RecommendationStatusResponse{
		SubmissionID:   id,
		Status:         status,
		Recommendation: rec,
	})
}

func badRequest(c *fiber.Ctx, title, detail string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error:   title,
		Message: detail,
		Code:    fiber.StatusBadRequest,
	})
}

func validationFailed(c *fiber.Ctx, fieldErrors map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error:  "Validation failed",
		Fields: fieldErrors,
		Code:   fiber.StatusBadRequest,
	})
}

// CustomErrorHandler handles Fiber errors
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error:   "Request failed",
		Message: err.Error(),
		Code:    code,
	})
}
