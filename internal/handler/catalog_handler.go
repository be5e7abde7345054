package handler

import (
	"examcraft/internal/dto"
	"examcraft/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListExams returns the public exam catalog with topic names.
func (h *CatalogHandler) ListExams(c *fiber.Ctx) error {
	exams, err := h.catalogService.ListExams(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(exams)
}

// GetExam returns one exam with its topics.
func (h *CatalogHandler) GetExam(c *fiber.Ctx) error {
	exam, err := h.catalogService.GetExam(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(exam)
}

// CreateExam is the back-office endpoint for adding an exam, optionally
// with an initial topic list.
func (h *CatalogHandler) CreateExam(c *fiber.Ctx) error {
	var req dto.CreateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot parse request body")
	}

	exam, err := h.catalogService.CreateExam(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(exam)
}

// UpdateExam is the back-office endpoint for renaming or re-describing an
// exam.
func (h *CatalogHandler) UpdateExam(c *fiber.Ctx) error {
	var req dto.UpdateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot parse request body")
	}

	exam, err := h.catalogService.UpdateExam(c.Context(), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(exam)
}

// DeleteExam removes an exam and its topics.
func (h *CatalogHandler) DeleteExam(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteExam(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "exam deleted"})
}

// AddTopic adds a syllabus topic to an exam.
func (h *CatalogHandler) AddTopic(c *fiber.Ctx) error {
	var req dto.CreateTopicRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot parse request body")
	}

	topic, err := h.catalogService.AddTopic(c.Context(), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(topic)
}

// DeleteTopic removes a topic.
func (h *CatalogHandler) DeleteTopic(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteTopic(c.Context(), c.Params("topicId")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "topic deleted"})
}
