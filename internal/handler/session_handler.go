package handler

import (
	"examcraft/internal/dto"
	"examcraft/internal/middleware"
	"examcraft/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SessionHandler struct {
	sessionService service.SessionService
}

func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// CreateSession starts a new mock test session for the authenticated user.
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "user not authenticated")
	}

	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot parse request body")
	}

	resp, err := h.sessionService.StartSession(c.Context(), userID, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSession returns a session with its questions. Correct options are
// withheld while the session is still active.
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.UserIDKey).(string)
	sessionID := c.Params("id")

	resp, err := h.sessionService.GetSession(c.Context(), userID, sessionID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListSessions returns the user's session history.
func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.UserIDKey).(string)

	var p dto.Pagination
	if err := c.QueryParser(&p); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid pagination parameters")
	}

	sessions, err := h.sessionService.ListSessions(c.Context(), userID, p)
	if err != nil {
		return err
	}
	return c.JSON(sessions)
}

// SubmitAnswers scores the session and marks it submitted.
func (h *SessionHandler) SubmitAnswers(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.UserIDKey).(string)
	sessionID := c.Params("id")

	var req dto.SubmitAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot parse request body")
	}

	result, err := h.sessionService.SubmitAnswers(c.Context(), userID, sessionID, &req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// AdminListSessions returns sessions across all users.
func (h *SessionHandler) AdminListSessions(c *fiber.Ctx) error {
	var p dto.Pagination
	if err := c.QueryParser(&p); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid pagination parameters")
	}

	sessions, err := h.sessionService.AdminListSessions(c.Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(sessions)
}

// AdminDeleteSession removes a session regardless of owner.
func (h *SessionHandler) AdminDeleteSession(c *fiber.Ctx) error {
	if err := h.sessionService.AdminDeleteSession(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "session deleted"})
}

// GetResult returns the scored result with the full question review.
func (h *SessionHandler) GetResult(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.UserIDKey).(string)
	sessionID := c.Params("id")

	resp, err := h.sessionService.GetResult(c.Context(), userID, sessionID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
