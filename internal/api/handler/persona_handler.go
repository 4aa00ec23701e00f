package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plumon/roleplay-chat/internal/core/domain"
	"github.com/plumon/roleplay-chat/internal/core/ports"
)

// PersonaHandler handles HTTP requests for the persona registry. The HTTP
// surface calls personas "roles"; the paths keep that name.
type PersonaHandler struct {
	service ports.PersonaService
}

func NewPersonaHandler(service ports.PersonaService) *PersonaHandler {
	return &PersonaHandler{service: service}
}

type fewShotExampleRequest struct {
	User string `json:"user,omitempty"`
	AI   string `json:"ai,omitempty"`
}

type createPersonaRequest struct {
	Name            string                  `json:"name" validate:"required,min=1,max=50"`
	Description     string                  `json:"description" validate:"required"`
	SystemPrompt    string                  `json:"system_prompt" validate:"required"`
	FewShotExamples []fewShotExampleRequest `json:"few_shot_examples,omitempty"`
	IsActive        *bool                   `json:"is_active,omitempty"`
}

// Create defines a new persona.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPersonaRequest  true  "Role definition"
// @Success      201   {object}  domain.Persona
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /roles/ [post]
func (h *PersonaHandler) Create(c echo.Context) error {
	var req createPersonaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	examples := make([]domain.FewShotExample, 0, len(req.FewShotExamples))
	for _, ex := range req.FewShotExamples {
		examples = append(examples, domain.FewShotExample{User: ex.User, AI: ex.AI})
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	persona, err := h.service.Create(c.Request().Context(), ports.CreatePersonaInput{
		Name:            req.Name,
		Description:     req.Description,
		SystemPrompt:    req.SystemPrompt,
		FewShotExamples: examples,
		IsActive:        active,
	}, user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, persona)
}

// List returns all active personas.
//
// @Summary      List active roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Persona
// @Router       /roles/ [get]
func (h *PersonaHandler) List(c echo.Context) error {
	personas, err := h.service.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	if personas == nil {
		personas = []*domain.Persona{}
	}
	return c.JSON(http.StatusOK, personas)
}

// Get returns a single active persona by id.
//
// @Summary      Get an active role by id
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role id"
// @Success      200  {object}  domain.Persona
// @Failure      404  {object}  map[string]string
// @Router       /roles/{id} [get]
func (h *PersonaHandler) Get(c echo.Context) error {
	persona, err := h.service.GetActive(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, persona)
}
