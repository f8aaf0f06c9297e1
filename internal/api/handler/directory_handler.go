package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
	"github.com/eyeclinic/clinic-system/internal/core/ports"
)

// DirectoryHandler serves the optometrist and doctor listings.
type DirectoryHandler struct {
	service ports.DirectoryService
}

func NewDirectoryHandler(service ports.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// ListOptometrists returns active optometrists, newest first.
//
// @Summary      List optometrists
// @Tags         optometrist
// @Produce      json
// @Success      200  {array}   profileResponse
// @Router       /optometrist/api/list [get]
func (h *DirectoryHandler) ListOptometrists(c echo.Context) error {
	actors, err := h.service.ListOptometrists(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponses(actors))
}

// GetOptometrist returns one active optometrist.
//
// @Summary      Optometrist detail
// @Tags         optometrist
// @Produce      json
// @Param        id   path      int  true  "Optometrist id"
// @Success      200  {object}  profileResponse
// @Failure      404  {object}  errorResponse
// @Router       /optometrist/api/{id} [get]
func (h *DirectoryHandler) GetOptometrist(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	actor, err := h.service.GetOptometrist(c.Request().Context(), domain.ActorID(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(actor))
}

// ListDoctors returns active doctors in ascending id order.
//
// @Summary      List doctors
// @Tags         doctor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /doctor/api/list [get]
func (h *DirectoryHandler) ListDoctors(c echo.Context) error {
	actors, err := h.service.ListDoctors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponses(actors))
}

// NewExaminationContext returns what the intake form needs: the doctors an
// examination can be assigned to.
//
// @Summary      New examination form context
// @Tags         optometrist
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  newExaminationContextResponse
// @Failure      403  {object}  errorResponse
// @Router       /optometrist/api/new-examination [get]
func (h *DirectoryHandler) NewExaminationContext(c echo.Context) error {
	if _, err := ctxOptometrist(c); err != nil {
		return err
	}
	actors, err := h.service.ListDoctors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newExaminationContextResponse{Doctors: toProfileResponses(actors)})
}
