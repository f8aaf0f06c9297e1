package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eyeclinic/clinic-system/internal/api/middleware"
	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

// ctxActor returns the caller injected by the Auth middleware. A missing
// identity means the route was mounted without Auth.
func ctxActor(c echo.Context) (*domain.Actor, error) {
	id := middleware.IdentityFrom(c)
	if id == nil || id.Actor == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return id.Actor, nil
}

func ctxOptometrist(c echo.Context) (domain.Optometrist, error) {
	a, err := ctxActor(c)
	if err != nil {
		return domain.Optometrist{}, err
	}
	o, ok := a.AsOptometrist()
	if !ok {
		return domain.Optometrist{}, domain.ErrForbidden
	}
	return o, nil
}

func ctxDoctor(c echo.Context) (domain.Doctor, error) {
	a, err := ctxActor(c)
	if err != nil {
		return domain.Doctor{}, err
	}
	d, ok := a.AsDoctor()
	if !ok {
		return domain.Doctor{}, domain.ErrForbidden
	}
	return d, nil
}

func ctxPatient(c echo.Context) (domain.PatientAccount, error) {
	a, err := ctxActor(c)
	if err != nil {
		return domain.PatientAccount{}, err
	}
	p, ok := a.AsPatient()
	if !ok {
		return domain.PatientAccount{}, domain.ErrForbidden
	}
	return p, nil
}

// bindAndValidate decodes the JSON or form body into req and runs the struct
// validator. Both failures are client errors.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
