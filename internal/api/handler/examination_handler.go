package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eyeclinic/clinic-system/internal/api/metrics"
	"github.com/eyeclinic/clinic-system/internal/core/domain"
	"github.com/eyeclinic/clinic-system/internal/core/ports"
)

// ExaminationHandler handles intake, consultation and the role dashboards.
type ExaminationHandler struct {
	service ports.ExaminationService
}

func NewExaminationHandler(service ports.ExaminationService) *ExaminationHandler {
	return &ExaminationHandler{service: service}
}

// Create records an intake by the logged-in optometrist.
//
// @Summary      Create an examination
// @Description  References an existing patient by patient_id or creates one from the patient_* fields. The consultant is the requested active doctor, otherwise the configured assignment strategy picks one.
// @Tags         optometrist
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createExaminationRequest  true  "Intake"
// @Success      201   {object}  examinationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /optometrist/api/exams/create [post]
func (h *ExaminationHandler) Create(c echo.Context) error {
	by, err := ctxOptometrist(c)
	if err != nil {
		return err
	}

	var req createExaminationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := toCreateExaminationInput(req)
	if err != nil {
		return err
	}

	exam, err := h.service.CreateExamination(c.Request().Context(), by, in)
	if err != nil {
		return err
	}

	assigned := "unassigned"
	if exam.ConsultantID != nil {
		assigned = "assigned"
	}
	metrics.ExaminationsCreatedTotal.WithLabelValues(assigned).Inc()

	return c.JSON(http.StatusCreated, toExaminationResponse(exam))
}

// Consult records the diagnosis and medications and completes the
// examination. Only the assigned consultant may do this, once.
//
// @Summary      Consult and complete an examination
// @Tags         doctor
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Examination id"
// @Param        body  body      consultRequest  true  "Diagnosis and medication table"
// @Success      200   {object}  examinationResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /doctor/api/exams/{id}/consult [post]
func (h *ExaminationHandler) Consult(c echo.Context) error {
	start := time.Now()

	by, err := ctxDoctor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req consultRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	exam, err := h.service.ConsultAndComplete(c.Request().Context(), by, toConsultInput(domain.ExaminationID(id), req))
	metrics.ConsultationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ConsultationErrorsTotal.WithLabelValues(consultErrorReason(err)).Inc()
		return err
	}
	metrics.ConsultationsCompletedTotal.Inc()

	return c.JSON(http.StatusOK, toExaminationResponse(exam))
}

func consultErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrExaminationNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrAlreadyCompleted):
		return "already_completed"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	}
	return "error"
}

// DoctorDashboard lists the examinations assigned to the doctor.
//
// @Summary      Doctor dashboard
// @Tags         doctor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  doctorDashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /doctor/api/dashboard [get]
func (h *ExaminationHandler) DoctorDashboard(c echo.Context) error {
	by, err := ctxDoctor(c)
	if err != nil {
		return err
	}

	exams, err := h.service.DoctorDashboard(c.Request().Context(), by)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doctorDashboardResponse{Examinations: toExaminationResponses(exams)})
}

// PatientDashboard lists the patient records linked to the account by phone
// number and their examinations, newest first.
//
// @Summary      Patient dashboard
// @Tags         patient
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  patientDashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /patient/api/dashboard [get]
func (h *ExaminationHandler) PatientDashboard(c echo.Context) error {
	by, err := ctxPatient(c)
	if err != nil {
		return err
	}

	dash, err := h.service.PatientDashboard(c.Request().Context(), by)
	if err != nil {
		return err
	}
	patients := dash.Patients
	if patients == nil {
		patients = []*domain.Patient{}
	}
	return c.JSON(http.StatusOK, patientDashboardResponse{
		Patients:     patients,
		Examinations: toExaminationResponses(dash.Examinations),
	})
}
