package handlers

import (
	"errors"
	"io"
	"net/http"

	appointmentTypeRepo "edubooking/database/repository/appointmenttype"
	"edubooking/middleware"
	"edubooking/models"
	"edubooking/services/booking"
	"edubooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking engine over HTTP.
type BookingHandler struct {
	Sessions     booking.SessionService
	Completion   booking.CompletionService
	Availability booking.AvailabilityService
	Types        appointmentTypeRepo.AppointmentTypeRepository
	logger       *zap.Logger
}

func NewBookingHandler(sessions booking.SessionService, completion booking.CompletionService, availability booking.AvailabilityService, types appointmentTypeRepo.AppointmentTypeRepository, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		Sessions:     sessions,
		Completion:   completion,
		Availability: availability,
		Types:        types,
		logger:       logger,
	}
}

type createSessionRequest struct {
	Step string                `json:"step"`
	Data models.BookingDetails `json:"data"`
}

type updateSessionRequest struct {
	Step *string             `json:"step"`
	Data models.DetailsPatch `json:"data"`
}

type availabilityQuery struct {
	InstructorID string `form:"instructorId" binding:"required"`
	Date         string `form:"date" binding:"required,datetime=2006-01-02"`
	StartTime    string `form:"startTime" binding:"required,datetime=15:04"`
	EndTime      string `form:"endTime" binding:"required,datetime=15:04"`
}

func identityFrom(c *gin.Context) booking.Identity {
	return booking.Identity{
		UserID: c.GetString(middleware.ContextUserID),
		Token:  c.GetString(middleware.ContextBookingToken),
	}
}

// bindOptionalJSON treats an empty body as the zero request.
func bindOptionalJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *BookingHandler) badRequest(c *gin.Context, logger *zap.Logger, err error) {
	utils.JSONError(c, logger, http.StatusBadRequest, utils.ErrorResponse{
		Message: "invalid input",
		Code:    "invalid_request",
		Details: err.Error(),
	})
}

// writeSession renders a session, echoing a freshly issued token in the body and header.
func writeSession(c *gin.Context, status int, s *models.BookingSession, token string) {
	if token != "" {
		c.Header(middleware.BookingTokenHeader, token)
	}
	c.JSON(status, s.ToView(token))
}

// CreateSession starts a booking session for the caller.
func (h *BookingHandler) CreateSession(c *gin.Context) {
	logger := getLogger(c, h.logger)
	var req createSessionRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.badRequest(c, logger, err)
		return
	}

	session, token, err := h.Sessions.Create(c.Request.Context(), identityFrom(c), models.Step(req.Step), req.Data)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	writeSession(c, http.StatusCreated, session, token)
}

func (h *BookingHandler) GetSession(c *gin.Context) {
	logger := getLogger(c, h.logger)
	session, err := h.Sessions.Get(c.Request.Context(), c.Param("sessionID"), identityFrom(c))
	if err != nil {
		respondError(c, logger, err)
		return
	}
	writeSession(c, http.StatusOK, session, "")
}

// UpdateSession merges wizard data and optionally moves the session to another step.
func (h *BookingHandler) UpdateSession(c *gin.Context) {
	logger := getLogger(c, h.logger)
	var req updateSessionRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.badRequest(c, logger, err)
		return
	}

	var step *models.Step
	if req.Step != nil {
		s := models.Step(*req.Step)
		step = &s
	}
	session, token, err := h.Sessions.Update(c.Request.Context(), c.Param("sessionID"), identityFrom(c), req.Data.BookingDetails, step, req.Data.Cleared()...)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	writeSession(c, http.StatusOK, session, token)
}

func (h *BookingHandler) DeleteSession(c *gin.Context) {
	logger := getLogger(c, h.logger)
	if err := h.Sessions.Delete(c.Request.Context(), c.Param("sessionID"), identityFrom(c)); err != nil {
		respondError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CompleteSession converts the session into an appointment.
func (h *BookingHandler) CompleteSession(c *gin.Context) {
	logger := getLogger(c, h.logger)
	result, err := h.Completion.Complete(c.Request.Context(), c.Param("sessionID"), identityFrom(c))
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// CheckAvailability answers whether a slot is currently bookable.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	logger := getLogger(c, h.logger)
	var q availabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, logger, err)
		return
	}
	start, err := models.ParseClock(q.StartTime)
	if err != nil {
		h.badRequest(c, logger, err)
		return
	}
	end, err := models.ParseClock(q.EndTime)
	if err != nil {
		h.badRequest(c, logger, err)
		return
	}

	res := h.Availability.Check(c.Request.Context(), booking.AvailabilityRequest{
		InstructorID: q.InstructorID,
		Date:         q.Date,
		Start:        start,
		End:          end,
	})
	switch res.Code {
	case booking.AvailabilityUnverified:
		c.JSON(http.StatusServiceUnavailable, res)
	case booking.AvailabilityInvalid:
		c.JSON(http.StatusBadRequest, res)
	default:
		c.JSON(http.StatusOK, res)
	}
}

// ListAppointmentTypes returns the bookable appointment types.
func (h *BookingHandler) ListAppointmentTypes(c *gin.Context) {
	logger := getLogger(c, h.logger)
	types, err := h.Types.ListActive(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list appointment types", zap.Error(err))
		utils.JSONError(c, logger, http.StatusInternalServerError, utils.ErrorResponse{
			Message: "could not load appointment types",
			Code:    booking.CodeStorageFailed,
		})
		return
	}
	if types == nil {
		types = []models.AppointmentType{}
	}
	c.JSON(http.StatusOK, gin.H{"types": types})
}
