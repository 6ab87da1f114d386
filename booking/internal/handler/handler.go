package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/study-seats/booking/internal/errs"
	"github.com/Astemirdum/study-seats/booking/internal/model"
	md "github.com/Astemirdum/study-seats/pkg/middleware"
	"github.com/Astemirdum/study-seats/pkg/validate"
)

type Handler struct {
	bookingSvc BookingService
	log        *zap.Logger
}

func New(bookingSvc BookingService, log *zap.Logger) *Handler {
	return &Handler{
		bookingSvc: bookingSvc,
		log:        log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.GET("/libraries/:libraryId", h.GetLibrary)
	api.GET("/libraries/:libraryId/seats", h.ListSeats)

	bookings := api.Group("/bookings", md.UserName)
	bookings.POST("", h.CreateBooking)
	bookings.GET("/active", h.GetActiveBooking)
	bookings.POST("/:bookingId/checkin", h.CheckIn)
	bookings.POST("/:bookingId/cancel", h.Cancel)
	bookings.POST("/:bookingId/complete", h.Complete)
	bookings.POST("/:bookingId/break", h.StartBreak)
	bookings.POST("/:bookingId/break/end", h.EndBreak)
	bookings.POST("/:bookingId/release", h.Release)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) GetLibrary(c echo.Context) error {
	lib, err := h.bookingSvc.GetLibrary(c.Request().Context(), c.Param("libraryId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, lib)
}

func (h *Handler) ListSeats(c echo.Context) error {
	libraryID := c.Param("libraryId")
	if libraryID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty libraryId")
	}
	seats, err := h.bookingSvc.ListSeats(c.Request().Context(), libraryID, c.QueryParam("floor"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, seats)
}

func (h *Handler) CreateBooking(c echo.Context) error {
	var req model.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userName, err := md.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	req.UserName = userName
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.bookingSvc.CreateBooking(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) GetActiveBooking(c echo.Context) error {
	userName, err := md.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	b, err := h.bookingSvc.GetActiveBooking(c.Request().Context(), userName)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

type seatCommand func(c echo.Context, userName, bookingID, seatID string) (model.Booking, error)

func (h *Handler) seatCommand(c echo.Context, fn seatCommand) error {
	userName, err := md.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	bookingID := c.Param("bookingId")
	if bookingID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "bookingId is empty")
	}
	var req model.SeatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := fn(c, userName, bookingID, req.SeatID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) CheckIn(c echo.Context) error {
	return h.seatCommand(c, func(c echo.Context, userName, bookingID, seatID string) (model.Booking, error) {
		return h.bookingSvc.CheckIn(c.Request().Context(), userName, bookingID, seatID)
	})
}

func (h *Handler) Cancel(c echo.Context) error {
	return h.seatCommand(c, func(c echo.Context, userName, bookingID, seatID string) (model.Booking, error) {
		return h.bookingSvc.Cancel(c.Request().Context(), userName, bookingID, seatID)
	})
}

func (h *Handler) Complete(c echo.Context) error {
	return h.seatCommand(c, func(c echo.Context, userName, bookingID, seatID string) (model.Booking, error) {
		return h.bookingSvc.Complete(c.Request().Context(), userName, bookingID, seatID)
	})
}

func (h *Handler) StartBreak(c echo.Context) error {
	userName, err := md.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.BreakRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.bookingSvc.StartBreak(c.Request().Context(), userName, c.Param("bookingId"), req.Duration)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) EndBreak(c echo.Context) error {
	userName, err := md.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	b, err := h.bookingSvc.EndBreak(c.Request().Context(), userName, c.Param("bookingId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) Release(c echo.Context) error {
	userName, err := md.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.ReleaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.bookingSvc.Release(c.Request().Context(), userName, c.Param("bookingId"), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, errs.ErrNotFound.Error())
	case errors.Is(err, errs.ErrSeatUnavailable):
		return echo.NewHTTPError(http.StatusConflict, errs.ErrSeatUnavailable.Error())
	case errors.Is(err, errs.ErrBookingAlreadyActive):
		return echo.NewHTTPError(http.StatusConflict, errs.ErrBookingAlreadyActive.Error())
	case errors.Is(err, errs.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, errs.ErrInvalidTransition.Error())
	case errors.Is(err, errs.ErrExceedsMaxBreak):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, errs.ErrExceedsMaxBreak.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
