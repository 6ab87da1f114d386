package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	md "github.com/Astemirdum/study-seats/pkg/middleware"
	"github.com/Astemirdum/study-seats/pkg/validate"
	"github.com/Astemirdum/study-seats/session/internal/errs"
	"github.com/Astemirdum/study-seats/session/internal/model"
)

type Handler struct {
	sessionSvc SessionService
	log        *zap.Logger
}

func New(sessionSvc SessionService, log *zap.Logger) *Handler {
	return &Handler{
		sessionSvc: sessionSvc,
		log:        log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 200
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPost},
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
	h.register(api)
	return e
}

func (h *Handler) register(api *echo.Group) {
	api.GET("/libraries/:libraryId/seats", h.Seats)

	user := api.Group("", md.UserName)
	user.POST("/libraries/:libraryId/select", h.SelectLibrary)
	user.PUT("/location", h.ReportLocation)
	user.POST("/location/refresh", h.RefreshLocation)

	user.POST("/bookings", h.CreateBooking)
	user.GET("/bookings/current", h.Current)
	user.GET("/bookings/current/qr", h.VerificationQR)
	user.POST("/bookings/current/break", h.StartBreak)
	user.POST("/bookings/current/break/end", h.EndBreak)
	user.POST("/bookings/current/break/check", h.CheckBreak)
	user.POST("/bookings/:bookingId/checkin", h.CheckIn)
	user.POST("/bookings/:bookingId/cancel", h.Cancel)
	user.POST("/bookings/:bookingId/complete", h.Complete)
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Seats(c echo.Context) error {
	seats, err := h.sessionSvc.Seats(c.Request().Context(), c.Param("libraryId"), c.QueryParam("floor"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, seats)
}

func (h *Handler) SelectLibrary(c echo.Context) error {
	userName, err := md.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	sel, err := h.sessionSvc.SelectLibrary(c.Request().Context(), userName, c.Param("libraryId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sel)
}

func (h *Handler) ReportLocation(c echo.Context) error {
	userName, err := md.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.LocationReport
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pos := model.Coordinate{Lat: *req.Lat, Lon: *req.Lon}
	reading, err := h.sessionSvc.ReportLocation(c.Request().Context(), userName, pos, req.PermissionGranted)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reading)
}

func (h *Handler) RefreshLocation(c echo.Context) error {
	userName, err := md.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	reading, err := h.sessionSvc.RefreshLocation(c.Request().Context(), userName)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reading)
}

func (h *Handler) CreateBooking(c echo.Context) error {
	userName, err := md.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	view, err := h.sessionSvc.CreateBooking(c.Request().Context(), userName, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, view)
}

func (h *Handler) Current(c echo.Context) error {
	userName, err := md.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	view, err := h.sessionSvc.Current(c.Request().Context(), userName)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) VerificationQR(c echo.Context) error {
	userName, err := md.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	png, err := h.sessionSvc.VerificationQR(c.Request().Context(), userName)
	if err != nil {
		return httpError(err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

type bookingCommand func(c echo.Context, userName, bookingID string) (model.BookingView, error)

func (h *Handler) bookingCommand(c echo.Context, fn bookingCommand) error {
	userName, err := md.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	bookingID := c.Param("bookingId")
	if bookingID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "bookingId is empty")
	}
	view, err := fn(c, userName, bookingID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) CheckIn(c echo.Context) error {
	return h.bookingCommand(c, func(c echo.Context, userName, bookingID string) (model.BookingView, error) {
		return h.sessionSvc.CheckIn(c.Request().Context(), userName, bookingID)
	})
}

func (h *Handler) Cancel(c echo.Context) error {
	return h.bookingCommand(c, func(c echo.Context, userName, bookingID string) (model.BookingView, error) {
		return h.sessionSvc.Cancel(c.Request().Context(), userName, bookingID)
	})
}

func (h *Handler) Complete(c echo.Context) error {
	return h.bookingCommand(c, func(c echo.Context, userName, bookingID string) (model.BookingView, error) {
		return h.sessionSvc.Complete(c.Request().Context(), userName, bookingID)
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
	view, err := h.sessionSvc.StartBreak(c.Request().Context(), userName, req.Duration)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) EndBreak(c echo.Context) error {
	userName, err := md.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	view, err := h.sessionSvc.EndBreak(c.Request().Context(), userName)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) CheckBreak(c echo.Context) error {
	userName, err := md.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.BreakCheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	view, err := h.sessionSvc.CheckBreak(c.Request().Context(), userName, req.InRange)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}

var statusByErr = []struct {
	err  error
	code int
}{
	{errs.ErrUserName, http.StatusUnauthorized},
	{errs.ErrNoSuchBooking, http.StatusNotFound},
	{errs.ErrLibraryNotFound, http.StatusNotFound},
	{errs.ErrNetworkFailure, http.StatusServiceUnavailable},
	{errs.ErrPermissionDenied, http.StatusUnprocessableEntity},
	{errs.ErrLocationUnavailable, http.StatusUnprocessableEntity},
	{errs.ErrExceedsMaxBreak, http.StatusUnprocessableEntity},
	{errs.ErrWindowExpired, http.StatusConflict},
	{errs.ErrSeatUnavailable, http.StatusConflict},
	{errs.ErrBookingAlreadyActive, http.StatusConflict},
	{errs.ErrNoActiveLibrary, http.StatusConflict},
	{errs.ErrAlreadyCheckedIn, http.StatusConflict},
	{errs.ErrNotActive, http.StatusConflict},
	{errs.ErrNotOnBreak, http.StatusConflict},
	{errs.ErrBreakNotElapsed, http.StatusConflict},
	{errs.ErrInvalidTransition, http.StatusConflict},
}

func httpError(err error) error {
	var rangeErr *errs.RangeError
	if errors.As(err, &rangeErr) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, echo.Map{
			"message":        errs.ErrNotInRange.Error(),
			"distanceMeters": rangeErr.DistanceMeters,
			"radiusMeters":   rangeErr.RadiusMeters,
		})
	}
	if errors.Is(err, errs.ErrNotInRange) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, errs.ErrNotInRange.Error())
	}
	for _, m := range statusByErr {
		if errors.Is(err, m.err) {
			return echo.NewHTTPError(m.code, m.err.Error())
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
