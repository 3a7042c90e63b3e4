package api

import (
	"net/http"
	"time"

	models "ChainPulse/internal/domain/models"
	"ChainPulse/internal/service/metrics"
	"ChainPulse/internal/service/ratelimit"
	"ChainPulse/internal/usecase"
	xhttp "ChainPulse/pkg/http"
	xlogger "ChainPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisEchoHandler serves the read-side analysis API.
type AnalysisEchoHandler struct {
	logger *xlogger.Logger
	query  *usecase.AnalysisQueryUseCase
	rl     *ratelimit.Limiter
}

func NewAnalysisEchoHandler(logger *xlogger.Logger, query *usecase.AnalysisQueryUseCase) *AnalysisEchoHandler {
	metrics.Register()
	return &AnalysisEchoHandler{logger: logger, query: query, rl: ratelimit.New()}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/analysis", h.Analysis)
	g.GET("/signals", h.Signals)
	g.GET("/advanced", h.Advanced)
	g.GET("/state", h.State)
	g.GET("/health", h.Health)
}

// Health reports service and storage health.
func (h *AnalysisEchoHandler) Health(c echo.Context) error {
	if err := h.query.Health(c.Request().Context()); err != nil {
		h.logger.Error("health check failed", xlogger.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Analysis returns the latest full cycle output for a symbol.
func (h *AnalysisEchoHandler) Analysis(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("analysis").Observe(time.Since(start).Seconds()) }()

	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":analysis", 10, 5) {
		return c.NoContent(http.StatusTooManyRequests)
	}

	res, err := h.query.LatestResult(c.Request().Context(), req.Symbol)
	if err != nil {
		metrics.APIErrors.WithLabelValues("analysis").Inc()
		h.logger.Error("analysis usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if res == nil {
		return xhttp.NotFoundResponse(c, "no analysis for symbol yet")
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

// Signals returns stored historical signals for a symbol.
func (h *AnalysisEchoHandler) Signals(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("signals").Observe(time.Since(start).Seconds()) }()

	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":signals", 5, 2) {
		return c.NoContent(http.StatusTooManyRequests)
	}

	from, to, verr := parseRange(req.From, req.To)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.query.GetSignals(c.Request().Context(), usecase.GetSignalsParams{
		Symbol:        req.Symbol,
		From:          from,
		To:            to,
		MinConfidence: req.MinConfidence,
		Limit:         req.Limit,
	})
	if err != nil {
		metrics.APIErrors.WithLabelValues("signals").Inc()
		h.logger.Error("signals usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Advanced returns the latest advanced metrics for a symbol.
func (h *AnalysisEchoHandler) Advanced(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("advanced").Observe(time.Since(start).Seconds()) }()

	req := &models.AdvancedRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":advanced", 10, 5) {
		return c.NoContent(http.StatusTooManyRequests)
	}

	res, err := h.query.LatestAdvanced(c.Request().Context(), req.Symbol)
	if err != nil {
		metrics.APIErrors.WithLabelValues("advanced").Inc()
		h.logger.Error("advanced usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if res == nil {
		return xhttp.NotFoundResponse(c, "no metrics for symbol yet")
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

// State returns only the market-state block of the latest cycle.
func (h *AnalysisEchoHandler) State(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("state").Observe(time.Since(start).Seconds()) }()

	req := &models.StateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.query.LatestResult(c.Request().Context(), req.Symbol)
	if err != nil {
		metrics.APIErrors.WithLabelValues("state").Inc()
		h.logger.Error("state usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if res == nil {
		return xhttp.NotFoundResponse(c, "no analysis for symbol yet")
	}
	return xhttp.SuccessResponse(c, res.State)
}

// parseRange parses the optional from/to query values, defaulting to the
// last 24 hours.
func parseRange(fromStr, toStr string) (from, to time.Time, verr interface{}) {
	to = time.Now()
	from = to.Add(-24 * time.Hour)
	if fromStr != "" {
		t, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return from, to, []xhttp.ValidationError{{Code: "ERR_FORMAT", Field: "from", Message: "from must be RFC3339"}}
		}
		from = t
	}
	if toStr != "" {
		t, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return from, to, []xhttp.ValidationError{{Code: "ERR_FORMAT", Field: "to", Message: "to must be RFC3339"}}
		}
		to = t
	}
	return from, to, nil
}
