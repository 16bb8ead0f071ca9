package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	models "RiskVaR/internal/domain/models"
	icache "RiskVaR/internal/service/cache"
	"RiskVaR/internal/service/metrics"
	"RiskVaR/internal/service/ratelimit"
	"RiskVaR/internal/usecase"
	"RiskVaR/internal/varcalc"
	xhttp "RiskVaR/pkg/http"
	xlogger "RiskVaR/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RiskEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
// Responses for identical queries are cached briefly; Monte Carlo makes /api/var
// the most expensive endpoint, so it gets the tightest rate limit.
type RiskEchoHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.RiskPipeline
	prices   *usecase.PricesUseCase
	reports  *usecase.ReportsUseCase
	cache    icache.BytesCache
	rl       *ratelimit.Limiter
}

func NewRiskEchoHandler(logger *xlogger.Logger, pipeline *usecase.RiskPipeline, prices *usecase.PricesUseCase, reports *usecase.ReportsUseCase) *RiskEchoHandler {
	metrics.Register()
	return &RiskEchoHandler{
		logger:   logger,
		pipeline: pipeline,
		prices:   prices,
		reports:  reports,
		rl:       ratelimit.New(),
	}
}

// SetCache injects a response cache.
func (h *RiskEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *RiskEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	g := e.Group("/api")
	g.GET("/var", h.Var)
	g.GET("/var/distribution", h.Distribution)
	g.GET("/var/reports", h.Reports)
	g.GET("/prices", h.Prices)
}

func (h *RiskEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(startTime).String(),
	})
}

var startTime = time.Now()

func (h *RiskEchoHandler) Var(c echo.Context) error {
	start := time.Now()
	endpoint := "var"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.VarRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":var", 3, 1) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("rate_limited", "", "rate limited", 429))
	}

	key := varCacheKey(req)
	if b, ok := h.cacheGet(endpoint, key); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	report, err := h.pipeline.Run(c.Request().Context(), *req)
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("var usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	h.cacheSet(key, report, 30*time.Second)
	return xhttp.SuccessResponse(c, report)
}

func (h *RiskEchoHandler) Distribution(c echo.Context) error {
	start := time.Now()
	endpoint := "distribution"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.DistributionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":dist", 5, 2) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("rate_limited", "", "rate limited", 429))
	}

	key := "dist:" + req.Ticker + ":" + req.ReturnMethod + ":" + strconv.Itoa(req.LookbackDays) + ":" + strconv.Itoa(req.Bins)
	if b, ok := h.cacheGet(endpoint, key); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	hist, err := h.pipeline.Distribution(c.Request().Context(), *req)
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("distribution usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	h.cacheSet(key, hist, 30*time.Second)
	return xhttp.SuccessResponse(c, hist)
}

func (h *RiskEchoHandler) Reports(c echo.Context) error {
	endpoint := "reports"
	req := &models.ReportsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.reports.Recent(c.Request().Context(), req.Ticker, req.Limit)
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("reports usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) Prices(c echo.Context) error {
	endpoint := "prices"
	req := &models.PricesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	// explicit from/to override the lookback window
	to := xhttp.ParseTimeDefault(c.QueryParam("to"), time.Now().UTC().Truncate(24*time.Hour))
	from := xhttp.ParseTimeDefault(c.QueryParam("from"), to.AddDate(0, 0, -req.LookbackDays))
	res, err := h.prices.GetDaily(c.Request().Context(), usecase.GetPricesParams{
		Ticker: req.Ticker,
		From:   from,
		To:     to,
	})
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("prices usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) cacheGet(endpoint, key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.logger.Warn("cache get error", xlogger.String("key", key), xlogger.Error(err))
		return nil, false
	}
	if ok {
		metrics.APICacheHits.WithLabelValues(endpoint).Inc()
	}
	return b, ok
}

// cacheSet stores the exact envelope the miss path writes, so a cache hit
// replays byte-identical JSON.
func (h *RiskEchoHandler) cacheSet(key string, v interface{}, ttl time.Duration) {
	if h.cache == nil {
		return
	}
	b, err := json.Marshal(xhttp.APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    v,
	})
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(key, b, ttl); err != nil {
		h.logger.Warn("cache set error", xlogger.String("key", key), xlogger.Error(err))
	}
}

// toAppError maps calculation sentinel errors to 400s; anything else stays a
// 500 via the default AppErrorResponse path.
func toAppError(err error) error {
	switch {
	case errors.Is(err, varcalc.ErrInsufficientData):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, varcalc.ErrInvalidPrice):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, varcalc.ErrInvalidConfidence):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, varcalc.ErrInvalidPortfolioValue):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, varcalc.ErrInvalidHorizon):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, varcalc.ErrInvalidReturnMethod):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	}
	return err
}

func varCacheKey(req *models.VarRequest) string {
	b, _ := json.Marshal(req)
	return "var:" + string(b)
}
