// Package api exposes the analytics use cases over HTTP.
package api

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"Assemblief/internal/domain/models"
	"Assemblief/internal/service/metrics"
	"Assemblief/pkg/apperr"
	xhttp "Assemblief/pkg/http"
	xlogger "Assemblief/pkg/logger"
)

// Analytics is the single-asset evaluation surface.
type Analytics interface {
	GetData(ctx context.Context, asset, timeframe string) (*models.MarketSeries, error)
	ClassifyRegime(ctx context.Context, asset, timeframe string) (*models.RegimeReport, error)
	GenerateSignals(ctx context.Context, asset, timeframe string) (*models.SignalReport, error)
	RunBacktest(ctx context.Context, asset, timeframe, signal string) (*models.BacktestResult, error)
}

type Ranker interface {
	Rank(ctx context.Context, asset, timeframe string) (*models.RankResult, error)
}

type Replayer interface {
	Replay(ctx context.Context, asset, timeframe, date string) (*models.ReplayResult, error)
}

// AnalyticsEchoHandler serves the /api routes.
type AnalyticsEchoHandler struct {
	service   string
	logger    *xlogger.Logger
	analytics Analytics
	ranker    Ranker
	replayer  Replayer
	now       func() time.Time
}

func NewAnalyticsEchoHandler(service string, logger *xlogger.Logger, analytics Analytics, ranker Ranker, replayer Replayer) *AnalyticsEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &AnalyticsEchoHandler{
		service:   service,
		logger:    logger,
		analytics: analytics,
		ranker:    ranker,
		replayer:  replayer,
		now:       time.Now,
	}
}

func (h *AnalyticsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")
	g.GET("/data/:asset", timed("data", h.Data))
	g.GET("/regime/:asset", timed("regime", h.Regime))
	g.GET("/signals/:asset", timed("signals", h.Signals))
	g.GET("/backtest/:asset", timed("backtest", h.Backtest))
	g.GET("/rank/:asset", timed("rank", h.Rank))
	g.GET("/replay/:asset", timed("replay", h.Replay))
}

func timed(endpoint string, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		defer func() {
			metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		}()
		return next(c)
	}
}

func (h *AnalyticsEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{
		"status":    "ok",
		"service":   h.service,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

func (h *AnalyticsEchoHandler) Data(c echo.Context) error {
	req := &models.AssetRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.analytics.GetData(c.Request().Context(), req.Asset, req.Timeframe)
	return h.respond(c, "data", res, err)
}

func (h *AnalyticsEchoHandler) Regime(c echo.Context) error {
	req := &models.AssetRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.analytics.ClassifyRegime(c.Request().Context(), req.Asset, req.Timeframe)
	return h.respond(c, "regime", res, err)
}

func (h *AnalyticsEchoHandler) Signals(c echo.Context) error {
	req := &models.AssetRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.analytics.GenerateSignals(c.Request().Context(), req.Asset, req.Timeframe)
	return h.respond(c, "signals", res, err)
}

func (h *AnalyticsEchoHandler) Backtest(c echo.Context) error {
	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.analytics.RunBacktest(c.Request().Context(), req.Asset, req.Timeframe, req.Signal)
	return h.respond(c, "backtest", res, err)
}

func (h *AnalyticsEchoHandler) Rank(c echo.Context) error {
	req := &models.AssetRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.ranker.Rank(c.Request().Context(), req.Asset, req.Timeframe)
	return h.respond(c, "rank", res, err)
}

func (h *AnalyticsEchoHandler) Replay(c echo.Context) error {
	req := &models.ReplayRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.replayer.Replay(c.Request().Context(), req.Asset, req.Timeframe, req.Date)
	return h.respond(c, "replay", res, err)
}

func (h *AnalyticsEchoHandler) respond(c echo.Context, endpoint string, res any, err error) error {
	if err != nil {
		kind := apperr.KindOf(err)
		metrics.APIErrors.WithLabelValues(endpoint, string(kind)).Inc()
		if kind == apperr.KindInternal {
			h.logger.Error(endpoint+" usecase error", xlogger.String("asset", c.Param("asset")), xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
