package api

import (
	"encoding/json"
	"errors"
	"time"

	"ForexPulse/internal/domain/models"
	domrepo "ForexPulse/internal/domain/repository"
	icache "ForexPulse/internal/service/cache"
	"ForexPulse/internal/service/ratelimit"
	"ForexPulse/internal/usecase"
	xhttp "ForexPulse/pkg/http"
	xlogger "ForexPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	signalCacheTTL = 15 * time.Second
	scanCacheTTL   = 30 * time.Second

	rateCapacity  = 5
	rateRefillSec = 2
)

// SignalsHandler exposes the signal engine over Echo.
type SignalsHandler struct {
	logger *xlogger.Logger
	uc     *usecase.SignalUseCase
	cache  icache.BytesCache
	rl     *ratelimit.Limiter
}

func NewSignalsHandler(logger *xlogger.Logger, uc *usecase.SignalUseCase) *SignalsHandler {
	return &SignalsHandler{logger: logger, uc: uc, rl: ratelimit.New()}
}

// SetCache enables response caching for signal and scan endpoints.
func (h *SignalsHandler) SetCache(c icache.BytesCache) { h.cache = c }

var _ xhttp.Handler = (*SignalsHandler)(nil)

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signal", h.Signal)
	g.GET("/scan", h.Scan)
	g.GET("/candles", h.Candles)
	g.GET("/quote", h.Quote)
	g.GET("/pairs", h.Pairs)
	g.GET("/signals/recent", h.Recent)
	g.GET("/session", h.Session)
	g.POST("/session/trades", h.RecordTrade)
}

func (h *SignalsHandler) Signal(c echo.Context) error {
	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":signal", rateCapacity, rateRefillSec) {
		return xhttp.TooManyRequestsResponse(c)
	}

	key := "signal:" + req.Pair + ":" + req.TF
	if cached, ok := h.fromCache(key); ok {
		return xhttp.SuccessResponse(c, cached)
	}

	sig, err := h.uc.Generate(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, domrepo.ErrUnknownPair) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown pair %s", req.Pair))
		}
		h.logger.Error("signal usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.toCache(key, sig, signalCacheTTL)
	return xhttp.SuccessResponse(c, sig)
}

func (h *SignalsHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":scan", rateCapacity, rateRefillSec) {
		return xhttp.TooManyRequestsResponse(c)
	}

	key := "scan:" + req.TF
	if cached, ok := h.fromCache(key); ok {
		return xhttp.SuccessResponse(c, cached)
	}

	res, err := h.uc.Scan(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("scan usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.toCache(key, res, scanCacheTTL)
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsHandler) Candles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	candles, err := h.uc.Candles(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, domrepo.ErrUnknownPair) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown pair %s", req.Pair))
		}
		h.logger.Error("candles usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, candles)
}

func (h *SignalsHandler) Quote(c echo.Context) error {
	req := &models.QuoteRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	quote, err := h.uc.Quote(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, domrepo.ErrUnknownPair) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown pair %s", req.Pair))
		}
		h.logger.Error("quote usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, quote)
}

func (h *SignalsHandler) Pairs(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.uc.Pairs())
}

func (h *SignalsHandler) Recent(c echo.Context) error {
	req := &models.RecentSignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sigs, err := h.uc.Recent(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("recent signals error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, sigs, int64(len(sigs)))
}

func (h *SignalsHandler) Session(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.uc.Session(c.Request().Context()))
}

func (h *SignalsHandler) RecordTrade(c echo.Context) error {
	req := &models.TradeResultRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	stats, err := h.uc.RecordTrade(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("record trade error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, stats)
}

func (h *SignalsHandler) fromCache(key string) (json.RawMessage, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.logger.Warn("response cache get failed", xlogger.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return json.RawMessage(b), true
}

func (h *SignalsHandler) toCache(key string, v interface{}, ttl time.Duration) {
	if h.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(key, b, ttl); err != nil {
		h.logger.Warn("response cache set failed", xlogger.Error(err))
	}
}
