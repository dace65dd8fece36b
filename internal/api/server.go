// Package api exposes the backtester over HTTP. The request carries the
// candle series and parameters inline; the response is the backtest
// result tagged with a run id.
package api

import (
	"errors"
	"net/http"

	"bandtester/internal/engine"
	"bandtester/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	logger *zap.Logger
}

type backtestRequest struct {
	Symbol   string         `json:"symbol"`
	Exchange string         `json:"exchange"`
	Candles  []types.Candle `json:"candles"`
	Params   engine.Params  `json:"params"`
}

type backtestResponse struct {
	RunID string `json:"run_id"`
	types.BacktestResult
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewServer(logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{router: router, logger: logger}
	router.GET("/healthz", s.health)
	router.POST("/api/v1/backtest", s.runBacktest)
	return s
}

// Handler returns the http handler, mainly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Serve(addr string) error {
	s.logger.Info("listening", zap.String("addr", addr))
	return s.router.Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) runBacktest(c *gin.Context) {
	runID := uuid.New().String()

	// Absent parameter fields keep their defaults.
	req := backtestRequest{Params: engine.DefaultParams()}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	s.logger.Info("backtest requested",
		zap.String("run_id", runID),
		zap.String("symbol", req.Symbol),
		zap.Int("candles", len(req.Candles)),
		zap.Int("period", req.Params.Period),
	)

	result, err := engine.Run(req.Candles, req.Params)
	if err != nil {
		if isConfigError(err) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.logger.Error("backtest failed", zap.String("run_id", runID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	result.Symbol = req.Symbol
	result.Exchange = req.Exchange

	s.logger.Info("backtest finished",
		zap.String("run_id", runID),
		zap.Int("trades", len(result.Trades)),
		zap.Float64("total_profit", result.TotalProfit),
	)
	c.JSON(http.StatusOK, backtestResponse{RunID: runID, BacktestResult: result})
}

func isConfigError(err error) bool {
	return errors.Is(err, engine.ErrPeriodOutOfRange) ||
		errors.Is(err, engine.ErrMultiplierOutOfRange) ||
		errors.Is(err, engine.ErrStopLossOutOfRange) ||
		errors.Is(err, engine.ErrTakeProfitOutOfRange) ||
		errors.Is(err, engine.ErrBalanceOutOfRange)
}
