// Package swaprouter is the HTTP adapter for the external swap router. The
// router is treated as an opaque, fallible service: calls are paced by a
// rate limiter, bounded by the caller's deadline and protected by a circuit
// breaker so that a degraded router trips fast instead of piling up blocked
// executions.
package swaprouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"

	"github.com/recurra/recurra-daemon/internal/core/ports"
	"github.com/recurra/recurra-daemon/pkg/circuitbreaker"
)

const requestsPerSecond = 10

type service struct {
	addr       string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	limiter    ratelimit.Limiter
}

// NewService returns a SwapRouter talking to the router service listening on
// the given address.
func NewService(addr string) ports.SwapRouter {
	return &service{
		addr:       addr,
		httpClient: &http.Client{},
		cb:         circuitbreaker.NewCircuitBreaker(),
		limiter:    ratelimit.New(requestsPerSecond),
	}
}

type quoteRequest struct {
	Path     []common.Address `json:"path"`
	AmountIn uint64           `json:"amountIn"`
}

type swapRequest struct {
	Path         []common.Address `json:"path"`
	AmountIn     uint64           `json:"amountIn"`
	MinAmountOut uint64           `json:"minAmountOut"`
	Recipient    common.Address   `json:"recipient"`
	Deadline     int64            `json:"deadline"`
}

type amountResponse struct {
	AmountOut uint64 `json:"amountOut"`
}

func (s *service) Quote(
	ctx context.Context, path []common.Address, amountIn uint64,
) (uint64, error) {
	return s.post(ctx, "/quote", quoteRequest{Path: path, AmountIn: amountIn})
}

func (s *service) ExecuteSwap(
	ctx context.Context, args ports.SwapArgs,
) (uint64, error) {
	ctx, cancel := context.WithDeadline(ctx, args.Deadline)
	defer cancel()

	return s.post(ctx, "/swap", swapRequest{
		Path:         args.Path,
		AmountIn:     args.AmountIn,
		MinAmountOut: args.MinAmountOut,
		Recipient:    args.Recipient,
		Deadline:     args.Deadline.Unix(),
	})
}

func (s *service) post(
	ctx context.Context, path string, request interface{},
) (uint64, error) {
	s.limiter.Take()

	body, err := json.Marshal(request)
	if err != nil {
		return 0, err
	}

	result, err := s.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, s.addr+path, bytes.NewReader(body),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("router responded with status %d", resp.StatusCode)
		}

		var payload amountResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, err
		}
		return payload.AmountOut, nil
	})
	if err != nil {
		return 0, err
	}
	return result.(uint64), nil
}
