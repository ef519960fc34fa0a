// Package transport is the HTTP adapter handing outbound cross-chain
// messages over to a relayer. Acceptance by the relayer only means the
// message entered the channel: delivery and remote execution stay invisible
// to the daemon and are reconciled later through outcome reports.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	log "github.com/sirupsen/logrus"

	"github.com/recurra/recurra-daemon/internal/core/ports"
)

const submitTimeout = 15 * time.Second

type service struct {
	addr       string
	httpClient *http.Client
}

// NewService returns a MessageTransport submitting messages to the relayer
// listening on the given address.
func NewService(addr string) ports.MessageTransport {
	return &service{
		addr:       addr,
		httpClient: &http.Client{Timeout: submitTimeout},
	}
}

type submitRequest struct {
	Payload string `json:"payload"`
}

func (s *service) SubmitMessage(ctx context.Context, payload []byte) error {
	body, err := json.Marshal(submitRequest{Payload: hexutil.Encode(payload)})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.addr+"/messages", bytes.NewReader(body),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("relayer responded with status %d", resp.StatusCode)
	}

	log.Debugf("transport: submitted %d bytes message", len(payload))
	return nil
}
