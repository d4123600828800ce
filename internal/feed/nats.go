package feed

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/metrics"
)

// Subscriber receives whole data sets as JSON arrays on a NATS subject.
type Subscriber struct {
	conn    *nats.Conn
	sub     *nats.Subscription
	log     zerolog.Logger
	metrics *metrics.Metrics
	handler func([]core.PropertyMarker)
}

// NewSubscriber connects to url. The connection keeps retrying in the
// background when the server is not yet reachable.
func NewSubscriber(url string, log zerolog.Logger, m *metrics.Metrics) (*Subscriber, error) {
	conn, err := nats.Connect(url,
		nats.Name("propmap"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Subscriber{conn: conn, log: log, metrics: m}, nil
}

// Subscribe delivers every decoded data set on subject to handler. A
// message that fails to decode is logged and dropped, so the consumer keeps
// the previous data set. handler runs on the NATS delivery goroutine.
func (s *Subscriber) Subscribe(subject string, handler func([]core.PropertyMarker)) error {
	s.handler = handler
	sub, err := s.conn.Subscribe(subject, s.handleMsg)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	s.sub = sub
	s.log.Info().Str("subject", subject).Msg("subscribed to marker feed")
	return nil
}

func (s *Subscriber) handleMsg(msg *nats.Msg) {
	markers, err := DecodeJSON(msg.Data, s.log)
	s.metrics.IncFeedUpdate("nats", err)
	if err != nil {
		s.log.Warn().Err(err).Str("subject", msg.Subject).Msg("dropping undecodable feed message")
		return
	}
	s.log.Debug().Str("subject", msg.Subject).Int("markers", len(markers)).Msg("feed update")
	if s.handler != nil {
		s.handler(markers)
	}
}

// Close unsubscribes and drains the connection.
func (s *Subscriber) Close() {
	if s.sub != nil {
		_ = s.sub.Unsubscribe()
	}
	if s.conn != nil {
		_ = s.conn.Drain()
	}
}
