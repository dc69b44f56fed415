package tracking

import (
	"fmt"
	"net/http"
	"time"

	"github.com/matst80/slask-facets/pkg/common"
	"github.com/matst80/slask-facets/pkg/filter"
	"github.com/matst80/slask-facets/pkg/messaging"
	"github.com/matst80/slask-facets/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	EventSession      uint16 = 0
	EventSearch       uint16 = 1
	EventFilterChange uint16 = 7
	EventClear        uint16 = 8
)

type RabbitTracking struct {
	country    string
	connection *amqp.Connection
	logger     *zap.Logger
	send       func(data any) error
	queue      *common.QueueHandler[any]
}

func NewRabbitTracking(url, country string, logger *zap.Logger) (*RabbitTracking, error) {
	const op = "tracking.NewRabbitTracking"
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer ch.Close()
	if err = messaging.DefineTopic(ch, messaging.GlobalPrefix, messaging.Tracking); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ret := newTracking(country, logger, func(data any) error {
		return messaging.SendChange(conn, messaging.GlobalPrefix, messaging.Tracking, data)
	})
	ret.connection = conn
	return ret, nil
}

func newTracking(country string, logger *zap.Logger, send func(data any) error) *RabbitTracking {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &RabbitTracking{
		country: country,
		logger:  logger,
		send:    send,
	}
	t.queue = common.NewQueueHandler(t.flush, 50, time.Second)
	return t
}

func (t *RabbitTracking) flush(events []any) {
	for _, e := range events {
		if err := t.send(e); err != nil {
			t.logger.Warn("error sending tracking event", zap.Error(err))
		}
	}
}

// Close sends queued events and closes the broker connection.
func (t *RabbitTracking) Close() error {
	t.queue.Close()
	if t.connection == nil {
		return nil
	}
	return t.connection.Close()
}

type BaseEvent struct {
	SessionId string `json:"session_id"`
	Country   string `json:"country,omitempty"`
	Context   string `json:"context,omitempty"`
	Event     uint16 `json:"event"`
}

func (t *RabbitTracking) base(event uint16, sessionId string) *BaseEvent {
	return &BaseEvent{Event: event, SessionId: sessionId, Country: t.country, Context: "b2c"}
}

type Session struct {
	*BaseEvent
	UserAgent    string `json:"user_agent,omitempty"`
	Ip           string `json:"ip,omitempty"`
	Language     string `json:"language,omitempty"`
	PragmaHeader string `json:"pragma,omitempty"`
}

func clientIp(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}

func (t *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	t.queue.Add(Session{
		BaseEvent:    t.base(EventSession, sessionId),
		Language:     r.Header.Get("Accept-Language"),
		UserAgent:    r.UserAgent(),
		Ip:           clientIp(r),
		PragmaHeader: r.Header.Get("Pragma"),
	})
}

type FilterChangeEvent struct {
	*BaseEvent
	Kind            types.FacetKind `json:"kind"`
	Value           string          `json:"value,omitempty"`
	State           filter.State    `json:"filters"`
	ActiveFilters   int             `json:"active"`
	NumberOfResults int             `json:"noi"`
}

func (t *RabbitTracking) TrackFilterChange(sessionId string, kind types.FacetKind, value string, state filter.State, results int) {
	t.queue.Add(FilterChangeEvent{
		BaseEvent:       t.base(EventFilterChange, sessionId),
		Kind:            kind,
		Value:           value,
		State:           state,
		ActiveFilters:   state.ActiveCount(),
		NumberOfResults: results,
	})
}

func (t *RabbitTracking) TrackClear(sessionId string) {
	t.queue.Add(t.base(EventClear, sessionId))
}

type SearchEventData struct {
	*BaseEvent
	NumberOfResults int    `json:"noi"`
	Query           string `json:"query"`
	Referer         string `json:"referer,omitempty"`
}

func (t *RabbitTracking) TrackSearch(sessionId string, query string, results int, r *http.Request) {
	t.queue.Add(SearchEventData{
		BaseEvent:       t.base(EventSearch, sessionId),
		Query:           query,
		NumberOfResults: results,
		Referer:         r.Header.Get("Referer"),
	})
}
