// Package notify publishes a change event to NATS after every store apply,
// so other processes can follow a local board.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/pinboard/internal/normalize"
	"github.com/mesh-intelligence/pinboard/internal/store"
	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subj string, data []byte) error
}

// Event is the JSON payload published for each change.
type Event struct {
	Clients         int     `json:"clients"`
	Cards           int     `json:"cards"`
	CurrentClientID *string `json:"currentClientId"`
	IsLoading       bool    `json:"isLoading"`
	At              string  `json:"at"`
}

// Publisher turns store notifications into NATS messages. Publish failures
// are logged and dropped.
type Publisher struct {
	conn    Conn
	subject string
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewPublisher returns a Publisher on subject, or DefaultNotifySubject when
// subject is empty.
func NewPublisher(conn Conn, subject string, log logrus.FieldLogger) *Publisher {
	if subject == "" {
		subject = types.DefaultNotifySubject
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Publisher{conn: conn, subject: subject, log: log, now: time.Now}
}

// Attach subscribes the publisher to s.
func (p *Publisher) Attach(s *store.Store) store.ListenerID {
	return s.Subscribe(func() { p.Publish(s.Get()) })
}

// Publish sends one event describing st.
func (p *Publisher) Publish(st types.State) {
	ev := Event{
		Clients:         len(st.Clients),
		Cards:           len(st.Cards),
		CurrentClientID: st.CurrentClientID,
		IsLoading:       st.IsLoading,
		At:              normalize.FormatTime(p.now()),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.WithError(err).Error("encoding change event")
		return
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		p.log.WithError(err).WithField("subject", p.subject).Warn("publishing change event failed")
	}
}

// Connect dials the NATS server in cfg. It returns (nil, nil) when no URL
// is configured.
func Connect(cfg types.NotifyConfig, token string) (*nats.Conn, error) {
	if cfg.NATSURL == "" {
		return nil, nil
	}
	opts := []nats.Option{nats.Name("pinboard")}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}
	conn, err := nats.Connect(cfg.NATSURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	return conn, nil
}
