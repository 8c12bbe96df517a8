package notify

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pinboard/internal/cache"
	"github.com/mesh-intelligence/pinboard/internal/store"
	"github.com/mesh-intelligence/pinboard/pkg/types"
)

type message struct {
	subject string
	data    []byte
}

type fakeConn struct {
	sent []message
	err  error
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, message{subject: subj, data: data})
	return nil
}

func TestPublisherAttach(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := store.New(cache.NewMemory(), logger)
	conn := &fakeConn{}
	p := NewPublisher(conn, "", logger)
	p.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	id := p.Attach(s)

	id1 := "c1"
	s.Set(types.Patch{
		Clients:         &[]types.Client{{ID: id1, Name: "Acme"}},
		Cards:           &[]types.ContentCard{{ID: "k1"}, {ID: "k2"}},
		CurrentClientID: &id1,
	})

	require.Len(t, conn.sent, 1)
	assert.Equal(t, types.DefaultNotifySubject, conn.sent[0].subject)

	var ev Event
	require.NoError(t, json.Unmarshal(conn.sent[0].data, &ev))
	assert.Equal(t, 1, ev.Clients)
	assert.Equal(t, 2, ev.Cards)
	require.NotNil(t, ev.CurrentClientID)
	assert.Equal(t, "c1", *ev.CurrentClientID)
	assert.Equal(t, "2026-01-02T03:04:05.000Z", ev.At)

	s.Unsubscribe(id)
	s.Set(types.Patch{ClearCurrentClient: true})
	assert.Len(t, conn.sent, 1)
}

func TestPublishFailureIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	p := NewPublisher(&fakeConn{err: errors.New("no responders")}, "boards.acme", logger)

	p.Publish(types.State{})

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "boards.acme", hook.LastEntry().Data["subject"])
}

func TestConnectWithoutURL(t *testing.T) {
	conn, err := Connect(types.NotifyConfig{}, "")
	require.NoError(t, err)
	assert.Nil(t, conn)
}
