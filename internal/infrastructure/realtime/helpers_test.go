package realtime_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// fakeWriter conexión en memoria; opcionalmente bloquea hasta release o falla.
type fakeWriter struct {
	mu      sync.Mutex
	msgs    []received
	fail    bool
	gate    chan struct{}
	entered chan struct{}
}

func newFakeWriter() *fakeWriter { return &fakeWriter{} }

// newBlockingWriter cada escritura espera a que se cierre gate.
func newBlockingWriter() *fakeWriter {
	return &fakeWriter{gate: make(chan struct{}), entered: make(chan struct{}, 16)}
}

func (w *fakeWriter) WriteMessage(data []byte) error {
	if w.entered != nil {
		w.entered <- struct{}{}
	}
	if w.gate != nil {
		<-w.gate
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail {
		return errors.New("conexión rota")
	}
	var m received
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	w.msgs = append(w.msgs, m)
	return nil
}

func (w *fakeWriter) release() { close(w.gate) }

func (w *fakeWriter) events() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.msgs))
	for _, m := range w.msgs {
		out = append(out, m.Event)
	}
	return out
}

func (w *fakeWriter) last() received {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.msgs[len(w.msgs)-1]
}

func (w *fakeWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.msgs)
}

func waitCount(t *testing.T, w *fakeWriter, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return w.count() >= n }, time.Second, 5*time.Millisecond)
}

// assertNoMore verifica que no llegan más mensajes de los ya contados.
func assertNoMore(t *testing.T, w *fakeWriter, n int) {
	t.Helper()
	assert.Never(t, func() bool { return w.count() > n }, 50*time.Millisecond, 5*time.Millisecond)
}
