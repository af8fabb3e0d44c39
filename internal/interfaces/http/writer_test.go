package http_test

import "sync"

// httpWriter conexión falsa registrada directamente en el hub.
type httpWriter struct {
	mu   sync.Mutex
	msgs [][]byte
}

func newHTTPWriter() *httpWriter { return &httpWriter{} }

func (w *httpWriter) WriteMessage(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, append([]byte(nil), data...))
	return nil
}

func (w *httpWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.msgs)
}
