package inventory

import "sync"

// PartLocks arena de mutex por repuesto. Dos mutaciones sobre el mismo repuesto se
// serializan; repuestos distintos nunca compiten entre sí. Las entradas se liberan
// cuando nadie las usa, así el mapa no crece con el catálogo.
type PartLocks struct {
	mu      sync.Mutex
	entries map[string]*partLock
}

type partLock struct {
	mu   sync.Mutex
	refs int
}

// NewPartLocks construye la arena vacía.
func NewPartLocks() *PartLocks {
	return &PartLocks{entries: make(map[string]*partLock)}
}

// Lock bloquea el repuesto partID y devuelve la función que lo libera.
func (l *PartLocks) Lock(partID string) (unlock func()) {
	l.mu.Lock()
	e, ok := l.entries[partID]
	if !ok {
		e = &partLock{}
		l.entries[partID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, partID)
		}
		l.mu.Unlock()
	}
}

// Len número de repuestos con lock retenido o en espera.
func (l *PartLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
