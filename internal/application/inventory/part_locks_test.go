package inventory_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appinv "github.com/jhoicas/autoparts-api/internal/application/inventory"
)

func TestPartLocks_SerializaMismoRepuesto(t *testing.T) {
	locks := appinv.NewPartLocks()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("p1")
			defer unlock()
			mu.Lock()
			inside++
			maxSeen = max(maxSeen, inside)
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
	assert.Zero(t, locks.Len(), "las entradas se liberan al soltar el lock")
}

func TestPartLocks_RepuestosDistintosNoCompiten(t *testing.T) {
	locks := appinv.NewPartLocks()
	unlockA := locks.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("el lock de b no debería esperar al de a")
	}
	assert.Equal(t, 1, locks.Len())
}
