package telegram

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatLockIsStablePerSession(t *testing.T) {
	b := &Bot{}

	assert.Same(t, b.chatLock("100"), b.chatLock("100"))
	assert.NotSame(t, b.chatLock("100"), b.chatLock("200"))
}

func TestChatLockSerializesSameChat(t *testing.T) {
	b := &Bot{}
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mu := b.chatLock("100")
			mu.Lock()
			defer mu.Unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}
