package transport

import (
	"sync"
	"testing"
)

func TestNodeLatestWins(t *testing.T) {
	node := NewNode()

	var mu sync.Mutex
	var latest float64
	node.Subscribe("/cmd", func(v float64) {
		mu.Lock()
		latest = v
		mu.Unlock()
	})

	for i := 1; i <= 100; i++ {
		node.Publish("/cmd", float64(i))
	}

	mu.Lock()
	defer mu.Unlock()
	if latest != 100 {
		t.Errorf("expected last published value 100, got %f", latest)
	}
}

func TestNodeTopicIsolation(t *testing.T) {
	node := NewNode()

	var got float64
	node.Subscribe("/a", func(v float64) { got = v })

	node.Publish("/b", 7.0)
	if got != 0 {
		t.Errorf("handler on /a must not see /b messages, got %f", got)
	}

	node.Publish("/a", 3.0)
	if got != 3.0 {
		t.Errorf("expected 3.0 on /a, got %f", got)
	}
}

func TestNodeFanOut(t *testing.T) {
	node := NewNode()

	count := 0
	node.Subscribe("/cmd", func(v float64) { count++ })
	node.Subscribe("/cmd", func(v float64) { count++ })

	node.Publish("/cmd", 1.0)
	if count != 2 {
		t.Errorf("expected both handlers invoked, got %d", count)
	}
}

func TestNodeConcurrentPublish(t *testing.T) {
	node := NewNode()

	published := map[float64]bool{}
	var mu sync.Mutex
	var latest float64
	node.Subscribe("/cmd", func(v float64) {
		mu.Lock()
		latest = v
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		published[float64(i)] = true
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			node.Publish("/cmd", v)
		}(float64(i))
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if !published[latest] {
		t.Errorf("observed value %f was never published", latest)
	}
}
