// Package transport delivers scalar command messages between publishers and
// subscribers by topic. Delivery is synchronous fan-out on the publisher's
// goroutine, so subscribers run concurrently with the simulation step and
// must do their own locking.
package transport

import "sync"

type Handler func(value float64)

type Node struct {
	mu   sync.RWMutex
	subs map[string][]Handler
}

func NewNode() *Node {
	return &Node{subs: make(map[string][]Handler)}
}

// Subscribe registers a handler for a topic. The subscription lasts for the
// node's lifetime; there is no unsubscribe.
func (n *Node) Subscribe(topic string, h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs[topic] = append(n.subs[topic], h)
}

// Publish invokes every handler subscribed to the topic with the value.
func (n *Node) Publish(topic string, value float64) {
	n.mu.RLock()
	handlers := n.subs[topic]
	n.mu.RUnlock()

	for _, h := range handlers {
		h(value)
	}
}
