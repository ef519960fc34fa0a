// Package pubsub is an in-process implementation of the pubsub port. The
// daemon subscribes a structured-log notifier on every topic, tests use it
// to observe published events.
package pubsub

import (
	"sync"

	"github.com/thanhpk/randstr"

	"github.com/recurra/recurra-daemon/internal/core/ports"
)

type subscription struct {
	id      string
	handler func(event interface{})
}

type service struct {
	subscriptions map[string][]subscription
	locker        sync.RWMutex
}

// NewService returns an empty in-process PubSub.
func NewService() ports.PubSub {
	return &service{
		subscriptions: make(map[string][]subscription),
	}
}

func (s *service) Subscribe(topic string, handler func(event interface{})) string {
	s.locker.Lock()
	defer s.locker.Unlock()

	id := randstr.Hex(8)
	s.subscriptions[topic] = append(s.subscriptions[topic], subscription{
		id:      id,
		handler: handler,
	})
	return id
}

func (s *service) Unsubscribe(topic, id string) {
	s.locker.Lock()
	defer s.locker.Unlock()

	subs := s.subscriptions[topic]
	for i, sub := range subs {
		if sub.id == id {
			s.subscriptions[topic] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

func (s *service) Publish(topic string, event interface{}) {
	s.locker.RLock()
	handlers := make([]func(interface{}), 0)
	for _, sub := range s.subscriptions[topic] {
		handlers = append(handlers, sub.handler)
	}
	for _, sub := range s.subscriptions[ports.AnyTopic] {
		handlers = append(handlers, sub.handler)
	}
	s.locker.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}
