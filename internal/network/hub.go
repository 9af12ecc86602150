package network

import (
	"labyrinth-server/pkg/api"
	"labyrinth-server/pkg/logger"
	"sync"

	"github.com/sirupsen/logrus"
)

// Broadcaster занимается только рассылкой сообщений подписчикам (слой рендера и UI).
// Реализует engine.Observer.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: SessionID -> Личный канал
	subscribers map[string]chan api.ServerMessage
	bufferSize  int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerMessage),
		bufferSize:  100,
	}
}

// Register создает личный канал для сессии клиента
func (b *Broadcaster) Register(sessionID string) chan api.ServerMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[sessionID]; ok {
		close(old)
	}

	ch := make(chan api.ServerMessage, b.bufferSize)
	b.subscribers[sessionID] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[sessionID]; ok {
		close(ch)
		delete(b.subscribers, sessionID)
	}
}

// SendTo отправляет сообщение конкретной сессии (Unicast)
func (b *Broadcaster) SendTo(sessionID string, msg api.ServerMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[sessionID]; ok {
		b.offer(sessionID, ch, msg)
	}
}

// Publish отправляет всем. Медленный клиент теряет сообщения, цикл симуляции не ждет.
func (b *Broadcaster) Publish(msg api.ServerMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		b.offer(id, ch, msg)
	}
}

func (b *Broadcaster) offer(id string, ch chan api.ServerMessage, msg api.ServerMessage) {
	select {
	case ch <- msg:
	default:
		if msg.Type != api.MsgFrame {
			logger.Log.WithFields(logrus.Fields{
				"component": "hub",
				"session":   id,
				"type":      msg.Type,
			}).Warn("Channel full, message dropped.")
		}
	}
}

// HasSubscriber проверяет, подключена ли сессия
func (b *Broadcaster) HasSubscriber(sessionID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[sessionID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
