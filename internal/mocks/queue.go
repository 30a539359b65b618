package mocks

// MockMessageQueue is a mock implementation of the MessageQueue interface.
// Published payloads are recorded by subject so tests can assert which turn
// events went out.
type MockMessageQueue struct {
	PublishedMessages map[string][][]byte
	Subscribers       map[string][]func([]byte) error
	PublishFunc       func(subject string, data []byte) error
	SubscribeFunc     func(subject string, handler func([]byte) error) error
	CloseFunc         func() error
}

func NewMockMessageQueue() *MockMessageQueue {
	return &MockMessageQueue{
		PublishedMessages: make(map[string][][]byte),
		Subscribers:       make(map[string][]func([]byte) error),
	}
}

func (m *MockMessageQueue) Publish(subject string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(subject, data)
	}
	m.PublishedMessages[subject] = append(m.PublishedMessages[subject], data)
	return nil
}

func (m *MockMessageQueue) Subscribe(subject string, handler func([]byte) error) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(subject, handler)
	}
	m.Subscribers[subject] = append(m.Subscribers[subject], handler)
	return nil
}

func (m *MockMessageQueue) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Published returns all payloads published to a subject.
func (m *MockMessageQueue) Published(subject string) [][]byte {
	return m.PublishedMessages[subject]
}

// Deliver feeds a payload to every subscriber of a subject, as the broker would.
func (m *MockMessageQueue) Deliver(subject string, data []byte) {
	for _, handler := range m.Subscribers[subject] {
		handler(data)
	}
}
