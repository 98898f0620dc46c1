package domain

import "sync"

// ModelFactory constructs a ready-to-use caption model. Construction can be expensive
// (checkpoint download, runtime warmup), which is why ModelProvider memoizes the result.
type ModelFactory func() (CaptionModel, error)

// ModelProvider hands out the process-wide model handle. The factory runs at most once
// per process lifetime no matter how many caption requests follow; both the constructed
// model and a construction failure are memoized. There is no eviction or refresh: a failed
// model load is fatal for the remainder of the session.
type ModelProvider struct {
	once    sync.Once
	factory ModelFactory
	model   CaptionModel
	err     error
}

func NewModelProvider(factory ModelFactory) *ModelProvider {
	return &ModelProvider{
		factory: factory,
	}
}

func (m *ModelProvider) Provide() (CaptionModel, error) {
	m.once.Do(func() {
		m.model, m.err = m.factory()
	})
	return m.model, m.err
}
