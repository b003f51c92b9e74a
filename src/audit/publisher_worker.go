package audit

import (
	"github.com/0xPetra/zuzagorauth/pkg/logger"
	"github.com/0xPetra/zuzagorauth/pkg/rabbitmq"
)

const publisherAlias = "AuditPublisher"

// PublisherWorker drains login events into the configured RabbitMQ exchange.
// Events are buffered; when the buffer is full they are dropped with a
// warning rather than stalling login requests.
type PublisherWorker struct {
	events    chan LoginEvent
	publisher rabbitmq.IRabbitmqPublisher
	logger    *logger.Logger
}

func NewPublisherWorker() *PublisherWorker {
	return &PublisherWorker{
		events:    make(chan LoginEvent, 256),
		publisher: rabbitmq.GetPublisher(publisherAlias),
		logger:    logger.New(),
	}
}

func (w *PublisherWorker) GetServiceName() string {
	return publisherAlias
}

func (w *PublisherWorker) Record(e LoginEvent) {
	select {
	case w.events <- e:
	default:
		w.logger.Warnf("Audit buffer full, dropping login event %s", e.RequestID)
	}
}

func (w *PublisherWorker) StartService() {
	w.logger.Info("Starting auth audit publisher")

	for e := range w.events {
		if err := w.publisher.Publish(e); err != nil {
			w.logger.Errorf(err, "Failed to publish login event %s", e.RequestID)
		}
	}
}
