package rabbitmq

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/teDdyMucho/connectlove-sub001/internal/model"
	"go.uber.org/zap"
)

// SupportFeed streams supports-table change events for one
// (supporter, creator) pair. Each subscription owns a consumer tag; the
// returned stop function cancels the consumer, which ends the delivery
// channel and closes the event channel.
type SupportFeed struct {
	logger *zap.Logger
	mq     *MQConn
}

func NewSupportFeed(logger *zap.Logger, mq *MQConn) *SupportFeed {
	return &SupportFeed{
		logger: logger,
		mq:     mq,
	}
}

func (f *SupportFeed) Subscribe(supporterID string, creatorID string) (<-chan model.SupportEvent, func(), error) {
	queue := SupportsChangesQueue(supporterID, creatorID)
	consumerTag := fmt.Sprintf("supports-feed:%s:%s", supporterID, creatorID)

	deliveries, err := f.mq.Consume(queue, consumerTag)
	if err != nil {
		return nil, nil, err
	}

	events := make(chan model.SupportEvent)
	go func() {
		defer close(events)
		for delivery := range deliveries {
			var event model.SupportEvent
			if err := json.Unmarshal(delivery.Body, &event); err != nil {
				f.logger.Sugar().Errorf("failed to unmarshal support event from queue(%s): %s", queue, err.Error())
				continue
			}

			events <- event
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			if err := f.mq.CancelConsumer(consumerTag); err != nil {
				f.logger.Sugar().Errorf("failed to cancel consumer(%s): %s", consumerTag, err.Error())
			}
		})
	}

	return events, stop, nil
}
