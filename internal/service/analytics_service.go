package service

import (
	"context"
	"encoding/json"

	"offline-traffic-bot/internal/dto"
	"offline-traffic-bot/internal/pkg/logger"
	"offline-traffic-bot/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IAnalyticsService interface {
	Consume(ctx context.Context) error
	Stats() (map[string]dto.EventStats, error)
}

type analyticsService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	analyticsRepo contract.AnalyticsRepository
	logger        logger.ILogger
}

func NewAnalyticsService(
	pubSub *gochannel.GoChannel,
	topicName string,
	analyticsRepo contract.AnalyticsRepository,
	sysLogger logger.ILogger,
) IAnalyticsService {
	return &analyticsService{
		pubSub:        pubSub,
		topicName:     topicName,
		analyticsRepo: analyticsRepo,
		logger:        sysLogger,
	}
}

func (as *analyticsService) Consume(ctx context.Context) error {
	messages, err := as.pubSub.Subscribe(ctx, as.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			as.processMessage(msg)
		}
	}()

	return nil
}

func (as *analyticsService) Stats() (map[string]dto.EventStats, error) {
	return as.analyticsRepo.Snapshot()
}

// processMessage always acks: counters are fire-and-forget and a redelivery
// loop would double-count.
func (as *analyticsService) processMessage(msg *message.Message) {
	defer msg.Ack()

	var evt dto.AnalyticsEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		as.logger.Warn("analytics", "bad event payload", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := as.analyticsRepo.Track(evt.Event, evt.Detail, evt.At); err != nil {
		as.logger.Warn("analytics", "counter update failed", map[string]interface{}{
			"event": evt.Event,
			"error": err.Error(),
		})
	}
}
