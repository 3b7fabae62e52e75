package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/brew-catalog-api/internal/application"
)

type beerIndexer interface {
	IndexBeer(ctx context.Context, id string) error
}

const indexTimeout = 15 * time.Second

// handle indexes the beer named by one delivery and settles it. A failed
// job is requeued once; a second failure drops it.
func handle(ctx context.Context, idx beerIndexer, logger *logrus.Logger, msg amqp.Delivery) {
	var job application.IndexJob
	if err := json.Unmarshal(msg.Body, &job); err != nil || job.BeerID == "" {
		logger.WithError(err).Warn("bad index job")
		_ = msg.Nack(false, false)
		return
	}
	log := logger.WithField("beer_id", job.BeerID)

	c, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()
	err := idx.IndexBeer(c, job.BeerID)
	switch {
	case err == nil:
		log.Debug("beer indexed")
		_ = msg.Ack(false)
	case errors.Is(err, application.ErrBeerNotFound):
		log.Warn("beer vanished before indexing")
		_ = msg.Ack(false)
	case msg.Redelivered:
		log.WithError(err).Error("index failed twice, dropping job")
		_ = msg.Nack(false, false)
	default:
		log.WithError(err).Warn("index failed, requeueing")
		_ = msg.Nack(false, true)
	}
}
