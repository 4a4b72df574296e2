package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"epsol/importer/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// streamRepository publishes every record to a Redis stream for downstream consumers.
type streamRepository struct {
	redisClient *redis.Client
	stream      string
}

func NewStreamRepository(redisClient *redis.Client, stream string) EquipmentRepository {
	return &streamRepository{
		redisClient: redisClient,
		stream:      stream,
	}
}

func (r *streamRepository) CreateEquipment(ctx context.Context, record *domain.EquipmentRecord) (string, error) {
	if err := record.Validate(); err != nil {
		return "", err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to serialize equipment: %w", err)
	}

	id := uuid.NewString()

	messageID, err := r.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]interface{}{
			"id":             id,
			"equipment_data": string(data),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to add equipment to Redis stream %s: %w", r.stream, err)
	}

	log.Debugf("Added equipment %s to stream %s with message ID: %s", id, r.stream, messageID)
	return id, nil
}
