package repository

import (
	"context"

	"epsol/importer/internal/domain"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// logRepository writes records to the log instead of storing them (dry run).
type logRepository struct {
	logger log.FieldLogger
}

func NewLogRepository(logger log.FieldLogger) EquipmentRepository {
	return &logRepository{logger: logger}
}

func (r *logRepository) CreateEquipment(_ context.Context, record *domain.EquipmentRecord) (string, error) {
	if err := record.Validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	r.logger.WithFields(log.Fields{
		"id":             id,
		"category":       record.Category,
		"subcategory":    record.Subcategory,
		"price":          record.Price,
		"currency":       record.Currency,
		"specifications": len(record.Specifications),
	}).Info(record.Name)

	return id, nil
}
