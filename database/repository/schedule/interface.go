package scheduleRepo

import (
	"context"

	"clinicbook/config"
	"clinicbook/database"
	"clinicbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ScheduleRepository is the data-access surface for resource schedule slots.
type ScheduleRepository interface {
	CreateMany(ctx context.Context, slots []models.ScheduleSlot) ([]string, error)
	DeleteByID(ctx context.Context, resourceID, slotID string) error
	GetByResourceIDAndDate(ctx context.Context, resourceID, date string) ([]models.ScheduleSlot, error)
	GetOpenSlots(ctx context.Context, resourceID, date string) ([]models.ScheduleSlot, error)
	GetNextOpenSlot(ctx context.Context, resourceID, fromDate string, minStartSameDay int) (*models.ScheduleSlot, error)
	FindSlot(ctx context.Context, resourceID, date string, start, end int) (*models.ScheduleSlot, error)
	MarkBooked(ctx context.Context, resourceID, slotID, bookingID string, currentVersion int) error
	MarkReleased(ctx context.Context, resourceID, slotID string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoScheduleRepo struct {
	coll *mongo.Collection
}

// NewMongoScheduleRepo constructs a new MongoDB ScheduleRepository.
func NewMongoScheduleRepo() ScheduleRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoScheduleRepo{
		coll: db.Collection("schedule_slots"),
	}
}
