package authorizationRepo

import (
	"context"

	"clinicbook/config"
	"clinicbook/database"
	"clinicbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AuthorizationRepository persists submitted therapy authorizations.
type AuthorizationRepository interface {
	Create(ctx context.Context, auth *models.Authorization) error
	GetByID(ctx context.Context, id string) (*models.Authorization, error)
	GetByPatientID(ctx context.Context, patientID string) ([]models.Authorization, error)
	GetByTherapistAndDate(ctx context.Context, therapistID, date string) ([]models.Authorization, error)
}

type mongoAuthorizationRepo struct {
	coll *mongo.Collection
}

// NewMongoAuthorizationRepo constructs a new MongoDB AuthorizationRepository.
func NewMongoAuthorizationRepo() AuthorizationRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoAuthorizationRepo{
		coll: db.Collection("authorizations"),
	}
}
