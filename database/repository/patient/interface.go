package patientRepo

import (
	"context"

	"clinicbook/config"
	"clinicbook/database"
	"clinicbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// PatientRepository is a read-only view over the patient directory. The
// booking flow only ever looks patients up; records are managed elsewhere.
type PatientRepository interface {
	GetByID(ctx context.Context, id string) (*models.Patient, error)
	Search(ctx context.Context, query string, limit int) ([]models.Patient, error)
}

type mongoPatientRepo struct {
	coll *mongo.Collection
}

// NewMongoPatientRepo constructs a new MongoDB PatientRepository.
func NewMongoPatientRepo() PatientRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoPatientRepo{
		coll: db.Collection("patients"),
	}
}
