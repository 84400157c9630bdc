package patientRepo

import (
	"context"
	"fmt"
	"time"

	"clinicbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoPatientRepo) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var patient models.Patient
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&patient)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("patient not found")
		}
		return nil, fmt.Errorf("find error: %w", err)
	}
	return &patient, nil
}

func (r *mongoPatientRepo) Search(ctx context.Context, query string, limit int) ([]models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}

	filter := bson.M{
		"$or": []bson.M{
			{"firstName": bson.M{"$regex": query, "$options": "i"}},
			{"lastName": bson.M{"$regex": query, "$options": "i"}},
			{"insuranceId": query},
		},
	}
	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "lastName", Value: 1}, {Key: "firstName", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	defer cursor.Close(ctx)

	var patients []models.Patient
	if err := cursor.All(ctx, &patients); err != nil {
		return nil, fmt.Errorf("error decoding patients: %w", err)
	}
	return patients, nil
}
