package authorizationRepo

import (
	"context"
	"fmt"
	"time"

	"clinicbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoAuthorizationRepo) Create(ctx context.Context, auth *models.Authorization) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if auth.ID == "" {
		auth.ID = uuid.New().String()
	}
	if auth.CreatedAt.IsZero() {
		auth.CreatedAt = time.Now()
	}

	if _, err := r.coll.InsertOne(ctx, auth); err != nil {
		return fmt.Errorf("failed to persist authorization: %w", err)
	}
	return nil
}

func (r *mongoAuthorizationRepo) GetByID(ctx context.Context, id string) (*models.Authorization, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var auth models.Authorization
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&auth)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("authorization not found")
		}
		return nil, fmt.Errorf("find error: %w", err)
	}
	return &auth, nil
}

func (r *mongoAuthorizationRepo) GetByPatientID(ctx context.Context, patientID string) ([]models.Authorization, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"patientId": patientID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch authorizations: %w", err)
	}
	defer cursor.Close(ctx)

	var auths []models.Authorization
	if err := cursor.All(ctx, &auths); err != nil {
		return nil, fmt.Errorf("error decoding authorizations: %w", err)
	}
	return auths, nil
}

func (r *mongoAuthorizationRepo) GetByTherapistAndDate(ctx context.Context, therapistID, date string) ([]models.Authorization, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"therapistId":   therapistID,
		"sessions.date": date,
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch authorizations: %w", err)
	}
	defer cursor.Close(ctx)

	var auths []models.Authorization
	if err := cursor.All(ctx, &auths); err != nil {
		return nil, fmt.Errorf("error decoding authorizations: %w", err)
	}
	return auths, nil
}
