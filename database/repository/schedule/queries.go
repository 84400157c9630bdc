package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"clinicbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoScheduleRepo) GetOpenSlots(ctx context.Context, resourceID, date string) ([]models.ScheduleSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"resourceId": resourceID,
		"date":       date,
		"blocked":    false,
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.ScheduleSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding schedule slots: %w", err)
	}
	return slots, nil
}

// GetNextOpenSlot returns the earliest open slot at or after fromDate. On
// fromDate itself only slots starting at or after minStartSameDay qualify, so
// callers can exclude already-elapsed slots without losing later ones that day.
func (r *mongoScheduleRepo) GetNextOpenSlot(ctx context.Context, resourceID, fromDate string, minStartSameDay int) (*models.ScheduleSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"resourceId": resourceID,
		"booked":     false,
		"blocked":    false,
		"$or": []bson.M{
			{"date": fromDate, "start": bson.M{"$gte": minStartSameDay}},
			{"date": bson.M{"$gt": fromDate}},
		},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})

	var slot models.ScheduleSlot
	err := r.coll.FindOne(ctx, filter, opts).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("find error: %w", err)
	}
	return &slot, nil
}

func (r *mongoScheduleRepo) FindSlot(ctx context.Context, resourceID, date string, start, end int) (*models.ScheduleSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"resourceId": resourceID,
		"date":       date,
		"start":      start,
		"end":        end,
	}

	var slot models.ScheduleSlot
	err := r.coll.FindOne(ctx, filter).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("find error: %w", err)
	}
	return &slot, nil
}

// MarkBooked reserves a slot with an optimistic version check so two
// concurrent submissions cannot claim the same slot.
func (r *mongoScheduleRepo) MarkBooked(ctx context.Context, resourceID, slotID, bookingID string, currentVersion int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":         slotID,
		"resourceId": resourceID,
		"booked":     false,
		"version":    currentVersion,
	}
	update := bson.M{
		"$set": bson.M{"booked": true, "bookingId": bookingID},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark slot booked: %w", err)
	}
	if res.ModifiedCount == 0 {
		return fmt.Errorf("slot %s is no longer available", slotID)
	}
	return nil
}

// MarkReleased frees a slot reserved by a submission that later failed.
func (r *mongoScheduleRepo) MarkReleased(ctx context.Context, resourceID, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "resourceId": resourceID, "booked": true}
	update := bson.M{
		"$set": bson.M{"booked": false, "bookingId": ""},
		"$inc": bson.M{"version": 1},
	}

	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}
	return nil
}
