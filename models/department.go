package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Department is an organizational unit that can own grievances.
type Department struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DepartmentID string             `bson:"departmentId" json:"departmentId"`
	Name         string             `bson:"name" json:"name"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// EnsureDepartmentIndex creates a unique index on departmentId
func EnsureDepartmentIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "departmentId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}

// SeedDepartments inserts the departments referenced by the category table
// when they are missing. Existing records are left untouched.
func SeedDepartments(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	names := map[string]string{
		"ACAD001":   "Academic Affairs",
		"ADMIN001":  "Administration Office",
		"INFRA001":  "Infrastructure Maintenance",
		"HOSTEL001": "Hostel Management",
		"GEN001":    "General Services",
	}

	for code, name := range names {
		filter := bson.M{"departmentId": code}
		update := bson.M{"$setOnInsert": Department{
			DepartmentID: code,
			Name:         name,
			CreatedAt:    time.Now(),
		}}
		opts := options.Update().SetUpsert(true)
		if _, err := collection.UpdateOne(ctx, filter, update, opts); err != nil {
			return err
		}
	}
	return nil
}
