package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/interfac/user-manager/internal/core/domain"
)

// MongoAuditRepository appends user change-log entries.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Action    string             `bson:"action"`
	UserID    int64              `bson:"user_id"`
	Username  string             `bson:"username"`
	Principal string             `bson:"principal"`
	At        int64              `bson:"at"`
}

func (r *MongoAuditRepository) Append(ctx context.Context, entry domain.AuditEntry) error {
	doc := auditDoc{
		Action:    string(entry.Action),
		UserID:    entry.UserID,
		Username:  entry.Username,
		Principal: entry.Principal,
		At:        entry.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (r *MongoAuditRepository) ListByUserID(ctx context.Context, userID int64) ([]domain.AuditEntry, error) {
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer cur.Close(ctx)

	var entries []domain.AuditEntry
	for cur.Next(ctx) {
		var doc auditDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode audit entry: %w", err)
		}
		entries = append(entries, domain.AuditEntry{
			ID:        doc.ID.Hex(),
			Action:    domain.AuditAction(doc.Action),
			UserID:    doc.UserID,
			Username:  doc.Username,
			Principal: doc.Principal,
			At:        unixToTime(doc.At),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}
