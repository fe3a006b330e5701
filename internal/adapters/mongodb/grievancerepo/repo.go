package grievancerepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/armywelfare/welfare-api/internal/adapters/mongodb"
	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/ports/out/grievancerepo"
)

// Repo is a MongoDB implementation of grievancerepo.Repository.
type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection(mongodb.GrievancesCollection)}
}

type grievanceRecord struct {
	ID          string    `bson:"_id"`
	OwnerID     string    `bson:"owner_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Category    string    `bson:"category"`
	Priority    string    `bson:"priority"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (rec grievanceRecord) toDomain() domain.Grievance {
	return domain.Grievance{
		ID:          domain.GrievanceID(rec.ID),
		OwnerID:     domain.UserID(rec.OwnerID),
		Title:       rec.Title,
		Description: rec.Description,
		Category:    rec.Category,
		Priority:    domain.Priority(rec.Priority),
		Status:      domain.GrievanceStatus(rec.Status),
		CreatedAt:   rec.CreatedAt.UTC(),
		UpdatedAt:   rec.UpdatedAt.UTC(),
	}
}

func (r *Repo) Create(ctx context.Context, g domain.Grievance) error {
	_, err := r.coll.InsertOne(ctx, grievanceRecord{
		ID:          string(g.ID),
		OwnerID:     string(g.OwnerID),
		Title:       g.Title,
		Description: g.Description,
		Category:    g.Category,
		Priority:    string(g.Priority),
		Status:      string(g.Status),
		CreatedAt:   g.CreatedAt.UTC(),
		UpdatedAt:   g.UpdatedAt.UTC(),
	})
	if err != nil {
		if mongodb.IsDuplicateKey(err) {
			return grievancerepo.ErrAlreadyExists
		}
		return fmt.Errorf("insert grievance: %w", err)
	}
	return nil
}

// Update sets the mutable fields; owner_id and created_at are left alone.
func (r *Repo) Update(ctx context.Context, g domain.Grievance) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": string(g.ID)}, bson.M{"$set": bson.M{
		"title":       g.Title,
		"description": g.Description,
		"category":    g.Category,
		"priority":    string(g.Priority),
		"status":      string(g.Status),
		"updated_at":  g.UpdatedAt.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update grievance: %w", err)
	}
	if res.MatchedCount == 0 {
		return grievancerepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.GrievanceID) (domain.Grievance, error) {
	var rec grievanceRecord
	if err := r.coll.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Grievance{}, grievancerepo.ErrNotFound
		}
		return domain.Grievance{}, err
	}
	return rec.toDomain(), nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Grievance, error) {
	return r.find(ctx, bson.M{})
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.Grievance, error) {
	return r.find(ctx, bson.M{"owner_id": string(owner)})
}

func (r *Repo) find(ctx context.Context, filter bson.M) ([]domain.Grievance, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(mongodb.ByCreatedDesc()))
	if err != nil {
		return nil, err
	}
	var recs []grievanceRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	out := make([]domain.Grievance, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}
