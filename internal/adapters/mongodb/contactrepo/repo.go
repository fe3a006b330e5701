package contactrepo

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
	"github.com/armywelfare/welfare-api/internal/ports/out/contactrepo"
)

// Repo is a MongoDB implementation of contactrepo.Repository.
type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection(mongodb.ContactsCollection)}
}

type contactRecord struct {
	ID           string    `bson:"_id"`
	OwnerID      string    `bson:"owner_id"`
	Name         string    `bson:"name"`
	Department   string    `bson:"department"`
	Relationship string    `bson:"relationship"`
	Phone        string    `bson:"phone"`
	Location     string    `bson:"location"`
	Availability string    `bson:"availability"`
	Category     string    `bson:"category"`
	Priority     string    `bson:"priority"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (rec contactRecord) toDomain() domain.EmergencyContact {
	return domain.EmergencyContact{
		ID:           domain.ContactID(rec.ID),
		OwnerID:      domain.UserID(rec.OwnerID),
		Name:         rec.Name,
		Department:   rec.Department,
		Relationship: rec.Relationship,
		Phone:        rec.Phone,
		Location:     rec.Location,
		Availability: domain.Availability(rec.Availability),
		Category:     rec.Category,
		Priority:     domain.Priority(rec.Priority),
		CreatedAt:    rec.CreatedAt.UTC(),
	}
}

func (r *Repo) Create(ctx context.Context, c domain.EmergencyContact) error {
	_, err := r.coll.InsertOne(ctx, contactRecord{
		ID:           string(c.ID),
		OwnerID:      string(c.OwnerID),
		Name:         c.Name,
		Department:   c.Department,
		Relationship: c.Relationship,
		Phone:        c.Phone,
		Location:     c.Location,
		Availability: string(c.Availability),
		Category:     c.Category,
		Priority:     string(c.Priority),
		CreatedAt:    c.CreatedAt.UTC(),
	})
	if err != nil {
		if mongodb.IsDuplicateKey(err) {
			return contactrepo.ErrAlreadyExists
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ContactID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if res.DeletedCount == 0 {
		return contactrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ContactID) (domain.EmergencyContact, error) {
	var rec contactRecord
	if err := r.coll.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.EmergencyContact{}, contactrepo.ErrNotFound
		}
		return domain.EmergencyContact{}, err
	}
	return rec.toDomain(), nil
}

func (r *Repo) ListVisibleTo(ctx context.Context, owner domain.UserID) ([]domain.EmergencyContact, error) {
	return r.find(ctx, bson.M{"owner_id": bson.M{"$in": bson.A{"", string(owner)}}})
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.EmergencyContact, error) {
	return r.find(ctx, bson.M{"owner_id": string(owner)})
}

func (r *Repo) find(ctx context.Context, filter bson.M) ([]domain.EmergencyContact, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(mongodb.ByCreated()))
	if err != nil {
		return nil, err
	}
	var recs []contactRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	out := make([]domain.EmergencyContact, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}
