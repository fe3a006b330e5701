package listingrepo

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
	"github.com/armywelfare/welfare-api/internal/ports/out/listingrepo"
)

// Repo is a MongoDB implementation of listingrepo.Repository.
type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection(mongodb.ListingsCollection)}
}

type listingRecord struct {
	ID          string    `bson:"_id"`
	OwnerID     string    `bson:"owner_id"`
	OwnerName   string    `bson:"owner_name"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Category    string    `bson:"category"`
	Type        string    `bson:"type"`
	Location    string    `bson:"location"`
	Price       *string   `bson:"price"`
	ContactInfo string    `bson:"contact_info"`
	Images      []string  `bson:"images"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (r *Repo) Create(ctx context.Context, l domain.Listing) error {
	_, err := r.coll.InsertOne(ctx, listingRecord{
		ID:          string(l.ID),
		OwnerID:     string(l.OwnerID),
		OwnerName:   l.OwnerName,
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		Type:        string(l.Type),
		Location:    l.Location,
		Price:       l.Price,
		ContactInfo: l.ContactInfo,
		Images:      l.Images,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt.UTC(),
	})
	if err != nil {
		if mongodb.IsDuplicateKey(err) {
			return listingrepo.ErrAlreadyExists
		}
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ListingID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if res.DeletedCount == 0 {
		return listingrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ListingID) (domain.Listing, error) {
	var rec listingRecord
	if err := r.coll.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Listing{}, listingrepo.ErrNotFound
		}
		return domain.Listing{}, err
	}
	return rec.toDomain(), nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Listing, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(mongodb.ByCreatedDesc()))
	if err != nil {
		return nil, err
	}
	var recs []listingRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	out := make([]domain.Listing, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (rec listingRecord) toDomain() domain.Listing {
	return domain.Listing{
		ID:          domain.ListingID(rec.ID),
		OwnerID:     domain.UserID(rec.OwnerID),
		OwnerName:   rec.OwnerName,
		Title:       rec.Title,
		Description: rec.Description,
		Category:    rec.Category,
		Type:        domain.ListingType(rec.Type),
		Location:    rec.Location,
		Price:       rec.Price,
		ContactInfo: rec.ContactInfo,
		Images:      rec.Images,
		Status:      domain.ListingStatus(rec.Status),
		CreatedAt:   rec.CreatedAt.UTC(),
	}
}
