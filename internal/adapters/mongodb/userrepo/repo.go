package userrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/armywelfare/welfare-api/internal/adapters/mongodb"
	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/ports/out/userrepo"
)

// Repo is a MongoDB implementation of userrepo.Repository. A unique index on
// email_key rejects duplicate emails.
type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection(mongodb.UsersCollection)}
}

type profileRecord struct {
	Rank           string `bson:"rank"`
	Age            int    `bson:"age"`
	Gender         string `bson:"gender"`
	ServiceYears   int    `bson:"service_years"`
	Status         string `bson:"status"`
	Specialization string `bson:"specialization"`
	Batch          string `bson:"batch"`
	FamilySize     int    `bson:"family_size"`
	CurrentPosting string `bson:"current_posting"`
}

type userRecord struct {
	ID           string         `bson:"_id"`
	Email        string         `bson:"email"`
	EmailKey     string         `bson:"email_key"`
	DisplayName  string         `bson:"display_name"`
	PasswordHash string         `bson:"password_hash"`
	Role         string         `bson:"role"`
	Profile      *profileRecord `bson:"profile"`
	CreatedAt    time.Time      `bson:"created_at"`
}

func toRecord(u domain.User) userRecord {
	rec := userRecord{
		ID:           string(u.ID),
		Email:        u.Email,
		EmailKey:     strings.ToLower(strings.TrimSpace(u.Email)),
		DisplayName:  u.DisplayName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role.String(),
		CreatedAt:    u.CreatedAt.UTC(),
	}
	if p := u.Profile; p != nil {
		rec.Profile = &profileRecord{
			Rank:           p.Rank,
			Age:            p.Age,
			Gender:         p.Gender,
			ServiceYears:   p.ServiceYears,
			Status:         string(p.Status),
			Specialization: p.Specialization,
			Batch:          p.Batch,
			FamilySize:     p.FamilySize,
			CurrentPosting: p.CurrentPosting,
		}
	}
	return rec
}

func (rec userRecord) toDomain() (domain.User, error) {
	role, err := domain.ParseRole(rec.Role)
	if err != nil {
		return domain.User{}, fmt.Errorf("decode user %s: %w", rec.ID, err)
	}
	u := domain.User{
		ID:           domain.UserID(rec.ID),
		Email:        rec.Email,
		DisplayName:  rec.DisplayName,
		PasswordHash: rec.PasswordHash,
		Role:         role,
		CreatedAt:    rec.CreatedAt.UTC(),
	}
	if p := rec.Profile; p != nil {
		u.Profile = &domain.Profile{
			Rank:           p.Rank,
			Age:            p.Age,
			Gender:         p.Gender,
			ServiceYears:   p.ServiceYears,
			Status:         domain.ServiceStatus(p.Status),
			Specialization: p.Specialization,
			Batch:          p.Batch,
			FamilySize:     p.FamilySize,
			CurrentPosting: p.CurrentPosting,
		}
	}
	return u, nil
}

func (r *Repo) Create(ctx context.Context, u domain.User) error {
	if _, err := r.coll.InsertOne(ctx, toRecord(u)); err != nil {
		if mongodb.IsDuplicateKey(err) {
			return userrepo.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, u domain.User) error {
	rec := toRecord(u)
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": rec.ID}, bson.M{"$set": bson.M{
		"email":         rec.Email,
		"email_key":     rec.EmailKey,
		"display_name":  rec.DisplayName,
		"password_hash": rec.PasswordHash,
		"role":          rec.Role,
		"profile":       rec.Profile,
	}})
	if err != nil {
		if mongodb.IsDuplicateKey(err) {
			return userrepo.ErrAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return userrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"email_key": strings.ToLower(strings.TrimSpace(email))})
}

func (r *Repo) findOne(ctx context.Context, filter bson.M) (domain.User, error) {
	var rec userRecord
	if err := r.coll.FindOne(ctx, filter).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, userrepo.ErrNotFound
		}
		return domain.User{}, err
	}
	return rec.toDomain()
}

func (r *Repo) List(ctx context.Context) ([]domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(mongodb.ByCreated()))
	if err != nil {
		return nil, err
	}
	var recs []userRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(recs))
	for _, rec := range recs {
		u, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
