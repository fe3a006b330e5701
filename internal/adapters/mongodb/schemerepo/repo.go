package schemerepo

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
	"github.com/armywelfare/welfare-api/internal/ports/out/schemerepo"
)

// Repo is a MongoDB implementation of schemerepo.Repository.
type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection(mongodb.SchemesCollection)}
}

type ruleRecord struct {
	MinAge          *int     `bson:"min_age"`
	MaxAge          *int     `bson:"max_age"`
	MinServiceYears *int     `bson:"min_service_years"`
	Ranks           []string `bson:"ranks"`
	Statuses        []string `bson:"statuses"`
	Genders         []string `bson:"genders"`
	Specializations []string `bson:"specializations"`
	Batches         []string `bson:"batches"`
}

type schemeRecord struct {
	ID                 string     `bson:"_id"`
	Title              string     `bson:"title"`
	Description        string     `bson:"description"`
	Category           string     `bson:"category"`
	Eligibility        ruleRecord `bson:"eligibility"`
	Amount             string     `bson:"amount"`
	Benefits           string     `bson:"benefits"`
	ApplicationProcess string     `bson:"application_process"`
	Deadline           *time.Time `bson:"deadline"`
	Status             string     `bson:"status"`
	Applicants         int        `bson:"applicants"`
	MaxApplicants      int        `bson:"max_applicants"`
	CreatedAt          time.Time  `bson:"created_at"`
	UpdatedAt          time.Time  `bson:"updated_at"`
}

func toRecord(s domain.Scheme) schemeRecord {
	rec := schemeRecord{
		ID:          string(s.ID),
		Title:       s.Title,
		Description: s.Description,
		Category:    s.Category,
		Eligibility: ruleRecord{
			MinAge:          s.Eligibility.MinAge,
			MaxAge:          s.Eligibility.MaxAge,
			MinServiceYears: s.Eligibility.MinServiceYears,
			Ranks:           s.Eligibility.Ranks,
			Genders:         s.Eligibility.Genders,
			Specializations: s.Eligibility.Specializations,
			Batches:         s.Eligibility.Batches,
		},
		Amount:             s.Amount,
		Benefits:           s.Benefits,
		ApplicationProcess: s.ApplicationProcess,
		Deadline:           s.Deadline,
		Status:             string(s.Status),
		Applicants:         s.Applicants,
		MaxApplicants:      s.MaxApplicants,
		CreatedAt:          s.CreatedAt.UTC(),
		UpdatedAt:          s.UpdatedAt.UTC(),
	}
	if s.Eligibility.Statuses != nil {
		rec.Eligibility.Statuses = make([]string, len(s.Eligibility.Statuses))
		for i, v := range s.Eligibility.Statuses {
			rec.Eligibility.Statuses[i] = string(v)
		}
	}
	return rec
}

func (rec schemeRecord) toDomain() domain.Scheme {
	s := domain.Scheme{
		ID:          domain.SchemeID(rec.ID),
		Title:       rec.Title,
		Description: rec.Description,
		Category:    rec.Category,
		Eligibility: domain.EligibilityRule{
			MinAge:          rec.Eligibility.MinAge,
			MaxAge:          rec.Eligibility.MaxAge,
			MinServiceYears: rec.Eligibility.MinServiceYears,
			Ranks:           rec.Eligibility.Ranks,
			Genders:         rec.Eligibility.Genders,
			Specializations: rec.Eligibility.Specializations,
			Batches:         rec.Eligibility.Batches,
		},
		Amount:             rec.Amount,
		Benefits:           rec.Benefits,
		ApplicationProcess: rec.ApplicationProcess,
		Status:             domain.SchemeStatus(rec.Status),
		Applicants:         rec.Applicants,
		MaxApplicants:      rec.MaxApplicants,
		CreatedAt:          rec.CreatedAt.UTC(),
		UpdatedAt:          rec.UpdatedAt.UTC(),
	}
	if rec.Deadline != nil {
		d := rec.Deadline.UTC()
		s.Deadline = &d
	}
	if rec.Eligibility.Statuses != nil {
		s.Eligibility.Statuses = make([]domain.ServiceStatus, len(rec.Eligibility.Statuses))
		for i, v := range rec.Eligibility.Statuses {
			s.Eligibility.Statuses[i] = domain.ServiceStatus(v)
		}
	}
	return s
}

func (r *Repo) Create(ctx context.Context, s domain.Scheme) error {
	if _, err := r.coll.InsertOne(ctx, toRecord(s)); err != nil {
		if mongodb.IsDuplicateKey(err) {
			return schemerepo.ErrAlreadyExists
		}
		return fmt.Errorf("insert scheme: %w", err)
	}
	return nil
}

// Update replaces the stored document. CreatedAt is kept from the original.
func (r *Repo) Update(ctx context.Context, s domain.Scheme) error {
	rec := toRecord(s)
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": rec.ID}, bson.M{"$set": bson.M{
		"title":               rec.Title,
		"description":         rec.Description,
		"category":            rec.Category,
		"eligibility":         rec.Eligibility,
		"amount":              rec.Amount,
		"benefits":            rec.Benefits,
		"application_process": rec.ApplicationProcess,
		"deadline":            rec.Deadline,
		"status":              rec.Status,
		"applicants":          rec.Applicants,
		"max_applicants":      rec.MaxApplicants,
		"updated_at":          rec.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update scheme: %w", err)
	}
	if res.MatchedCount == 0 {
		return schemerepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.SchemeID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return fmt.Errorf("delete scheme: %w", err)
	}
	if res.DeletedCount == 0 {
		return schemerepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.SchemeID) (domain.Scheme, error) {
	var rec schemeRecord
	if err := r.coll.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Scheme{}, schemerepo.ErrNotFound
		}
		return domain.Scheme{}, err
	}
	return rec.toDomain(), nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Scheme, error) {
	return r.find(ctx, bson.M{})
}

// FindEligible runs the roster predicate as a query. Null bounds and null
// sets never satisfy $lte, $gte or array membership.
func (r *Repo) FindEligible(ctx context.Context, age int, status domain.ServiceStatus, rank string) ([]domain.Scheme, error) {
	return r.find(ctx, bson.M{
		"eligibility.min_age":  bson.M{"$lte": age},
		"eligibility.max_age":  bson.M{"$gte": age},
		"eligibility.statuses": string(status),
		"eligibility.ranks":    rank,
	})
}

func (r *Repo) find(ctx context.Context, filter bson.M) ([]domain.Scheme, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(mongodb.ByCreated()))
	if err != nil {
		return nil, err
	}
	var recs []schemeRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	out := make([]domain.Scheme, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}
