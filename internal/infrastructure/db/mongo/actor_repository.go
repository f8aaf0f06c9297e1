package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

const (
	indexActorPhone   = "uniq_actor_phone"
	indexActorEmail   = "uniq_actor_email"
	indexActorLicense = "uniq_actor_license"
)

type ActorRepository struct {
	col *mongo.Collection
	ids *sequences
}

func NewActorRepository(db *mongo.Database, ids *sequences) *ActorRepository {
	return &ActorRepository{col: db.Collection(collectionActors), ids: ids}
}

type profileDoc struct {
	LicenseNumber   *string `bson:"license_number,omitempty"`
	Qualification   string  `bson:"qualification"`
	Specialization  string  `bson:"specialization"`
	ExperienceYears int     `bson:"experience_years"`
	Bio             string  `bson:"bio"`
	ClinicAddress   string  `bson:"clinic_address"`
	Website         string  `bson:"website"`
	OfficeHours     string  `bson:"office_hours"`
	Languages       string  `bson:"languages"`
}

type actorDoc struct {
	ID           int64      `bson:"_id"`
	Name         string     `bson:"name"`
	PhoneNumber  string     `bson:"phone_number"`
	Email        *string    `bson:"email,omitempty"`
	Role         string     `bson:"role"`
	PasswordHash string     `bson:"password_hash"`
	IsActive     bool       `bson:"is_active"`
	IsStaff      bool       `bson:"is_staff"`
	Profile      profileDoc `bson:"profile"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
}

func toActorDoc(a *domain.Actor) actorDoc {
	p := a.Profile
	return actorDoc{
		ID:           int64(a.ID),
		Name:         a.Name,
		PhoneNumber:  a.PhoneNumber,
		Email:        a.Email,
		Role:         string(a.Role),
		PasswordHash: a.PasswordHash,
		IsActive:     a.IsActive,
		IsStaff:      a.IsStaff,
		Profile: profileDoc{
			LicenseNumber:   p.LicenseNumber,
			Qualification:   p.Qualification,
			Specialization:  p.Specialization,
			ExperienceYears: p.ExperienceYears,
			Bio:             p.Bio,
			ClinicAddress:   p.ClinicAddress,
			Website:         p.Website,
			OfficeHours:     p.OfficeHours,
			Languages:       p.Languages,
		},
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (d actorDoc) toDomain() *domain.Actor {
	return &domain.Actor{
		ID:           domain.ActorID(d.ID),
		Name:         d.Name,
		PhoneNumber:  d.PhoneNumber,
		Email:        d.Email,
		Role:         domain.Role(d.Role),
		PasswordHash: d.PasswordHash,
		IsActive:     d.IsActive,
		IsStaff:      d.IsStaff,
		Profile: domain.Profile{
			LicenseNumber:   d.Profile.LicenseNumber,
			Qualification:   d.Profile.Qualification,
			Specialization:  d.Profile.Specialization,
			ExperienceYears: d.Profile.ExperienceYears,
			Bio:             d.Profile.Bio,
			ClinicAddress:   d.Profile.ClinicAddress,
			Website:         d.Profile.Website,
			OfficeHours:     d.Profile.OfficeHours,
			Languages:       d.Profile.Languages,
		},
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// Create assigns the next actor id and inserts the document. Unique index
// violations are reported as the matching duplicate error.
func (r *ActorRepository) Create(ctx context.Context, a *domain.Actor) (*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx, collectionActors)
	if err != nil {
		return nil, err
	}
	doc := toActorDoc(a)
	doc.ID = id

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateActorError(err)
		}
		return nil, fmt.Errorf("insert actor: %w", err)
	}
	return doc.toDomain(), nil
}

func duplicateActorError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, indexActorEmail):
		return domain.ErrDuplicateEmail
	case strings.Contains(msg, indexActorLicense):
		return domain.ErrDuplicateLicense
	}
	return domain.ErrDuplicatePhone
}

func (r *ActorRepository) findOne(ctx context.Context, filter bson.M) (*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc actorDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrActorNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *ActorRepository) FindByID(ctx context.Context, id domain.ActorID) (*domain.Actor, error) {
	return r.findOne(ctx, bson.M{"_id": int64(id)})
}

func (r *ActorRepository) FindByPhone(ctx context.Context, phone string) (*domain.Actor, error) {
	return r.findOne(ctx, bson.M{"phone_number": phone})
}

func (r *ActorRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"phone_number": phone}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ActorRepository) ListActiveByRole(ctx context.Context, role domain.Role) ([]*domain.Actor, error) {
	return r.find(ctx,
		bson.M{"role": string(role), "is_active": true},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
}

func (r *ActorRepository) FindByIDs(ctx context.Context, ids []domain.ActorID) (map[domain.ActorID]*domain.Actor, error) {
	out := make(map[domain.ActorID]*domain.Actor, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, int64(id))
	}
	list, err := r.find(ctx, bson.M{"_id": bson.M{"$in": raw}}, nil)
	if err != nil {
		return nil, err
	}
	for _, a := range list {
		out[a.ID] = a
	}
	return out, nil
}

func (r *ActorRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []actorDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Actor, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
