package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

type PatientRepository struct {
	col *mongo.Collection
	ids *sequences
}

func NewPatientRepository(db *mongo.Database, ids *sequences) *PatientRepository {
	return &PatientRepository{col: db.Collection(collectionPatients), ids: ids}
}

type patientDoc struct {
	ID          int64     `bson:"_id"`
	Name        string    `bson:"name"`
	Age         int       `bson:"age"`
	Gender      string    `bson:"gender"`
	PhoneNumber string    `bson:"phone_number"`
	Address     string    `bson:"address"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d patientDoc) toDomain() *domain.Patient {
	return &domain.Patient{
		ID:          domain.PatientID(d.ID),
		Name:        d.Name,
		Age:         d.Age,
		Gender:      domain.Gender(d.Gender),
		PhoneNumber: d.PhoneNumber,
		Address:     d.Address,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

// Create assigns p its id.
func (r *PatientRepository) Create(ctx context.Context, p *domain.Patient) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx, collectionPatients)
	if err != nil {
		return err
	}
	doc := patientDoc{
		ID:          id,
		Name:        p.Name,
		Age:         p.Age,
		Gender:      string(p.Gender),
		PhoneNumber: p.PhoneNumber,
		Address:     p.Address,
		CreatedAt:   p.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	p.ID = domain.PatientID(id)
	return nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id domain.PatientID) (*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc patientDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// ListByPhone matches the phone exactly. An empty phone matches nothing.
func (r *PatientRepository) ListByPhone(ctx context.Context, phone string) ([]*domain.Patient, error) {
	if phone == "" {
		return []*domain.Patient{}, nil
	}
	return r.find(ctx, bson.M{"phone_number": phone})
}

func (r *PatientRepository) FindByIDs(ctx context.Context, ids []domain.PatientID) (map[domain.PatientID]*domain.Patient, error) {
	out := make(map[domain.PatientID]*domain.Patient, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, int64(id))
	}
	list, err := r.find(ctx, bson.M{"_id": bson.M{"$in": raw}})
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

func (r *PatientRepository) find(ctx context.Context, filter bson.M) ([]*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []patientDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Patient, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
