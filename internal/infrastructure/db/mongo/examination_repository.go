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

type ExaminationRepository struct {
	col *mongo.Collection
	ids *sequences
}

func NewExaminationRepository(db *mongo.Database, ids *sequences) *ExaminationRepository {
	return &ExaminationRepository{col: db.Collection(collectionExaminations), ids: ids}
}

// consultant_id is stored as null rather than omitted so that the completion
// filter and the per-consultant indexes see every document.
type examinationDoc struct {
	ID            int64                   `bson:"_id"`
	PatientID     int64                   `bson:"patient_id"`
	OptometristID int64                   `bson:"optometrist_id"`
	ConsultantID  *int64                  `bson:"consultant_id"`
	DateOfVisit   time.Time               `bson:"date_of_visit"`
	Clinical      domain.ClinicalFindings `bson:"clinical"`
	Diagnosis     domain.Diagnosis        `bson:"diagnosis"`
	IsCompleted   bool                    `bson:"is_completed"`
	CreatedAt     time.Time               `bson:"created_at"`
	UpdatedAt     time.Time               `bson:"updated_at"`
}

func (d examinationDoc) toDomain() *domain.Examination {
	e := &domain.Examination{
		ID:            domain.ExaminationID(d.ID),
		PatientID:     domain.PatientID(d.PatientID),
		OptometristID: domain.OptometristID(d.OptometristID),
		DateOfVisit:   d.DateOfVisit.UTC(),
		Clinical:      d.Clinical,
		Diagnosis:     d.Diagnosis,
		IsCompleted:   d.IsCompleted,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
	if d.ConsultantID != nil {
		c := domain.DoctorID(*d.ConsultantID)
		e.ConsultantID = &c
	}
	return e
}

func (r *ExaminationRepository) Create(ctx context.Context, e *domain.Examination) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx, collectionExaminations)
	if err != nil {
		return err
	}
	doc := examinationDoc{
		ID:            id,
		PatientID:     int64(e.PatientID),
		OptometristID: int64(e.OptometristID),
		DateOfVisit:   e.DateOfVisit,
		Clinical:      e.Clinical,
		Diagnosis:     e.Diagnosis,
		IsCompleted:   e.IsCompleted,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	if e.ConsultantID != nil {
		c := int64(*e.ConsultantID)
		doc.ConsultantID = &c
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert examination: %w", err)
	}
	e.ID = domain.ExaminationID(id)
	return nil
}

func (r *ExaminationRepository) FindByID(ctx context.Context, id domain.ExaminationID) (*domain.Examination, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc examinationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExaminationNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// CompleteIfOpen is a single conditional update; the filter is the guard.
func (r *ExaminationRepository) CompleteIfOpen(ctx context.Context, id domain.ExaminationID, consultant domain.DoctorID, d domain.Diagnosis, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":           int64(id),
		"consultant_id": int64(consultant),
		"is_completed":  false,
	}
	update := bson.M{"$set": bson.M{
		"diagnosis":    d,
		"is_completed": true,
		"updated_at":   at,
	}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("complete examination: %w", err)
	}
	return res.MatchedCount == 1, nil
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

func (r *ExaminationRepository) ListByPatients(ctx context.Context, ids []domain.PatientID) ([]*domain.Examination, error) {
	if len(ids) == 0 {
		return []*domain.Examination{}, nil
	}
	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, int64(id))
	}
	return r.find(ctx, bson.M{"patient_id": bson.M{"$in": raw}})
}

func (r *ExaminationRepository) ListByConsultant(ctx context.Context, consultant domain.DoctorID) ([]*domain.Examination, error) {
	return r.find(ctx, bson.M{"consultant_id": int64(consultant)})
}

func (r *ExaminationRepository) find(ctx context.Context, filter bson.M) ([]*domain.Examination, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	var docs []examinationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Examination, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ExaminationRepository) CountOpenByConsultant(ctx context.Context, ids []domain.DoctorID) (map[domain.DoctorID]int, error) {
	out := make(map[domain.DoctorID]int, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, int64(id))
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"consultant_id": bson.M{"$in": raw}, "is_completed": false}}},
		{{Key: "$group", Value: bson.M{"_id": "$consultant_id", "open": bson.M{"$sum": 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count open examinations: %w", err)
	}
	var rows []struct {
		ID   int64 `bson:"_id"`
		Open int   `bson:"open"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[domain.DoctorID(row.ID)] = row.Open
	}
	return out, nil
}
