package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

type MedicationRepository struct {
	col *mongo.Collection
	ids *sequences
}

func NewMedicationRepository(db *mongo.Database, ids *sequences) *MedicationRepository {
	return &MedicationRepository{col: db.Collection(collectionMedications), ids: ids}
}

type medicationDoc struct {
	ID            int64  `bson:"_id"`
	ExaminationID int64  `bson:"examination_id"`
	Name          string `bson:"name"`
	Quantity      string `bson:"quantity"`
	Frequency     string `bson:"frequency"`
	Eye           string `bson:"eye"`
	Duration      string `bson:"duration"`
	Instructions  string `bson:"instructions"`
}

func (r *MedicationRepository) DeleteByExamination(ctx context.Context, id domain.ExaminationID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"examination_id": int64(id)}); err != nil {
		return fmt.Errorf("delete medications: %w", err)
	}
	return nil
}

// InsertMany reserves one id block for the whole batch.
func (r *MedicationRepository) InsertMany(ctx context.Context, meds []domain.Medication) error {
	if len(meds) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	first, err := r.ids.reserve(ctx, collectionMedications, len(meds))
	if err != nil {
		return err
	}
	docs := make([]interface{}, 0, len(meds))
	for i, m := range meds {
		docs = append(docs, medicationDoc{
			ID:            first + int64(i),
			ExaminationID: int64(m.ExaminationID),
			Name:          m.Name,
			Quantity:      m.Quantity,
			Frequency:     m.Frequency,
			Eye:           string(m.Eye),
			Duration:      m.Duration,
			Instructions:  m.Instructions,
		})
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert medications: %w", err)
	}
	return nil
}

func (r *MedicationRepository) ListByExaminations(ctx context.Context, ids []domain.ExaminationID) (map[domain.ExaminationID][]domain.Medication, error) {
	out := make(map[domain.ExaminationID][]domain.Medication, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, int64(id))
	}
	cur, err := r.col.Find(ctx,
		bson.M{"examination_id": bson.M{"$in": raw}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	var docs []medicationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		id := domain.ExaminationID(d.ExaminationID)
		out[id] = append(out[id], domain.Medication{
			ID:            domain.MedicationID(d.ID),
			ExaminationID: id,
			Name:          d.Name,
			Quantity:      d.Quantity,
			Frequency:     d.Frequency,
			Eye:           domain.Eye(d.Eye),
			Duration:      d.Duration,
			Instructions:  d.Instructions,
		})
	}
	return out, nil
}
