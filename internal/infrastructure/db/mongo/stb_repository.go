package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

// STBRepository implements ports.STBRepository on MongoDB.
type STBRepository struct {
	col *mongo.Collection
}

func NewSTBRepository(db *mongo.Database) *STBRepository {
	return &STBRepository{col: db.Collection(collectionSTBs)}
}

type stbDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	DeviceID     string             `bson:"stb_id"`
	CustomerID   primitive.ObjectID `bson:"customer_id"`
	CustomerCode string             `bson:"customer_code,omitempty"`
	Amount       float64            `bson:"amount"`
	Note         string             `bson:"note,omitempty"`
	AddedBy      primitive.ObjectID `bson:"added_by,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
}

type stbRow struct {
	stbDoc      `bson:",inline"`
	AddedByUser []lookupName `bson:"added_by_user"`
	CustomerRef []lookupName `bson:"customer_ref"`
}

func (d stbDoc) toDomain(addedByName, customerName string) *domain.STB {
	return &domain.STB{
		ID:           d.ID.Hex(),
		DeviceID:     d.DeviceID,
		CustomerID:   hexOrEmpty(d.CustomerID),
		CustomerCode: d.CustomerCode,
		Amount:       d.Amount,
		Note:         d.Note,
		AddedBy:      hexOrEmpty(d.AddedBy),
		CreatedAt:    d.CreatedAt,
		AddedByName:  addedByName,
		CustomerName: customerName,
	}
}

func (r *STBRepository) Create(ctx context.Context, s *domain.STB) (*domain.STB, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	customerID, err := oid(s.CustomerID, domain.ErrCustomerNotFound)
	if err != nil {
		return nil, err
	}
	doc := stbDoc{
		DeviceID:     s.DeviceID,
		CustomerID:   customerID,
		CustomerCode: s.CustomerCode,
		Amount:       s.Amount,
		Note:         s.Note,
		AddedBy:      oidOrNil(s.AddedBy),
		CreatedAt:    time.Now().UTC(),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain("", ""), nil
}

func (r *STBRepository) FindByID(ctx context.Context, id string) (*domain.STB, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	objID, err := oid(id, domain.ErrSTBNotFound)
	if err != nil {
		return nil, err
	}

	var doc stbDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSTBNotFound
		}
		return nil, err
	}
	return doc.toDomain("", ""), nil
}

func (r *STBRepository) List(ctx context.Context) ([]*domain.STB, error) {
	return r.aggregate(ctx, nil)
}

func (r *STBRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.STB, error) {
	objID, err := oid(customerID, domain.ErrCustomerNotFound)
	if err != nil {
		return nil, err
	}
	return r.aggregate(ctx, bson.M{"customer_id": objID})
}

func (r *STBRepository) FindCreatedBetween(ctx context.Context, from, to time.Time) ([]*domain.STB, error) {
	return r.aggregate(ctx, rangeFilter(from, to))
}

// aggregate runs the shared newest-first pipeline with both name lookups.
func (r *STBRepository) aggregate(ctx context.Context, match bson.M) ([]*domain.STB, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{}
	if match != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		userLookupStage(),
		customerLookupStage(),
	)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []stbRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]*domain.STB, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(firstName(row.AddedByUser), firstName(row.CustomerRef)))
	}
	return out, nil
}

// CountByCustomers groups STB counts per customer for the given IDs.
func (r *STBRepository) CountByCustomers(ctx context.Context, customerIDs []string) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ids := make([]primitive.ObjectID, 0, len(customerIDs))
	for _, id := range customerIDs {
		if objID := oidOrNil(id); !objID.IsZero() {
			ids = append(ids, objID)
		}
	}
	if len(ids) == 0 {
		return map[string]int64{}, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"customer_id": bson.M{"$in": ids}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$customer_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Count int64              `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ID.Hex()] = row.Count
	}
	return out, nil
}

func (r *STBRepository) Update(ctx context.Context, id, deviceID, customerCode string, amount float64, note string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	objID, err := oid(id, domain.ErrSTBNotFound)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"stb_id":        deviceID,
		"customer_code": customerCode,
		"amount":        amount,
		"note":          note,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrSTBNotFound
	}
	return nil
}

func (r *STBRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	objID, err := oid(id, domain.ErrSTBNotFound)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrSTBNotFound
	}
	return nil
}

func (r *STBRepository) DeleteByCustomer(ctx context.Context, customerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	objID, err := oid(customerID, domain.ErrCustomerNotFound)
	if err != nil {
		return err
	}
	_, err = r.col.DeleteMany(ctx, bson.M{"customer_id": objID})
	return err
}

func (r *STBRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, rangeFilter(from, to))
}

// SumAmountBetween totals the one-time charges billed in the range
// ("bill generated" on the report).
func (r *STBRepository) SumAmountBetween(ctx context.Context, from, to time.Time) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: rangeFilter(from, to)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// EnsureIndexes creates the stb collection indexes.
func (r *STBRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "stb_id", Value: 1}}},
		{Keys: bson.D{{Key: "customer_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
