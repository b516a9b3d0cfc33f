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

// CustomerRepository implements ports.CustomerRepository on MongoDB.
type CustomerRepository struct {
	col *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{col: db.Collection(collectionCustomers)}
}

type customerDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Phone     string             `bson:"phone"`
	Address   string             `bson:"address"`
	AddedBy   primitive.ObjectID `bson:"added_by,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

// customerRow is the aggregation shape with the creator lookup attached.
type customerRow struct {
	customerDoc `bson:",inline"`
	AddedByUser []lookupName `bson:"added_by_user"`
}

func (d customerDoc) toDomain(addedByName string) *domain.Customer {
	return &domain.Customer{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Phone:       d.Phone,
		Address:     d.Address,
		AddedBy:     hexOrEmpty(d.AddedBy),
		CreatedAt:   d.CreatedAt,
		AddedByName: addedByName,
	}
}

func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := customerDoc{
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		AddedBy:   oidOrNil(c.AddedBy),
		CreatedAt: time.Now().UTC(),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(""), nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	objID, err := oid(id, domain.ErrCustomerNotFound)
	if err != nil {
		return nil, err
	}

	var doc customerDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return doc.toDomain(""), nil
}

// List returns a page of customers newest first, with the creator's name
// joined in from the users collection.
func (r *CustomerRepository) List(ctx context.Context, page, limit int) ([]*domain.Customer, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$skip", Value: int64(page-1) * int64(limit)}},
		{{Key: "$limit", Value: int64(limit)}},
		userLookupStage(),
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var rows []customerRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, 0, err
	}

	out := make([]*domain.Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(firstName(row.AddedByUser)))
	}
	return out, total, nil
}

func (r *CustomerRepository) Update(ctx context.Context, id, name, phone, address string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	objID, err := oid(id, domain.ErrCustomerNotFound)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"name":    name,
		"phone":   phone,
		"address": address,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	objID, err := oid(id, domain.ErrCustomerNotFound)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, rangeFilter(from, to))
}

func (r *CustomerRepository) FindCreatedBetween(ctx context.Context, from, to time.Time) ([]*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: rangeFilter(from, to)}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		userLookupStage(),
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []customerRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]*domain.Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(firstName(row.AddedByUser)))
	}
	return out, nil
}

// EnsureIndexes creates the customer collection indexes.
func (r *CustomerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "added_by", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// userLookupStage joins the creator's display name as added_by_user.
func userLookupStage() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: collectionUsers},
		{Key: "localField", Value: "added_by"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "added_by_user"},
	}}}
}

// customerLookupStage joins the owning customer's name as customer_ref.
func customerLookupStage() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: collectionCustomers},
		{Key: "localField", Value: "customer_id"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "customer_ref"},
	}}}
}
