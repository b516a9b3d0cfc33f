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

// TransactionRepository implements ports.TransactionRepository on MongoDB.
// Balance reads go through $group/$sum aggregations; nothing derived is
// ever written back.
type TransactionRepository struct {
	col *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection(collectionTransactions)}
}

type transactionDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	CustomerID primitive.ObjectID `bson:"customer_id"`
	STBID      primitive.ObjectID `bson:"stb_id,omitempty"`
	Type       string             `bson:"type"`
	Amount     float64            `bson:"amount"`
	Note       string             `bson:"note,omitempty"`
	AddedBy    primitive.ObjectID `bson:"added_by,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
}

type transactionRow struct {
	transactionDoc `bson:",inline"`
	AddedByUser    []lookupName `bson:"added_by_user"`
	CustomerRef    []lookupName `bson:"customer_ref"`
}

func (d transactionDoc) toDomain(addedByName, customerName string) *domain.Transaction {
	return &domain.Transaction{
		ID:           d.ID.Hex(),
		CustomerID:   hexOrEmpty(d.CustomerID),
		STBID:        hexOrEmpty(d.STBID),
		Type:         domain.TransactionType(d.Type),
		Amount:       d.Amount,
		Note:         d.Note,
		AddedBy:      hexOrEmpty(d.AddedBy),
		CreatedAt:    d.CreatedAt,
		AddedByName:  addedByName,
		CustomerName: customerName,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	customerID, err := oid(t.CustomerID, domain.ErrCustomerNotFound)
	if err != nil {
		return nil, err
	}
	doc := transactionDoc{
		CustomerID: customerID,
		STBID:      oidOrNil(t.STBID),
		Type:       string(t.Type),
		Amount:     t.Amount,
		Note:       t.Note,
		AddedBy:    oidOrNil(t.AddedBy),
		CreatedAt:  time.Now().UTC(),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain("", ""), nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	objID, err := oid(id, domain.ErrTransactionNotFound)
	if err != nil {
		return nil, err
	}

	var doc transactionDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return doc.toDomain("", ""), nil
}

func (r *TransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	return r.aggregate(ctx, nil)
}

func (r *TransactionRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Transaction, error) {
	objID, err := oid(customerID, domain.ErrCustomerNotFound)
	if err != nil {
		return nil, err
	}
	return r.aggregate(ctx, bson.M{"customer_id": objID})
}

func (r *TransactionRepository) FindAddFundsBetween(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	filter := rangeFilter(from, to)
	filter["type"] = string(domain.TxAddFund)
	return r.aggregate(ctx, filter)
}

func (r *TransactionRepository) aggregate(ctx context.Context, match bson.M) ([]*domain.Transaction, error) {
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

	var rows []transactionRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(firstName(row.AddedByUser), firstName(row.CustomerRef)))
	}
	return out, nil
}

// SumByCustomer returns the signed sum of the customer's amounts, 0 when the
// customer has no transactions.
func (r *TransactionRepository) SumByCustomer(ctx context.Context, customerID string) (float64, error) {
	sums, err := r.SumByCustomers(ctx, []string{customerID})
	if err != nil {
		return 0, err
	}
	return sums[customerID], nil
}

// SumByCustomers groups balances per customer in a single aggregation.
func (r *TransactionRepository) SumByCustomers(ctx context.Context, customerIDs []string) (map[string]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ids := make([]primitive.ObjectID, 0, len(customerIDs))
	for _, id := range customerIDs {
		if objID := oidOrNil(id); !objID.IsZero() {
			ids = append(ids, objID)
		}
	}
	if len(ids) == 0 {
		return map[string]float64{}, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"customer_id": bson.M{"$in": ids}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$customer_id"},
			{Key: "balance", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID      primitive.ObjectID `bson:"_id"`
		Balance float64            `bson:"balance"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.ID.Hex()] = row.Balance
	}
	return out, nil
}

func (r *TransactionRepository) Update(ctx context.Context, id string, amount float64, note string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	objID, err := oid(id, domain.ErrTransactionNotFound)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"amount": amount,
		"note":   note,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// UpdateBySTB rewrites the charge keyed by its STB link.
func (r *TransactionRepository) UpdateBySTB(ctx context.Context, stbID string, amount float64, note string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	objID, err := oid(stbID, domain.ErrSTBNotFound)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"stb_id": objID}, bson.M{"$set": bson.M{
		"amount": amount,
		"note":   note,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	objID, err := oid(id, domain.ErrTransactionNotFound)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) DeleteBySTB(ctx context.Context, stbID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	objID, err := oid(stbID, domain.ErrSTBNotFound)
	if err != nil {
		return err
	}
	_, err = r.col.DeleteOne(ctx, bson.M{"stb_id": objID})
	return err
}

func (r *TransactionRepository) DeleteByCustomer(ctx context.Context, customerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	objID, err := oid(customerID, domain.ErrCustomerNotFound)
	if err != nil {
		return err
	}
	_, err = r.col.DeleteMany(ctx, bson.M{"customer_id": objID})
	return err
}

// SumAddFundsBetween totals the deposits collected in the range.
func (r *TransactionRepository) SumAddFundsBetween(ctx context.Context, from, to time.Time) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := rangeFilter(from, to)
	filter["type"] = string(domain.TxAddFund)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
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

// EnsureIndexes creates the transaction collection indexes.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer_id", Value: 1}}},
		{Keys: bson.D{{Key: "stb_id", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
