package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

// SettingsRepository persists the singleton settings document.
type SettingsRepository struct {
	col *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{col: db.Collection(collectionSettings)}
}

type settingsDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	SMSEnabled     bool               `bson:"sms_enabled"`
	SMSURLTemplate string             `bson:"sms_url_template"`
	AdminPhone     string             `bson:"admin_phone"`
	Flags          smsFlagsDoc        `bson:"sms_flags"`
	Templates      smsTemplatesDoc    `bson:"sms_templates"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

type smsFlagsDoc struct {
	SendAddFundCustomer bool `bson:"send_add_fund_customer"`
	SendAddFundAdmin    bool `bson:"send_add_fund_admin"`
	SendAddSTBCustomer  bool `bson:"send_add_stb_customer"`
	SendAddSTBAdmin     bool `bson:"send_add_stb_admin"`
}

type smsTemplatesDoc struct {
	AddFundCustomer string `bson:"add_fund_customer"`
	AddFundAdmin    string `bson:"add_fund_admin"`
	AddSTBCustomer  string `bson:"add_stb_customer"`
	AddSTBAdmin     string `bson:"add_stb_admin"`
}

func (d settingsDoc) toDomain() *domain.Settings {
	return &domain.Settings{
		ID:             d.ID.Hex(),
		SMSEnabled:     d.SMSEnabled,
		SMSURLTemplate: d.SMSURLTemplate,
		AdminPhone:     d.AdminPhone,
		Flags: domain.SMSFlags{
			SendAddFundCustomer: d.Flags.SendAddFundCustomer,
			SendAddFundAdmin:    d.Flags.SendAddFundAdmin,
			SendAddSTBCustomer:  d.Flags.SendAddSTBCustomer,
			SendAddSTBAdmin:     d.Flags.SendAddSTBAdmin,
		},
		Templates: domain.SMSTemplates{
			AddFundCustomer: d.Templates.AddFundCustomer,
			AddFundAdmin:    d.Templates.AddFundAdmin,
			AddSTBCustomer:  d.Templates.AddSTBCustomer,
			AddSTBAdmin:     d.Templates.AddSTBAdmin,
		},
		UpdatedAt: d.UpdatedAt,
	}
}

func fromDomain(s *domain.Settings) settingsDoc {
	return settingsDoc{
		SMSEnabled:     s.SMSEnabled,
		SMSURLTemplate: s.SMSURLTemplate,
		AdminPhone:     s.AdminPhone,
		Flags: smsFlagsDoc{
			SendAddFundCustomer: s.Flags.SendAddFundCustomer,
			SendAddFundAdmin:    s.Flags.SendAddFundAdmin,
			SendAddSTBCustomer:  s.Flags.SendAddSTBCustomer,
			SendAddSTBAdmin:     s.Flags.SendAddSTBAdmin,
		},
		Templates: smsTemplatesDoc{
			AddFundCustomer: s.Templates.AddFundCustomer,
			AddFundAdmin:    s.Templates.AddFundAdmin,
			AddSTBCustomer:  s.Templates.AddSTBCustomer,
			AddSTBAdmin:     s.Templates.AddSTBAdmin,
		},
		UpdatedAt: s.UpdatedAt,
	}
}

// EnsureSingleton is the startup repair routine: insert defaults when the
// collection is empty, and when duplicates exist keep the newest document
// and delete the rest.
func (r *SettingsRepository) EnsureSingleton(ctx context.Context) (*domain.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []settingsDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		doc := settingsDoc{UpdatedAt: time.Now().UTC()}
		res, err := r.col.InsertOne(ctx, doc)
		if err != nil {
			return nil, err
		}
		doc.ID = res.InsertedID.(primitive.ObjectID)
		return doc.toDomain(), nil
	}

	if len(docs) > 1 {
		stale := make([]primitive.ObjectID, 0, len(docs)-1)
		for _, doc := range docs[1:] {
			stale = append(stale, doc.ID)
		}
		if _, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": stale}}); err != nil {
			return nil, err
		}
	}

	return docs[0].toDomain(), nil
}

func (r *SettingsRepository) Find(ctx context.Context) (*domain.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc settingsDoc
	err := r.col.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *SettingsRepository) Update(ctx context.Context, s *domain.Settings) (*domain.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	objID, err := oid(s.ID, domain.ErrSettingsNotFound)
	if err != nil {
		return nil, err
	}

	doc := fromDomain(s)
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": doc})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrSettingsNotFound
	}
	doc.ID = objID
	return doc.toDomain(), nil
}
