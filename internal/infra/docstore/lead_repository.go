package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-prospect/internal/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// orphanFilter casa owner_id ausente, null ou vazio.
var orphanFilter = bson.D{{Key: "owner_id", Value: bson.D{{Key: "$in", Value: bson.A{nil, ""}}}}}

type LeadRepository struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

func NewLeadRepository(client *mongo.Client, db *mongo.Database) *LeadRepository {
	return &LeadRepository{Client: client, Collection: db.Collection(COLLECTION_LEADS)}
}

func (r *LeadRepository) List(ctx context.Context, ownerID string, filter entity.LeadFilter) ([]entity.Lead, error) {
	query := bson.D{{Key: "owner_id", Value: ownerID}}
	if filter.Territory != nil {
		query = append(query, bson.E{Key: "territory", Value: *filter.Territory})
	}

	cursor, err := r.Collection.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	var docs []leadDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode leads: %w", err)
	}

	leads := make([]entity.Lead, 0, len(docs))
	for _, d := range docs {
		leads = append(leads, d.toLead())
	}
	entity.SortNewestFirst(leads)
	return leads, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Lead, error) {
	var doc leadDocument
	err := r.Collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "owner_id", Value: ownerID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find lead: %w", err)
	}
	l := doc.toLead()
	return &l, nil
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if _, err := r.Collection.InsertOne(ctx, toLeadDocument(*l)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return entity.ErrLeadAlreadyExists
		}
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) Update(ctx context.Context, l *entity.Lead) error {
	res, err := r.Collection.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: l.ID}, {Key: "owner_id", Value: l.OwnerID}},
		bson.D{{Key: "$set", Value: mutableFields(toLeadDocument(*l))}},
	)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.Collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "owner_id", Value: ownerID}})
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if res.DeletedCount == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// UpsertBatch grava o grupo numa transação. Ids que já pertencem a outro
// dono (ou a ninguém) ficam de fora e não contam.
func (r *LeadRepository) UpsertBatch(ctx context.Context, ownerID string, leads []entity.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}
	session, err := r.Client.StartSession()
	if err != nil {
		return 0, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		ids := make(bson.A, 0, len(leads))
		for _, l := range leads {
			ids = append(ids, l.ID)
		}
		foreign, err := r.foreignIDs(ctx, ownerID, ids)
		if err != nil {
			return 0, err
		}

		models := make([]mongo.WriteModel, 0, len(leads))
		for _, l := range leads {
			if foreign[l.ID] {
				continue
			}
			doc := toLeadDocument(l)
			models = append(models, mongo.NewUpdateOneModel().
				SetFilter(bson.D{{Key: "_id", Value: l.ID}}).
				SetUpdate(bson.D{
					{Key: "$set", Value: mutableFields(doc)},
					{Key: "$setOnInsert", Value: bson.D{
						{Key: "owner_id", Value: ownerID},
						{Key: "created_at", Value: doc.CreatedAt},
					}},
				}).
				SetUpsert(true))
		}
		if len(models) == 0 {
			return 0, nil
		}

		res, err := r.Collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
		if err != nil {
			return 0, err
		}
		return int(res.MatchedCount + res.UpsertedCount), nil
	})
	if err != nil {
		return 0, fmt.Errorf("upsert leads: %w", err)
	}
	return result.(int), nil
}

func (r *LeadRepository) foreignIDs(ctx context.Context, ownerID string, ids bson.A) (map[string]bool, error) {
	cursor, err := r.Collection.Find(ctx,
		bson.D{
			{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}},
			{Key: "owner_id", Value: bson.D{{Key: "$ne", Value: ownerID}}},
		},
		options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(docs))
	for _, d := range docs {
		out[d.ID] = true
	}
	return out, nil
}

func (r *LeadRepository) ListOrphanIDs(ctx context.Context) ([]string, error) {
	cursor, err := r.Collection.Find(ctx, orphanFilter, options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list orphans: %w", err)
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orphans: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (r *LeadRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	n, err := r.Collection.CountDocuments(ctx, bson.D{{Key: "owner_id", Value: ownerID}})
	if err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return int(n), nil
}

// AssignOwner só carimba documentos que continuam sem dono.
func (r *LeadRepository) AssignOwner(ctx context.Context, ids []string, ownerID string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	session, err := r.Client.StartSession()
	if err != nil {
		return 0, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		filter := append(bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}, orphanFilter...)
		res, err := r.Collection.UpdateMany(ctx, filter, bson.D{{Key: "$set", Value: bson.D{{Key: "owner_id", Value: ownerID}}}})
		if err != nil {
			return 0, err
		}
		return int(res.ModifiedCount), nil
	})
	if err != nil {
		return 0, fmt.Errorf("assign owner: %w", err)
	}
	return result.(int), nil
}

// mutableFields lista o que um update pode tocar: nunca _id, owner_id ou created_at.
func mutableFields(d leadDocument) bson.D {
	fields := bson.D{
		{Key: "company_name", Value: d.CompanyName},
		{Key: "niche", Value: d.Niche},
		{Key: "territory", Value: d.Territory},
		{Key: "contact_name", Value: d.ContactName},
		{Key: "email", Value: d.Email},
		{Key: "phone", Value: d.Phone},
		{Key: "whatsapp", Value: d.WhatsApp},
		{Key: "instagram", Value: d.Instagram},
		{Key: "facebook", Value: d.Facebook},
		{Key: "linkedin", Value: d.LinkedIn},
		{Key: "website", Value: d.Website},
		{Key: "google_maps", Value: d.GoogleMaps},
		{Key: "website_quality", Value: d.WebsiteQuality},
		{Key: "stage", Value: d.Stage},
		{Key: "source", Value: d.Source},
		{Key: "notes", Value: d.Notes},
		{Key: "value", Value: d.Value},
		{Key: "updated_at", Value: d.UpdatedAt},
	}
	if d.LastContactAt != nil {
		fields = append(fields, bson.E{Key: "last_contact_at", Value: *d.LastContactAt})
	}
	return fields
}
