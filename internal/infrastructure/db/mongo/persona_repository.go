package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/plumon/roleplay-chat/internal/core/domain"
)

const collectionPersonas = "personas"

type PersonaRepository struct {
	coll *mongo.Collection
}

func NewPersonaRepository(db *mongo.Database) *PersonaRepository {
	return &PersonaRepository{coll: db.Collection(collectionPersonas)}
}

type personaDoc struct {
	ID              primitive.ObjectID      `bson:"_id,omitempty"`
	Name            string                  `bson:"name"`
	Description     string                  `bson:"description"`
	SystemPrompt    string                  `bson:"system_prompt"`
	FewShotExamples []domain.FewShotExample `bson:"few_shot_examples,omitempty"`
	IsActive        bool                    `bson:"is_active"`
	CreatedAt       time.Time               `bson:"created_at"`
	UpdatedAt       time.Time               `bson:"updated_at"`
}

func (d personaDoc) toDomain() *domain.Persona {
	return &domain.Persona{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Description:     d.Description,
		SystemPrompt:    d.SystemPrompt,
		FewShotExamples: d.FewShotExamples,
		IsActive:        d.IsActive,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (r *PersonaRepository) Insert(ctx context.Context, p *domain.Persona) (*domain.Persona, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := personaDoc{
		Name:            p.Name,
		Description:     p.Description,
		SystemPrompt:    p.SystemPrompt,
		FewShotExamples: p.FewShotExamples,
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert persona: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PersonaRepository) FindByName(ctx context.Context, name string) (*domain.Persona, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *PersonaRepository) FindByID(ctx context.Context, id string) (*domain.Persona, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPersonaNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *PersonaRepository) FindActiveByID(ctx context.Context, id string) (*domain.Persona, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPersonaNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid, "is_active": true})
}

func (r *PersonaRepository) ListActive(ctx context.Context) ([]*domain.Persona, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"is_active": true}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list personas: %w", err)
	}
	defer cur.Close(ctx)

	var personas []*domain.Persona
	for cur.Next(ctx) {
		var doc personaDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode persona: %w", err)
		}
		personas = append(personas, doc.toDomain())
	}
	return personas, cur.Err()
}

func (r *PersonaRepository) findOne(ctx context.Context, filter bson.M) (*domain.Persona, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc personaDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPersonaNotFound
		}
		return nil, fmt.Errorf("find persona: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes enforces name uniqueness, which seeding relies on.
func (r *PersonaRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: uniqueIndex()},
		{Keys: bson.D{{Key: "is_active", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
