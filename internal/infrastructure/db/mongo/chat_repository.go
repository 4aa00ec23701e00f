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

const collectionChats = "chats"

type ChatRepository struct {
	coll *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{coll: db.Collection(collectionChats)}
}

type chatDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	PersonaID string             `bson:"persona_id"`
	Title     string             `bson:"title,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d chatDoc) toDomain() *domain.Chat {
	return &domain.Chat{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		PersonaID: d.PersonaID,
		Title:     d.Title,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *ChatRepository) Insert(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := chatDoc{
		UserID:    chat.UserID,
		PersonaID: chat.PersonaID,
		Title:     chat.Title,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert chat: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// FindByIDForUser filters by owner in the query itself so a foreign chat and
// a missing chat are the same ErrChatNotFound.
func (r *ChatRepository) FindByIDForUser(ctx context.Context, chatID, userID string) (*domain.Chat, error) {
	oid, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return nil, domain.ErrChatNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc chatDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrChatNotFound
		}
		return nil, fmt.Errorf("find chat: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer cur.Close(ctx)

	var chats []*domain.Chat
	for cur.Next(ctx) {
		var doc chatDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode chat: %w", err)
		}
		chats = append(chats, doc.toDomain())
	}
	return chats, cur.Err()
}

func (r *ChatRepository) Delete(ctx context.Context, chatID string) error {
	oid, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return domain.ErrChatNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup indexes for ownership-scoped queries.
func (r *ChatRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
