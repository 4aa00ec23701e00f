package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/plumon/roleplay-chat/internal/core/domain"
)

const collectionMessages = "messages"

type MessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{coll: db.Collection(collectionMessages)}
}

type messageDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ChatID      string             `bson:"chat_id"`
	SenderType  string             `bson:"sender_type"`
	Content     string             `bson:"content"`
	Timestamp   time.Time          `bson:"timestamp"`
	OrderInChat int                `bson:"order_in_chat"`
}

func (d messageDoc) toDomain() *domain.Message {
	return &domain.Message{
		ID:          d.ID.Hex(),
		ChatID:      d.ChatID,
		SenderType:  domain.SenderType(d.SenderType),
		Content:     d.Content,
		Timestamp:   d.Timestamp,
		OrderInChat: d.OrderInChat,
	}
}

func (r *MessageRepository) CountByChat(ctx context.Context, chatID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"chat_id": chatID})
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

func (r *MessageRepository) Insert(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := messageDoc{
		ChatID:      msg.ChatID,
		SenderType:  string(msg.SenderType),
		Content:     msg.Content,
		Timestamp:   msg.Timestamp,
		OrderInChat: msg.OrderInChat,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *MessageRepository) ListByChat(ctx context.Context, chatID string) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"chat_id": chatID},
		options.Find().SetSort(bson.D{{Key: "order_in_chat", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	var messages []*domain.Message
	for cur.Next(ctx) {
		var doc messageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		messages = append(messages, doc.toDomain())
	}
	return messages, cur.Err()
}

// EnsureIndexes enforces the per-chat contiguous ordering at the storage
// level: a duplicate (chat_id, order_in_chat) pair can only come from an
// append that bypassed the chat lock, and it must fail loudly.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "chat_id", Value: 1}, {Key: "order_in_chat", Value: 1}}, Options: uniqueIndex()},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
