package mongostore

import (
	"context"
	"errors"
	"time"

	"portfolio-admin/internal/model"
	"portfolio-admin/internal/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// ContactStore
// ============================================================================

func (s *Store) CreateContactMessage(ctx context.Context, m *model.ContactMessage) error {
	return insertOne(ctx, s.col(ColContactMessages), m)
}

// ListContactMessages 列出消息，created_at 降序
// read 为 nil 时不过滤
func (s *Store) ListContactMessages(ctx context.Context, read *bool) ([]*model.ContactMessage, error) {
	query := bson.D{}
	if read != nil {
		query = append(query, bson.E{Key: "is_read", Value: *read})
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[model.ContactMessage](ctx, s.col(ColContactMessages), query, opts)
}

// MarkContactMessageRead 标记消息为已读并返回更新后的文档
// 幂等：已读消息重复标记仍成功，read_at 刷新为当前时间
func (s *Store) MarkContactMessageRead(ctx context.Context, id string) (*model.ContactMessage, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "is_read", Value: true},
		{Key: "read_at", Value: time.Now()},
	}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var msg model.ContactMessage
	err := s.col(ColContactMessages).
		FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).
		Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, wrapError(err)
	}
	return &msg, nil
}

func (s *Store) DeleteContactMessage(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColContactMessages), id)
}
