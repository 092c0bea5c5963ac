// Package mongostore 实现基于 MongoDB 的 storage.Store
//
// 使用 mongo-go-driver v2，通过 bson tag 实现 model 结构体的序列化/反序列化。
// 所有 Collection 名称和索引在 ensureIndexes 中统一管理。
package mongostore

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection 名称常量
const (
	ColAdmins          = "admins"
	ColProjects        = "projects"
	ColSkills          = "skills"
	ColEducation       = "education"
	ColProfiles        = "profiles"
	ColContactMessages = "contact_messages"
)

// Store 实现 storage.Store 接口的 MongoDB 驱动
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore 创建 MongoDB 存储实例
//
// uri: MongoDB 连接 URI，如 "mongodb://localhost:27017"
// dbName: 数据库名称，如 "portfolio"
//
// 连接池上限 10，server selection 超时 5s，单次操作超时 45s。
func NewStore(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetServerSelectionTimeout(5 * time.Second).
		SetTimeout(45 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}

	// 验证连接
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{client: client, db: db}

	// 创建索引
	if err := s.ensureIndexes(ctx); err != nil {
		log.Printf("WARNING: mongostore: ensure indexes failed: %v", err)
	}

	return s, nil
}

// Close 关闭 MongoDB 连接
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ping 检查数据库连通性，用于健康检查
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// col 获取指定 Collection
func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// ensureIndexes 创建所有必要的索引
func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		// admins：邮箱唯一，启动引导依赖该约束防止并发重复创建
		{ColAdmins, bson.D{{Key: "email", Value: 1}}, true},

		// projects
		{ColProjects, bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: -1}}, false},
		{ColProjects, bson.D{{Key: "categories", Value: 1}}, false},
		{ColProjects, bson.D{{Key: "category", Value: 1}}, false},
		{ColProjects, bson.D{{Key: "featured", Value: 1}}, false},

		// skills
		{ColSkills, bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}}, false},
		{ColSkills, bson.D{{Key: "category", Value: 1}}, false},

		// education
		{ColEducation, bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: -1}}, false},

		// contact_messages
		{ColContactMessages, bson.D{{Key: "created_at", Value: -1}}, false},
		{ColContactMessages, bson.D{{Key: "is_read", Value: 1}}, false},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}

	return nil
}
