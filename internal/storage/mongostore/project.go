package mongostore

import (
	"context"

	"portfolio-admin/internal/model"
	"portfolio-admin/internal/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// ProjectStore
// ============================================================================

// ListProjects 列出项目，排序：order 升序，created_at 降序
//
// Category 过滤同时匹配 categories 数组和旧版 category 字段（$or），
// 这是对旧客户端数据的有意兼容，不是冗余查询。
func (s *Store) ListProjects(ctx context.Context, filter storage.ProjectFilter) ([]*model.Project, error) {
	query := bson.D{}
	if filter.Category != "" && filter.Category != "all" {
		query = append(query, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "categories", Value: filter.Category}},
			bson.D{{Key: "category", Value: filter.Category}},
		}})
	}
	if filter.Featured {
		query = append(query, bson.E{Key: "featured", Value: true})
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "order", Value: 1},
		{Key: "created_at", Value: -1},
	})
	return findMany[model.Project](ctx, s.col(ColProjects), query, opts)
}

func (s *Store) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return findOne[model.Project](ctx, s.col(ColProjects), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) CreateProject(ctx context.Context, p *model.Project) error {
	return insertOne(ctx, s.col(ColProjects), p)
}

// ReplaceProject 整体替换项目文档
// 业务层先合并 patch 并同步旧版 category，这里单次写入落库
func (s *Store) ReplaceProject(ctx context.Context, p *model.Project) error {
	return replaceByID(ctx, s.col(ColProjects), p.ID, p)
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColProjects), id)
}
