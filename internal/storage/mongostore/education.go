package mongostore

import (
	"context"

	"portfolio-admin/internal/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// EducationStore
// ============================================================================

// ListEducation 列出教育经历，排序：order 升序，created_at 降序
func (s *Store) ListEducation(ctx context.Context) ([]*model.Education, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "order", Value: 1},
		{Key: "created_at", Value: -1},
	})
	return findMany[model.Education](ctx, s.col(ColEducation), bson.D{}, opts)
}

func (s *Store) GetEducation(ctx context.Context, id string) (*model.Education, error) {
	return findOne[model.Education](ctx, s.col(ColEducation), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) CreateEducation(ctx context.Context, e *model.Education) error {
	return insertOne(ctx, s.col(ColEducation), e)
}

func (s *Store) ReplaceEducation(ctx context.Context, e *model.Education) error {
	return replaceByID(ctx, s.col(ColEducation), e.ID, e)
}

func (s *Store) DeleteEducation(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColEducation), id)
}
