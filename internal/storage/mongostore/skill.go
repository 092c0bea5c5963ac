package mongostore

import (
	"context"

	"portfolio-admin/internal/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// SkillStore
// ============================================================================

// ListSkills 列出技能，排序：order 升序，name 升序
// category 为空或 "all" 时不过滤
func (s *Store) ListSkills(ctx context.Context, category string) ([]*model.Skill, error) {
	query := bson.D{}
	if category != "" && category != "all" {
		query = append(query, bson.E{Key: "category", Value: category})
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "order", Value: 1},
		{Key: "name", Value: 1},
	})
	return findMany[model.Skill](ctx, s.col(ColSkills), query, opts)
}

func (s *Store) GetSkill(ctx context.Context, id string) (*model.Skill, error) {
	return findOne[model.Skill](ctx, s.col(ColSkills), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) CreateSkill(ctx context.Context, skill *model.Skill) error {
	return insertOne(ctx, s.col(ColSkills), skill)
}

func (s *Store) ReplaceSkill(ctx context.Context, skill *model.Skill) error {
	return replaceByID(ctx, s.col(ColSkills), skill.ID, skill)
}

func (s *Store) DeleteSkill(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColSkills), id)
}
