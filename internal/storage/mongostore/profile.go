package mongostore

import (
	"context"
	"time"

	"portfolio-admin/internal/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// ProfileStore：单例资料
//
// 全库至多存在一份 Profile，_id 固定为 model.ProfileID。
// 首次读取的自动创建通过 $setOnInsert + upsert 实现，
// 并发首次请求依赖 _id 唯一性，至多落库一份。
// ============================================================================

// GetOrCreateProfile 获取资料，不存在时原子创建默认资料
func (s *Store) GetOrCreateProfile(ctx context.Context) (*model.Profile, error) {
	def := model.DefaultProfile(time.Now())

	// _id 由 filter 提供，$setOnInsert 不能重复携带
	update := bson.D{{Key: "$setOnInsert", Value: bson.D{
		{Key: "name", Value: def.Name},
		{Key: "title", Value: def.Title},
		{Key: "bio", Value: def.Bio},
		{Key: "email", Value: def.Email},
		{Key: "phone", Value: def.Phone},
		{Key: "location", Value: def.Location},
		{Key: "profile_image", Value: def.ProfileImage},
		{Key: "resume_url", Value: def.ResumeURL},
		{Key: "github", Value: def.Github},
		{Key: "linkedin", Value: def.Linkedin},
		{Key: "twitter", Value: def.Twitter},
		{Key: "website", Value: def.Website},
		{Key: "social", Value: def.Social},
		{Key: "about", Value: def.About},
		{Key: "seo", Value: def.SEO},
		{Key: "created_at", Value: def.CreatedAt},
		{Key: "updated_at", Value: def.UpdatedAt},
	}}}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile model.Profile
	err := s.col(ColProfiles).
		FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: model.ProfileID}}, update, opts).
		Decode(&profile)
	if err != nil {
		return nil, wrapError(err)
	}
	return &profile, nil
}

// GetProfile 获取资料，不存在时返回 (nil, nil)，不触发自动创建
func (s *Store) GetProfile(ctx context.Context) (*model.Profile, error) {
	return findOne[model.Profile](ctx, s.col(ColProfiles), bson.D{{Key: "_id", Value: model.ProfileID}})
}

// SaveProfile 整体写入单例资料（存在则替换，不存在则创建）
func (s *Store) SaveProfile(ctx context.Context, p *model.Profile) error {
	p.ID = model.ProfileID
	opts := options.Replace().SetUpsert(true)
	_, err := s.col(ColProfiles).ReplaceOne(ctx, bson.D{{Key: "_id", Value: model.ProfileID}}, p, opts)
	return wrapError(err)
}
