package mongostore

import (
	"context"
	"strings"
	"time"

	"portfolio-admin/internal/model"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// AdminStore
// ============================================================================

func (s *Store) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	admin.Email = strings.ToLower(admin.Email)
	return insertOne(ctx, s.col(ColAdmins), admin)
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return findOne[model.Admin](ctx, s.col(ColAdmins), bson.D{{Key: "email", Value: strings.ToLower(email)}})
}

func (s *Store) GetAdminByID(ctx context.Context, id string) (*model.Admin, error) {
	return findOne[model.Admin](ctx, s.col(ColAdmins), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) UpdateAdminPassword(ctx context.Context, id, passwordHash string) error {
	return updateFields(ctx, s.col(ColAdmins), id, bson.D{
		{Key: "password_hash", Value: passwordHash},
		{Key: "updated_at", Value: time.Now()},
	})
}
