package storage

import (
	"context"

	"portfolio-admin/internal/model"
)

// ProjectFilter 项目列表过滤条件
// Category 同时匹配 categories 数组成员和旧版 category 字段（逻辑 OR，向后兼容）
type ProjectFilter struct {
	Category string // 空串或 "all" 表示不过滤
	Featured bool   // true 时只返回精选项目
}

// Store 持久化存储层抽象接口
//
// 设计原则：依赖倒置
//   - 各 handler 包只声明自己需要的窄接口，本接口做聚合与编译期校验
//   - 具体实现在 mongostore 子包，初始化时通过依赖注入传入
//
// 查询约定：findOne 类方法在文档不存在时返回 (nil, nil)；
// 更新/删除类方法在目标不存在时返回 ErrNotFound。
type Store interface {
	// 管理员
	CreateAdmin(ctx context.Context, admin *model.Admin) error
	GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetAdminByID(ctx context.Context, id string) (*model.Admin, error)
	UpdateAdminPassword(ctx context.Context, id, passwordHash string) error

	// 项目
	ListProjects(ctx context.Context, filter ProjectFilter) ([]*model.Project, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	CreateProject(ctx context.Context, p *model.Project) error
	ReplaceProject(ctx context.Context, p *model.Project) error
	DeleteProject(ctx context.Context, id string) error

	// 技能
	ListSkills(ctx context.Context, category string) ([]*model.Skill, error)
	GetSkill(ctx context.Context, id string) (*model.Skill, error)
	CreateSkill(ctx context.Context, s *model.Skill) error
	ReplaceSkill(ctx context.Context, s *model.Skill) error
	DeleteSkill(ctx context.Context, id string) error

	// 教育经历
	ListEducation(ctx context.Context) ([]*model.Education, error)
	GetEducation(ctx context.Context, id string) (*model.Education, error)
	CreateEducation(ctx context.Context, e *model.Education) error
	ReplaceEducation(ctx context.Context, e *model.Education) error
	DeleteEducation(ctx context.Context, id string) error

	// 个人资料（单例）
	GetOrCreateProfile(ctx context.Context) (*model.Profile, error)
	GetProfile(ctx context.Context) (*model.Profile, error)
	SaveProfile(ctx context.Context, p *model.Profile) error

	// 联系消息
	CreateContactMessage(ctx context.Context, m *model.ContactMessage) error
	ListContactMessages(ctx context.Context, read *bool) ([]*model.ContactMessage, error)
	MarkContactMessageRead(ctx context.Context, id string) (*model.ContactMessage, error)
	DeleteContactMessage(ctx context.Context, id string) error

	// 运维
	Ping(ctx context.Context) error
	Close() error
}
