// Package model 定义作品集系统的核心数据模型
//
// 所有实体使用字符串 ID（prefix-xxxxxxxxxxxx），通过 bson tag 持久化到 MongoDB，
// 通过 json tag 序列化到 HTTP 响应。
package model

import "time"

// ============================================================================
// 管理员
// ============================================================================

// Admin 管理员账户
// email 在存储层有唯一索引，登录查找前统一转小写
type Admin struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Name         string    `bson:"name" json:"name"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// ============================================================================
// 项目
// ============================================================================

// 项目分类词汇表
var projectCategories = map[string]bool{
	"fullstack": true,
	"frontend":  true,
	"backend":   true,
	"mobile":    true,
	"devops":    true,
	"ai-ml":     true,
	"uiux":      true,
	"database":  true,
	"security":  true,
	"java":      true,
	"python":    true,
	"android":   true,
	"other":     true,
}

// IsProjectCategory 判断是否为合法项目分类
func IsProjectCategory(c string) bool {
	return projectCategories[c]
}

// Project 作品集项目
//
// Category 是兼容旧客户端的冗余字段：Categories 非空时恒等于 Categories[0]，
// 每次写入前必须通过 SyncLegacyCategory 重新同步，不允许漂移。
type Project struct {
	ID           string    `bson:"_id" json:"id"`
	Title        string    `bson:"title" json:"title"`
	Description  string    `bson:"description" json:"description"`
	Image        string    `bson:"image" json:"image"`
	Categories   []string  `bson:"categories" json:"categories"`
	Category     string    `bson:"category" json:"category"`
	Tags         []string  `bson:"tags" json:"tags"`
	GithubLink   string    `bson:"github_link" json:"githubLink"`
	LiveLink     string    `bson:"live_link" json:"liveLink"`
	Technologies []string  `bson:"technologies" json:"technologies"`
	Featured     bool      `bson:"featured" json:"featured"`
	Order        int       `bson:"order" json:"order"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// SyncLegacyCategory 将旧版 category 字段同步为 categories[0]
// Categories 为空时保留现有值，仍为空则回退到 "other"
func (p *Project) SyncLegacyCategory() {
	if len(p.Categories) > 0 {
		p.Category = p.Categories[0]
	}
	if p.Category == "" {
		p.Category = "other"
	}
}

// ============================================================================
// 技能
// ============================================================================

// 技能分类词汇表
var skillCategories = map[string]bool{
	"frontend": true,
	"backend":  true,
	"language": true,
	"database": true,
	"tools":    true,
	"other":    true,
}

// IsSkillCategory 判断是否为合法技能分类
func IsSkillCategory(c string) bool {
	return skillCategories[c]
}

// Skill 技能条目
// Level 取值范围 [0,100]，越界在校验层直接拒绝（不做静默截断）
type Skill struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Level     int       `bson:"level" json:"level"`
	Category  string    `bson:"category" json:"category"`
	Order     int       `bson:"order" json:"order"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ============================================================================
// 教育经历
// ============================================================================

// Education 教育经历
type Education struct {
	ID          string    `bson:"_id" json:"id"`
	Degree      string    `bson:"degree" json:"degree"`
	Institution string    `bson:"institution" json:"institution"`
	Duration    string    `bson:"duration" json:"duration"`
	Description string    `bson:"description" json:"description"`
	Order       int       `bson:"order" json:"order"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// ============================================================================
// 个人资料（单例）
// ============================================================================

// ProfileID Profile 单例文档的保留 _id
// 单例约束通过固定 _id + upsert 在存储层保证，并发首次读取也只会创建一份
const ProfileID = "profile"

// SocialLinks 社交链接
type SocialLinks struct {
	Github    string `bson:"github" json:"github"`
	Linkedin  string `bson:"linkedin" json:"linkedin"`
	Twitter   string `bson:"twitter" json:"twitter"`
	Instagram string `bson:"instagram" json:"instagram"`
}

// AboutInfo 关于我区块的统计指标
type AboutInfo struct {
	Description       string `bson:"description" json:"description"`
	YearsExperience   int    `bson:"years_experience" json:"yearsExperience"`
	ProjectsCompleted int    `bson:"projects_completed" json:"projectsCompleted"`
	ClientsSatisfied  int    `bson:"clients_satisfied" json:"clientsSatisfied"`
}

// SEOInfo SEO 元数据
type SEOInfo struct {
	MetaTitle       string   `bson:"meta_title" json:"metaTitle"`
	MetaDescription string   `bson:"meta_description" json:"metaDescription"`
	Keywords        []string `bson:"keywords" json:"keywords"`
}

// Profile 站点个人资料，全库唯一
type Profile struct {
	ID           string      `bson:"_id" json:"id"`
	Name         string      `bson:"name" json:"name"`
	Title        string      `bson:"title" json:"title"`
	Bio          string      `bson:"bio" json:"bio"`
	Email        string      `bson:"email" json:"email"`
	Phone        string      `bson:"phone" json:"phone"`
	Location     string      `bson:"location" json:"location"`
	ProfileImage string      `bson:"profile_image" json:"profileImage"`
	ResumeURL    string      `bson:"resume_url" json:"resumeUrl"`
	Github       string      `bson:"github" json:"github"`
	Linkedin     string      `bson:"linkedin" json:"linkedin"`
	Twitter      string      `bson:"twitter" json:"twitter"`
	Website      string      `bson:"website" json:"website"`
	Social       SocialLinks `bson:"social" json:"social"`
	About        AboutInfo   `bson:"about" json:"about"`
	SEO          SEOInfo     `bson:"seo" json:"seo"`
	CreatedAt    time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `bson:"updated_at" json:"updated_at"`
}

// DefaultProfile 返回首次访问时自动创建的默认资料
func DefaultProfile(now time.Time) *Profile {
	return &Profile{
		ID:           ProfileID,
		Name:         "Portfolio Owner",
		Title:        "Full Stack Developer",
		Email:        "admin@portfolio.local",
		ProfileImage: "/assets/image.png",
		ResumeURL:    "/assets/resume.pdf",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ============================================================================
// 联系消息
// ============================================================================

// ContactMessage 公开联系表单提交的消息
// 只能由公开接口创建；读标记由管理端操作，重复标记是幂等的
type ContactMessage struct {
	ID        string     `bson:"_id" json:"id"`
	Name      string     `bson:"name" json:"name"`
	Email     string     `bson:"email" json:"email"`
	Subject   string     `bson:"subject" json:"subject"`
	Message   string     `bson:"message" json:"message"`
	IsRead    bool       `bson:"is_read" json:"isRead"`
	ReadAt    *time.Time `bson:"read_at,omitempty" json:"readAt,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
}
