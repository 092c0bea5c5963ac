// 各资源的部分更新（patch）类型
//
// 每个字段都是显式可选（指针）：nil 表示"保持不变"，非 nil（包括空串/空数组）
// 表示覆盖。Apply 是纯函数，不做任何 I/O，合并结果由调用方负责持久化。
package model

import "time"

// ProjectPatch 项目部分更新
type ProjectPatch struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Image        *string   `json:"image,omitempty"`
	Categories   *[]string `json:"categories,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	GithubLink   *string   `json:"githubLink,omitempty"`
	LiveLink     *string   `json:"liveLink,omitempty"`
	Technologies *[]string `json:"technologies,omitempty"`
	Featured     *bool     `json:"featured,omitempty"`
	Order        *int      `json:"order,omitempty"`
}

// Apply 将 patch 合并到项目上，未提供的字段保持不变
// 调用方在持久化前仍需执行 SyncLegacyCategory
func (p *Project) Apply(patch ProjectPatch) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Categories != nil {
		p.Categories = *patch.Categories
	}
	if patch.Tags != nil {
		p.Tags = *patch.Tags
	}
	if patch.GithubLink != nil {
		p.GithubLink = *patch.GithubLink
	}
	if patch.LiveLink != nil {
		p.LiveLink = *patch.LiveLink
	}
	if patch.Technologies != nil {
		p.Technologies = *patch.Technologies
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if patch.Order != nil {
		p.Order = *patch.Order
	}
}

// SkillPatch 技能部分更新
type SkillPatch struct {
	Name     *string `json:"name,omitempty"`
	Level    *int    `json:"level,omitempty"`
	Category *string `json:"category,omitempty"`
	Order    *int    `json:"order,omitempty"`
}

// Apply 将 patch 合并到技能上
func (s *Skill) Apply(patch SkillPatch) {
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Level != nil {
		s.Level = *patch.Level
	}
	if patch.Category != nil {
		s.Category = *patch.Category
	}
	if patch.Order != nil {
		s.Order = *patch.Order
	}
}

// EducationPatch 教育经历部分更新
type EducationPatch struct {
	Degree      *string `json:"degree,omitempty"`
	Institution *string `json:"institution,omitempty"`
	Duration    *string `json:"duration,omitempty"`
	Description *string `json:"description,omitempty"`
	Order       *int    `json:"order,omitempty"`
}

// Apply 将 patch 合并到教育经历上
func (e *Education) Apply(patch EducationPatch) {
	if patch.Degree != nil {
		e.Degree = *patch.Degree
	}
	if patch.Institution != nil {
		e.Institution = *patch.Institution
	}
	if patch.Duration != nil {
		e.Duration = *patch.Duration
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Order != nil {
		e.Order = *patch.Order
	}
}

// ProfilePatch 个人资料部分更新
//
// 嵌套区块（social/about/seo）是浅合并：patch 中提供即整体替换，
// 不做字段级深合并。
type ProfilePatch struct {
	Name         *string      `json:"name,omitempty"`
	Title        *string      `json:"title,omitempty"`
	Bio          *string      `json:"bio,omitempty"`
	Email        *string      `json:"email,omitempty"`
	Phone        *string      `json:"phone,omitempty"`
	Location     *string      `json:"location,omitempty"`
	ProfileImage *string      `json:"profileImage,omitempty"`
	ResumeURL    *string      `json:"resumeUrl,omitempty"`
	Github       *string      `json:"github,omitempty"`
	Linkedin     *string      `json:"linkedin,omitempty"`
	Twitter      *string      `json:"twitter,omitempty"`
	Website      *string      `json:"website,omitempty"`
	Social       *SocialLinks `json:"social,omitempty"`
	About        *AboutInfo   `json:"about,omitempty"`
	SEO          *SEOInfo     `json:"seo,omitempty"`
}

// Apply 将 patch 合并到资料上，嵌套区块整体替换
// UpdatedAt 总是刷新，即使没有任何字段变化
func (p *Profile) Apply(patch ProfilePatch, now time.Time) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.ProfileImage != nil {
		p.ProfileImage = *patch.ProfileImage
	}
	if patch.ResumeURL != nil {
		p.ResumeURL = *patch.ResumeURL
	}
	if patch.Github != nil {
		p.Github = *patch.Github
	}
	if patch.Linkedin != nil {
		p.Linkedin = *patch.Linkedin
	}
	if patch.Twitter != nil {
		p.Twitter = *patch.Twitter
	}
	if patch.Website != nil {
		p.Website = *patch.Website
	}
	if patch.Social != nil {
		p.Social = *patch.Social
	}
	if patch.About != nil {
		p.About = *patch.About
	}
	if patch.SEO != nil {
		p.SEO = *patch.SEO
	}
	p.UpdatedAt = now
}
