package post

import (
	"regexp"
	"strings"
	"time"

	"github.com/inkwell-space/core/internal/models"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// CreatePostDTO is the request body for creating a post.
type CreatePostDTO struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content"`
	CoverImage  *string    `json:"coverImage"`
	Tags        []string   `json:"tags"`
	Published   bool       `json:"published"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

// Validate returns a field -> message map, empty when the payload is valid.
func (d *CreatePostDTO) Validate() map[string]string {
	return validatePostFields(d.Title, d.Slug, d.Summary, d.Content)
}

// UpdatePostDTO is the request body for replacing a post. Version carries the
// value the client read; a stale version is rejected.
type UpdatePostDTO struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content"`
	CoverImage  *string    `json:"coverImage"`
	Tags        []string   `json:"tags"`
	Published   bool       `json:"published"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Version     int        `json:"version"`
}

// Validate returns a field -> message map, empty when the payload is valid.
func (d *UpdatePostDTO) Validate() map[string]string {
	fields := validatePostFields(d.Title, d.Slug, d.Summary, d.Content)
	if d.Version < 1 {
		fields["version"] = "version 不能为空"
	}
	return fields
}

func validatePostFields(title, slug, summary, content string) map[string]string {
	fields := map[string]string{}
	if len(strings.TrimSpace(title)) < 3 {
		fields["title"] = "标题至少 3 个字符"
	}
	if len(slug) < 3 {
		fields["slug"] = "slug 至少 3 个字符"
	} else if !slugPattern.MatchString(slug) {
		fields["slug"] = "slug 只能包含小写字母、数字和连字符"
	}
	if len(strings.TrimSpace(summary)) < 10 {
		fields["summary"] = "摘要至少 10 个字符"
	}
	if len(strings.TrimSpace(content)) < 20 {
		fields["content"] = "正文至少 20 个字符"
	}
	return fields
}

// ListQuery holds query params for listing posts.
type ListQuery struct {
	Published *bool   `form:"published"`
	Tag       *string `form:"tag"`
}

// tagResponse is the API shape of a tag attached to a post.
type tagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// postResponse is the API response shape for a post.
type postResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Summary     string        `json:"summary"`
	Content     string        `json:"content"`
	CoverImage  *string       `json:"coverImage"`
	Published   bool          `json:"published"`
	PublishedAt *time.Time    `json:"publishedAt"`
	ScheduledAt *time.Time    `json:"scheduledAt"`
	Version     int           `json:"version"`
	ReadCount   int           `json:"readCount"`
	LikeCount   int           `json:"likeCount"`
	Tags        []tagResponse `json:"tags"`
	Created     time.Time     `json:"createdAt"`
	Modified    time.Time     `json:"updatedAt"`
}

func toResponse(p *models.PostModel) postResponse {
	tags := make([]tagResponse, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, tagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	return postResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Summary:     p.Summary,
		Content:     p.Content,
		CoverImage:  p.CoverImage,
		Published:   p.IsPublished,
		PublishedAt: p.PublishedAt,
		ScheduledAt: p.ScheduledAt,
		Version:     p.Version,
		ReadCount:   p.ReadCount,
		LikeCount:   p.LikeCount,
		Tags:        tags,
		Created:     p.CreatedAt,
		Modified:    p.UpdatedAt,
	}
}

// authorResponse is the trimmed author embedded in the post detail payload.
type authorResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// postDetailResponse extends the post shape with the author, the newest
// revisions, and the approved comment count.
type postDetailResponse struct {
	postResponse
	Author          *authorResponse    `json:"author"`
	RecentRevisions []revisionResponse `json:"recentRevisions"`
	CommentCount    int64              `json:"commentCount"`
}

func toDetailResponse(d *Detail) postDetailResponse {
	resp := postDetailResponse{
		postResponse:    toResponse(d.Post),
		RecentRevisions: make([]revisionResponse, len(d.Revisions)),
		CommentCount:    d.CommentCount,
	}
	if d.Post.Author != nil {
		resp.Author = &authorResponse{
			ID:       d.Post.Author.ID,
			Name:     d.Post.Author.Name,
			Username: d.Post.Author.Username,
		}
	}
	for i, r := range d.Revisions {
		resp.RecentRevisions[i] = toRevisionResponse(&r)
	}
	return resp
}

// revisionResponse is the API response shape for a post revision.
type revisionResponse struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	EditorID   string    `json:"editorId"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Content    string    `json:"content"`
	CoverImage *string   `json:"coverImage"`
	Created    time.Time `json:"createdAt"`
}

func toRevisionResponse(r *models.PostRevisionModel) revisionResponse {
	return revisionResponse{
		ID:         r.ID,
		PostID:     r.PostID,
		EditorID:   r.EditorID,
		Title:      r.Title,
		Summary:    r.Summary,
		Content:    r.Content,
		CoverImage: r.CoverImage,
		Created:    r.CreatedAt,
	}
}
