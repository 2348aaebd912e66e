package sitemap

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-space/core/internal/config"
	"github.com/inkwell-space/core/internal/models"
	"gorm.io/gorm"
)

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, site config.SiteConfig) {
	render := func(c *gin.Context) {
		xml, err := buildSitemap(db, site)
		if err != nil {
			c.String(500, "error generating sitemap")
			return
		}
		c.Header("Content-Type", "application/xml; charset=utf-8")
		c.String(200, xml)
	}
	rg.GET("/sitemap.xml", render)
	rg.GET("/sitemap", render)
}

type sitemapURL struct {
	Loc        string
	LastMod    time.Time
	ChangeFreq string
	Priority   float64
}

func buildSitemap(db *gorm.DB, site config.SiteConfig) (string, error) {
	base := site.URL

	urls := []sitemapURL{
		{Loc: base, LastMod: time.Now(), ChangeFreq: "daily", Priority: 1.0},
		{Loc: base + "/blog", LastMod: time.Now(), ChangeFreq: "daily", Priority: 0.9},
	}

	var posts []models.PostModel
	if err := db.Where("is_published = ?", true).
		Select("slug, updated_at").Find(&posts).Error; err != nil {
		return "", err
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:        fmt.Sprintf("%s/blog/%s", base, p.Slug),
			LastMod:    p.UpdatedAt,
			ChangeFreq: "weekly",
			Priority:   0.8,
		})
	}

	var tags []models.TagModel
	if err := db.Select("slug, updated_at").Find(&tags).Error; err != nil {
		return "", err
	}
	for _, t := range tags {
		urls = append(urls, sitemapURL{
			Loc:        fmt.Sprintf("%s/tags/%s", base, t.Slug),
			LastMod:    t.UpdatedAt,
			ChangeFreq: "weekly",
			Priority:   0.5,
		})
	}

	return renderXML(urls), nil
}

func renderXML(urls []sitemapURL) string {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`
	for _, u := range urls {
		xml += fmt.Sprintf(`  <url>
    <loc>%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>%s</changefreq>
    <priority>%.1f</priority>
  </url>
`, escapeXML(u.Loc), u.LastMod.Format("2006-01-02"), u.ChangeFreq, u.Priority)
	}
	xml += `</urlset>`
	return xml
}

func escapeXML(s string) string {
	out := ""
	for _, r := range s {
		switch r {
		case '&':
			out += "&amp;"
		case '<':
			out += "&lt;"
		case '>':
			out += "&gt;"
		default:
			out += string(r)
		}
	}
	return out
}
