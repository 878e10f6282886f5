package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"sharestuff/internal/services"
	"sharestuff/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const feedSize = 20

type SEOHandler struct {
	posts   *services.PostService
	siteURL string
	appName string
	log     *zap.Logger
}

func NewSEOHandler(posts *services.PostService, siteURL, appName string, log *zap.Logger) *SEOHandler {
	return &SEOHandler{posts: posts, siteURL: siteURL, appName: appName, log: log}
}

// RobotsTxt keeps crawlers off the auth and JSON endpoints.
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

Disallow: /login
Disallow: /register
Disallow: /registerUsername
Disallow: /auth/
Disallow: /profile
Disallow: /like/
Disallow: /delete/
Disallow: /posts/

# Feed: %s/feed.xml
Crawl-delay: 1
`, h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description cdata   `xml:"description"`
	Author      string  `xml:"author"`
	PubDate     string  `xml:"pubDate"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type cdata struct {
	Value string `xml:",cdata"`
}

// RSSFeed serves an RSS 2.0 feed of the latest posts.
func (h *SEOHandler) RSSFeed(c *gin.Context) {
	posts, err := h.posts.ListRecent(c.Request.Context(), feedSize)
	if err != nil {
		h.log.Error("build feed failed", zap.Error(err))
		c.String(http.StatusInternalServerError, genericErrorMessage)
		return
	}

	feed := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:         h.appName,
			Link:          h.siteURL,
			Description:   "Latest posts on " + h.appName,
			LastBuildDate: time.Now().Format(time.RFC1123Z),
		},
	}
	for _, p := range posts {
		link := fmt.Sprintf("%s/#post-%d", h.siteURL, p.ID)
		feed.Channel.Items = append(feed.Channel.Items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: cdata{Value: string(utils.RenderPost(p.Body))},
			Author:      p.AuthorUsername,
			PubDate:     p.CreatedAt.Format(time.RFC1123Z),
			GUID:        rssGUID{Value: link},
		})
	}

	out, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		h.log.Error("encode feed failed", zap.Error(err))
		c.String(http.StatusInternalServerError, genericErrorMessage)
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", append([]byte(xml.Header), out...))
}
