// Package web serves the search page and its JSON counterpart.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/andrew/anything-search/pkg/models"
	"github.com/andrew/anything-search/pkg/render"
	"github.com/andrew/anything-search/pkg/retrieval"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

// galleryColumns is the number of images per gallery row
const galleryColumns = 3

// ErrorResponse is the JSON body for failed API calls
type ErrorResponse struct {
	Error string `json:"error"`
}

// SearchResponse is the JSON body for /api/search
type SearchResponse struct {
	Query   string               `json:"query"`
	Type    string               `json:"type"`
	HTML    string               `json:"html"`
	Gallery []models.GalleryItem `json:"gallery"`
	Took    int64                `json:"took"`
}

type modeOption struct {
	Value   string
	Label   string
	Checked bool
}

type galleryView struct {
	Src     string
	Caption string
}

type pageData struct {
	Query   string
	Modes   []modeOption
	HTML    template.HTML
	Gallery []galleryView
	Error   string
	Columns int
}

// Server wires the searcher into HTTP handlers
type Server struct {
	searcher  retrieval.Searcher
	mediaRoot string
	engine    *gin.Engine
}

// NewServer builds the gin engine. Gallery images are served from mediaRoot.
func NewServer(searcher retrieval.Searcher, mediaRoot string) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		searcher:  searcher,
		mediaRoot: mediaRoot,
		engine:    gin.New(),
	}
	s.engine.Use(gin.Recovery(), requestLogger())
	s.engine.SetHTMLTemplate(tmpl)
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.GET("/", s.index)
	s.engine.POST("/search", s.searchPage)
	s.engine.GET("/media", s.media)
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}

	api := s.engine.Group("/api")
	api.Use(cors.New(config))
	{
		api.GET("/search", s.apiSearch)
	}
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", newPage("", models.ModeText))
}

// searchPage handles the form submit: one synchronous search, then re-render
func (s *Server) searchPage(c *gin.Context) {
	query := c.PostForm("query")
	mode, err := models.ParseMode(c.DefaultPostForm("type", models.ModeText.Label()))
	if err != nil {
		page := newPage(query, models.ModeText)
		page.Error = err.Error()
		c.HTML(http.StatusBadRequest, "index.html", page)
		return
	}

	page := newPage(query, mode)
	out, err := s.search(c, mode, query)
	if err != nil {
		page.Error = fmt.Sprintf("Search failed: %v", err)
		c.HTML(statusFor(err), "index.html", page)
		return
	}

	page.HTML = template.HTML(out.HTML)
	for _, item := range out.Gallery {
		page.Gallery = append(page.Gallery, galleryView{Src: mediaURL(item.Path), Caption: item.Caption})
	}
	c.HTML(http.StatusOK, "index.html", page)
}

func (s *Server) apiSearch(c *gin.Context) {
	query := c.Query("q")
	mode, err := models.ParseMode(c.DefaultQuery("type", models.ModeText.String()))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	start := time.Now()
	out, err := s.search(c, mode, query)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Query:   query,
		Type:    mode.String(),
		HTML:    out.HTML,
		Gallery: out.Gallery,
		Took:    time.Since(start).Milliseconds(),
	})
}

func (s *Server) search(c *gin.Context, mode models.Mode, query string) (models.Output, error) {
	results, err := s.searcher.SemanticSearch(c.Request.Context(), mode, query)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"query": query, "mode": mode.String()}).Error("Semantic search failed")
		return models.Output{}, err
	}

	logrus.WithFields(logrus.Fields{"query": query, "mode": mode.String(), "results": results.Len()}).Info("Search")
	return render.Format(mode, results)
}

// media serves a gallery image from inside the media root
func (s *Server) media(c *gin.Context) {
	path, err := ResolveMedia(s.mediaRoot, c.Query("path"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.File(path)
}

// ResolveMedia maps a result path onto a file under root, rejecting
// anything that would escape it, including through symlinks
func ResolveMedia(root, path string) (string, error) {
	if path == "" {
		return "", errors.New("path is required")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid media root: %w", err)
	}

	target := filepath.FromSlash(path)
	if !filepath.IsAbs(target) {
		target = filepath.Join(absRoot, target)
	}
	target = filepath.Clean(target)

	if !within(absRoot, target) {
		return "", fmt.Errorf("path %q is outside the media root", path)
	}

	// A missing file is left for the handler to 404; an existing one must
	// still be inside the root once symlinks are followed.
	realTarget, err := filepath.EvalSymlinks(target)
	if errors.Is(err, fs.ErrNotExist) {
		return target, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("invalid media root: %w", err)
	}
	if !within(realRoot, realTarget) {
		return "", fmt.Errorf("path %q links outside the media root", path)
	}
	return realTarget, nil
}

func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// statusFor picks the HTTP status for a search error
func statusFor(err error) int {
	if errors.Is(err, models.ErrUnknownMode) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func newPage(query string, selected models.Mode) pageData {
	page := pageData{Query: query, Columns: galleryColumns}
	for _, m := range models.Modes() {
		page.Modes = append(page.Modes, modeOption{Value: m.Label(), Label: m.Label(), Checked: m == selected})
	}
	return page
}

func mediaURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return "/media?path=" + url.QueryEscape(path)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
			"client":  c.ClientIP(),
		}).Debug("Request")
	}
}
