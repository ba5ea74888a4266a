package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/username/teaching-board/internal/board"
	"github.com/username/teaching-board/internal/config"
	"github.com/username/teaching-board/internal/sharelink"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// Deps are the collaborators of the HTTP layer
type Deps struct {
	Board  *board.Service
	Server config.ServerConfig
	// Now is the clock used for views; time.Now when nil
	Now    func() time.Time
	Logger *zap.Logger
}

// Handler serves the viewer, the authoring form and the JSON API
type Handler struct {
	board   *board.Service
	baseURL string
	now     func() time.Time
	logger  *zap.Logger
}

// NewRouter builds the gin engine with all routes
func NewRouter(d Deps) (*gin.Engine, error) {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"pct": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + "%" },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	h := &Handler{
		board:   d.Board,
		baseURL: strings.TrimRight(d.Server.BaseURL, "/"),
		now:     d.Now,
		logger:  d.Logger,
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(d.Logger))

	r.GET("/health", h.Health)

	r.GET("/", h.Viewer)
	r.GET("/config", h.ConfigForm)
	r.POST("/config", h.SubmitConfig)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/board", h.Board)
		v1.POST("/link", h.Link)

		export := v1.Group("/export")
		export.Use(RateLimit(d.Server.ExportRate, d.Server.ExportBurst))
		{
			export.GET("/xlsx", h.ExportXLSX)
			export.GET("/ics", h.ExportICS)
		}
	}

	return r, nil
}

// NewHTTPServer wraps handler with the configured timeouts
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
		IdleTimeout:  cfg.GetIdleTimeout(),
	}
}

// Health GET /health
func (h *Handler) Health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if t := h.board.RefreshedAt(); !t.IsZero() {
		body["holidays_refreshed_at"] = t.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, body)
}

// Viewer GET /?c=<token>
func (h *Handler) Viewer(c *gin.Context) {
	v := h.board.Load(c.Request.Context(), c.Query("c"), h.now())
	link, _ := sharelink.Link(h.base(c)+"/", v.Config)
	c.HTML(http.StatusOK, "viewer.html", newViewerPage(v, link))
}

// Board GET /api/v1/board?c=<token>
func (h *Handler) Board(c *gin.Context) {
	v := h.board.Load(c.Request.Context(), c.Query("c"), h.now())
	OK(c, v)
}

type linkResponse struct {
	Token string `json:"token"`
	Link  string `json:"link"`
}

// Link POST /api/v1/link with an AppConfig body
func (h *Handler) Link(c *gin.Context) {
	var cfg sharelink.AppConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		ErrorWithDetails(c, http.StatusBadRequest, CodeInvalidParam, "请求体不是有效的配置", err.Error())
		return
	}
	if err := sharelink.Validate(&cfg); err != nil {
		ErrorWithDetails(c, http.StatusBadRequest, CodeInvalidConfig, "配置校验失败", err.Error())
		return
	}

	link, err := sharelink.Link(h.base(c)+"/", &cfg)
	if err != nil {
		h.logger.Error("Failed to encode config", zap.Error(err))
		InternalError(c)
		return
	}
	OK(c, linkResponse{Token: link[strings.IndexByte(link, '#')+1:], Link: link})
}

// ConfigForm GET /config?c=<token>
func (h *Handler) ConfigForm(c *gin.Context) {
	token := c.Query("c")
	res := sharelink.Load(token, h.now())

	page := newConfigPage(FormFromConfig(res.Config))
	if token != "" {
		if res.Defaulted {
			page.Warning = res.Warning
		} else {
			h.fillResult(c, &page, res.Config)
		}
	}
	c.HTML(http.StatusOK, "config.html", page)
}

// SubmitConfig POST /config, redirects to the form showing the new link
func (h *Handler) SubmitConfig(c *gin.Context) {
	var form ConfigForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderFormError(c, form, err)
		return
	}

	cfg, err := form.ToConfig()
	if err != nil {
		h.renderFormError(c, form, err)
		return
	}

	token, err := sharelink.Encode(cfg)
	if err != nil {
		h.logger.Error("Failed to encode config", zap.Error(err))
		InternalError(c)
		return
	}

	c.Redirect(http.StatusFound, "/config?c="+url.QueryEscape(token))
}

func (h *Handler) renderFormError(c *gin.Context, form ConfigForm, err error) {
	page := newConfigPage(form)
	page.Error = err.Error()
	c.HTML(http.StatusBadRequest, "config.html", page)
}

func (h *Handler) fillResult(c *gin.Context, page *configPage, cfg *sharelink.AppConfig) {
	link, err := sharelink.Link(h.base(c)+"/", cfg)
	if err != nil {
		return
	}
	page.Link = link
	page.Token = link[strings.IndexByte(link, '#')+1:]
	page.JSON = prettyJSON(cfg)
}

// ExportXLSX GET /api/v1/export/xlsx?c=<token>
func (h *Handler) ExportXLSX(c *gin.Context) {
	v := h.board.Load(c.Request.Context(), c.Query("c"), h.now())

	buf, err := board.ExportXLSX(v)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	filename := url.QueryEscape("课表_" + v.Config.Calendar.Start + ".xlsx")
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportICS GET /api/v1/export/ics?c=<token>
func (h *Handler) ExportICS(c *gin.Context) {
	v := h.board.Load(c.Request.Context(), c.Query("c"), h.now())

	out, err := board.ExportICS(v)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	filename := url.QueryEscape("课表_" + v.Config.Calendar.Start + ".ics")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+filename)
	c.Data(http.StatusOK, icsContentType, []byte(out))
}

func (h *Handler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, board.ErrExport):
		h.logger.Warn("Export failed", zap.Error(err))
		ErrorWithDetails(c, http.StatusUnprocessableEntity, CodeExportFailed, "导出失败", err.Error())
	default:
		h.logger.Error("Export failed", zap.Error(err))
		InternalError(c)
	}
}

// base returns the public origin used in generated links
func (h *Handler) base(c *gin.Context) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
