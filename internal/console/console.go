package console

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/eion/userconsole/internal/config"
	"github.com/eion/userconsole/internal/users"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed templates/*
var templateFiles embed.FS

const pageTitle = "Fullstack App - Users"

// ConsoleService serves the users page and turns form posts into submissions.
//
// Every visitor shares one Controller, i.e. one form: a draft kept after a
// failed browser submit pre-fills the form for whoever loads the page next, and
// a notice is shown on the next page render, whoever makes it. JSON clients get
// the outcome in the response instead, so their notices are never left behind.
type ConsoleService struct {
	Controller *Controller
	Logger     *zap.Logger
	Config     *config.Config

	page *template.Template
}

// pageData is what templates/console.html renders
type pageData struct {
	Title   string
	State   State
	Draft   users.DraftUser
	Notice  *Notice
	Profile Profile
}

// NewConsoleService creates a new console service
func NewConsoleService(controller *Controller, logger *zap.Logger, cfg *config.Config) (*ConsoleService, error) {
	if controller == nil {
		return nil, errors.New("console: controller is required")
	}
	if cfg == nil {
		return nil, errors.New("console: config is required")
	}

	page, err := template.ParseFS(templateFiles, "templates/console.html")
	if err != nil {
		return nil, err
	}

	return &ConsoleService{
		Controller: controller,
		Logger:     logger,
		Config:     cfg,
		page:       page,
	}, nil
}

// SetupRoutes sets up the console routes
func (cs *ConsoleService) SetupRoutes(router *gin.Engine) {
	// embedded files carry the 'static/' prefix
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		cs.Logger.Error("Failed to create static sub-filesystem", zap.Error(err))
		return
	}
	router.StaticFS("/static", http.FS(staticFS))

	router.GET("/", cs.serveConsole)
	router.POST("/users", cs.submitUser)
	router.GET("/api/state", cs.getState)
	router.GET("/api/config", cs.getConfig)
	router.GET("/health", cs.getHealth)
}

// serveConsole renders the page and consumes any pending notice
func (cs *ConsoleService) serveConsole(c *gin.Context) {
	state := cs.Controller.Snapshot()
	cs.render(c, http.StatusOK, pageData{
		State:  state,
		Draft:  state.Draft,
		Notice: cs.Controller.TakeNotice(),
	})
}

// submitUser handles the add form. Browsers get a redirect back to the page,
// JSON clients get the created record or the error.
func (cs *ConsoleService) submitUser(c *gin.Context) {
	wantJSON := c.ContentType() == binding.MIMEJSON

	var draft users.DraftUser
	if err := c.ShouldBind(&draft); err != nil {
		if wantJSON {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and email are required"})
			return
		}
		state := cs.Controller.Snapshot()
		cs.render(c, http.StatusBadRequest, pageData{
			State:  state,
			Draft:  draft,
			Notice: &Notice{Kind: NoticeError, Message: "Name and email are required"},
		})
		return
	}

	user, err := cs.Controller.Submit(c.Request.Context(), draft)

	if !wantJSON {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	// the response carries the outcome
	cs.Controller.TakeNotice()

	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"user": user})
	case errors.Is(err, ErrSubmitInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "status": users.StatusCode(err)})
	}
}

// getState returns the controller's view state
func (cs *ConsoleService) getState(c *gin.Context) {
	c.JSON(http.StatusOK, cs.Controller.Snapshot())
}

// getConfig returns the current configuration (non-sensitive parts)
func (cs *ConsoleService) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"config": gin.H{
		"api_base_url":   cs.Config.Common.API.BaseURL,
		"submit_profile": cs.Controller.Profile(),
		"host":           cs.Config.Common.Http.Host,
		"port":           cs.Config.Common.Http.Port,
	}})
}

func (cs *ConsoleService) getHealth(c *gin.Context) {
	state := cs.Controller.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"loading": state.Loading,
		"users":   len(state.Users),
	})
}

func (cs *ConsoleService) render(c *gin.Context, status int, data pageData) {
	data.Title = pageTitle
	data.Profile = cs.Controller.Profile()

	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := cs.page.Execute(c.Writer, data); err != nil {
		cs.Logger.Error("Failed to execute console template", zap.Error(err))
	}
}
