package main

import (
	"fmt"
	"html/template"
	"io"
	golog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"whaletrack-server/config"
	"whaletrack-server/database"
	"whaletrack-server/ffmpeg"
	"whaletrack-server/handlers"
	"whaletrack-server/pipeline"
	"whaletrack-server/storage"
	"whaletrack-server/tracker"
	"whaletrack-server/uploads"
)

var db *gorm.DB

func main() {

	initLogger()

	log.Infof("GitSHA: %s", config.GetGitSHA())
	log.Infof("BuildDate: %s", config.GetBuildDate())

	ffmpeg.Init(log)
	tracker.Init(log)
	pipeline.Init(log)
	handlers.Init(log)
	uploads.Init(log)

	gormLogger := logger.New(
		golog.New(os.Stdout, "\r\n", golog.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn, // Log level
			IgnoreRecordNotFoundError: true,        // Ignore ErrRecordNotFound error for logger
			ParameterizedQueries:      true,        // Don't include params in the SQL log
			Colorful:                  false,       // Disable color
		},
	)

	// Create config database
	err := os.MkdirAll(config.GetConfigDir(), 0700)
	if err != nil {
		log.Panicf("failed to create config dir %s", config.GetConfigDir())
	}

	// Initialize database
	dbPath := filepath.Join(config.GetConfigDir(), "whaletrack.db")
	db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Panicf("failed to connect to database %s", dbPath)
	}

	// set only a single connection so we don't actually have concurrent writes
	sqlDB, err := db.DB()
	if err != nil {
		log.Panicln("failed to retrieve database")
	}
	sqlDB.SetMaxOpenConns(1)

	// Migrate the schema
	db.AutoMigrate(&uploads.Upload{}, &User{})

	database.Init(db, log)
	defer database.Fini()

	// create a user for the debug pages
	err = ensureAdminAccount(db)
	if err != nil {
		panic(fmt.Sprintf("failed to create admin user: %v", err))
	}

	// create the cookie store
	key, err := config.GetSessionAuthKey()
	if err != nil {
		panic(fmt.Sprintf("%v", err))
	}
	store = sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60, // seconds
		HttpOnly: true,
		Secure:   config.GetSecure(),
	}

	dataDir := config.GetDataDir()
	maxUpload := config.GetMaxUploadBytes()
	files := storage.New(dataDir, maxUpload)

	trackerScript := config.GetTrackerScript()
	if !tracker.Available(trackerScript) {
		log.Warnln("no usable tracker script, uploads will not be tracked")
		trackerScript = ""
	}
	pipe := pipeline.New(pipeline.Config{
		DataDir:       dataDir,
		FFmpeg:        config.GetFFmpegPath(),
		Python:        config.GetPythonPath(),
		TrackerScript: trackerScript,
		MaxHeight:     config.GetMaxHeight(),
		StageTimeout:  config.GetStageTimeout(),
	})

	h := handlers.NewHandler(db, files, pipe, config.GetFFprobePath())

	// Initialize Echo
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	// the frontend is hosted elsewhere; lock this down per deployment
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", (maxUpload>>20)+1)))

	// Templates
	t := &Template{
		templates: template.Must(template.ParseGlob("templates/*.html")),
	}
	e.Renderer = t

	// Routes
	e.GET("/", homeHandler)
	e.POST("/track", h.Track)
	e.GET("/download/:name", h.Download)
	e.Static("/videos", dataDir)

	e.GET("/login", loginHandler)
	e.POST("/login", loginPostHandler)
	e.GET("/logout", logoutHandler)
	e.GET("/uploads", uploadsHandler, authMiddleware)

	// Start server
	e.Logger.Fatal(e.Start(":" + config.GetPort()))
}

// Template renderer
type Template struct {
	templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}
