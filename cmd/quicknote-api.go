package main

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/quicknote/quicknote-api/internal/assist"
	"github.com/quicknote/quicknote-api/internal/config"
	"github.com/quicknote/quicknote-api/internal/llm"
	"github.com/quicknote/quicknote-api/internal/logging"
	"github.com/quicknote/quicknote-api/internal/metrics"
	"github.com/quicknote/quicknote-api/internal/middleware"
	"github.com/quicknote/quicknote-api/internal/utils"
	notesdb "github.com/quicknote/quicknote-api/pkg/notes-db"
)

var (
	DB             *sql.DB
	Log            *logrus.Entry
	Metrics        *metrics.Metrics
	Assist         *assist.Service
	metricsHandler http.Handler

	NoteLocalName string = "note"

	validate = validator.New()
)

func main() {
	exitCode := Run()
	os.Exit(exitCode)
}

func Run() int {
	if len(os.Args) > 1 && utils.Any(os.Args[1:], func(x string) bool { return x == "-h" || x == "--help" || x == "-?" }) {
		printHelp()
		return 0
	}

	Log = logging.New("quicknote-api")

	cfg, err := config.Load()
	if err != nil {
		Log.WithError(err).Error("failed to load configuration")
		return 1
	}

	Log.WithFields(logrus.Fields{
		"driver": cfg.DBDriver,
		"dsn":    cfg.DBDSN,
	}).Info("initializing note store")
	db, err := notesdb.Initialize(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		Log.WithError(err).Error("failed to initialize note store")
		return 1
	}
	DB = db
	defer DB.Close()

	registry := prometheus.NewRegistry()
	Metrics = metrics.New(registry)
	metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	gateway, err := llm.New(llm.Config{
		Endpoint: cfg.LLMEndpoint,
		Token:    cfg.LLMToken,
		Model:    cfg.LLMModel,
		Logger:   Log,
		Metrics:  Metrics,
	})
	if err != nil {
		if errors.Is(err, llm.ErrMissingToken) && cfg.AllowNoLLM {
			Log.Warn("no LLM credential configured; AI endpoints will return errors")
		} else {
			Log.WithError(err).Error("failed to initialize LLM gateway")
			return 1
		}
	} else {
		Assist = assist.NewService(assist.Config{
			Completer:        gateway,
			Model:            cfg.LLMModel,
			ChatModel:        cfg.ChatModel,
			TargetLanguage:   cfg.TargetLanguage,
			GenerateLanguage: cfg.GenerateLanguage,
			Logger:           Log,
		})
	}

	app := newApp(cfg)

	Log.WithField("port", cfg.Port).Info("listening for requests")
	err = app.Listen(fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		Log.WithError(err).Error("failed to initialize HTTP server")
		return 1
	}
	return 0
}

func newApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Use(requestid.New(), logger.New(), recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
	}))
	app.Use(Metrics.Middleware())

	app.Get("/metrics", adaptor.HTTPHandler(metricsHandler))

	app.Route("/notes", func(notes fiber.Router) {
		notes.Get("/", ListNotes)
		notes.Post("/", CreateNote)
		notes.Get("/search", SearchNotes)
		notes.Route("/:noteID", func(note fiber.Router) {
			note.Use(middleware.LoadNoteFromRoute(NoteLocalName, "noteID", DB, Log))
			note.Get("/", GetNote)
			note.Put("/", UpdateNote)
			note.Delete("/", DeleteNote)
		})
	})
	app.Route("/ai", func(ai fiber.Router) {
		ai.Post("/chat", Chat)
		ai.Post("/translate", Translate)
		ai.Post("/generate", GenerateNote)
	})

	return app
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `
quicknote-api [-h|--help|-?]

OPTIONS:
	-h|--help|-?	Display this help message and exit

ENVIRONMENT VARIABLES:
	GITHUB_TOKEN / OPENAI_API_KEY:  (required) LLM API credential (first wins)
	QUICKNOTE_PORT:                 (optional) Port on which API should be hosted (default: %d)
	QUICKNOTE_DB_DIR:               (optional) Directory where quicknote.sqlite is located (default: %s)
	MYSQL_USER/PASSWORD/HOST/PORT/DB: (optional) Use MySQL instead of sqlite when user, password and db are all set
	QUICKNOTE_LLM_ENDPOINT:         (optional) Completion endpoint (default: %s)
	QUICKNOTE_LLM_MODEL:            (optional) Model for translate/generate (default: %s)
	QUICKNOTE_CHAT_MODEL:           (optional) Model for chat (default: %s)
	QUICKNOTE_ALLOW_ORIGINS:        (optional) CORS allowed origins (default: *)
	QUICKNOTE_ALLOW_NO_LLM:         (optional) Start without an LLM credential
	LOG_LEVEL:                      (optional) debug|info|warn|error (default: info)
`,
		config.DefaultPort,
		config.DefaultConfigDirectory,
		config.DefaultLLMEndpoint,
		config.DefaultLLMModel,
		config.DefaultChatModel)
}

func jsonError(c *fiber.Ctx, status int, message string, detail ...string) error {
	c.Status(status)
	body := fiber.Map{"error": message}
	if len(detail) > 0 && detail[0] != "" {
		body["detail"] = detail[0]
	}
	return c.JSON(body)
}
