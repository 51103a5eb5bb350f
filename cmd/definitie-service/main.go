// Command definitie-service is the HTTP entrypoint wiring every
// collaborator package behind GenerationOrchestrator, plus a migrate
// subcommand that runs the goose migrations under db/migrations.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-logr/logr"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/database"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/obslogging"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/openapi"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/aiprovider"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/audit"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/classifier"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/enhancement"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/feedback"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/generation"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/lexicon"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/promptmodules"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/promptorchestrator"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/repository"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/sanitization"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/synonym"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/synonymsuggester"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/validation"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/weblookup"
)

const apiDocPath = "api/openapi.yaml"

var requestValidator = validator.New()

func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(os.Args[2:])
		return
	}
	runServe()
}

func runServe() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading configuration:", err)
		os.Exit(1)
	}

	zapLogger, err := obslogging.NewZapLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "building logger:", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	logger := obslogging.Bridge(zapLogger)

	for _, w := range cfg.Warnings {
		logger.Info("configuration warning", "warning", w)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Error(err, "opening database connection")
		os.Exit(1)
	}
	defer db.Close()

	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracerProvider.Shutdown(ctx)
	}()
	tracer := tracerProvider.Tracer("definitie-service")

	orchestrator, err := buildOrchestrator(cfg, db, tracer, logger)
	if err != nil {
		logger.Error(err, "wiring generation orchestrator")
		os.Exit(1)
	}

	apiDoc, err := openapi.Load(apiDocPath)
	if err != nil {
		logger.Error(err, "loading openapi document")
		os.Exit(1)
	}

	router := newRouter(orchestrator, apiDoc, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("starting server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(err, "server stopped unexpectedly")
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, "server shutdown error")
	}
	logger.Info("server stopped gracefully")
}

// buildOrchestrator wires every collaborator package behind
// generation.Collaborators. WebLookup, Feedback, Synonyms, Enhancer, and
// Audit are all individually optional; a misconfigured or absent
// downstream degrades its phase rather than blocking startup.
func buildOrchestrator(cfg *config.Config, db *sqlx.DB, tracer trace.Tracer, logger logr.Logger) (*generation.Orchestrator, error) {
	aiProvider, err := aiprovider.New(cfg.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("building ai provider: %w", err)
	}

	evaluator := validation.NewEvaluator(validation.EvaluatorConfig{PolicyDir: cfg.Validation.PolicyDir}, logger)
	if err := evaluator.StartHotReload(context.Background()); err != nil {
		return nil, fmt.Errorf("compiling validation policies: %w", err)
	}
	validator := validation.NewOrchestrator(evaluator, cfg.Validation)

	synonymRegistry := synonym.NewRegistry(db)
	var suggester synonym.Suggester
	if cfg.AI.Provider != "" {
		suggester = synonymsuggester.New(aiProvider, cfg.AI)
	}
	synonymOrchestrator := synonym.NewOrchestrator(synonymRegistry, suggester, cfg.Synonym)
	if cfg.Synonym.RedisAddr != "" {
		synonymOrchestrator.UseRedis(synonym.NewRedisStore(cfg.Synonym.RedisAddr, cfg.Synonym.TTL()))
	}

	var webLookupClient *weblookup.Client
	if cfg.WebLookup.BaseURL != "" {
		var oauthCfg *clientcredentials.Config
		if cfg.WebLookup.OAuthClientID != "" {
			oauthCfg = &clientcredentials.Config{
				ClientID:     cfg.WebLookup.OAuthClientID,
				ClientSecret: os.Getenv(cfg.WebLookup.OAuthClientSecretEnv),
				TokenURL:     cfg.WebLookup.OAuthTokenURL,
			}
		}
		webLookupClient = weblookup.New(cfg.WebLookup, cfg.WebLookup.BaseURL, oauthCfg)
	}

	sinks := []audit.Sink{audit.NewLogSink(logger)}
	if cfg.Audit.SlackChannel != "" {
		sinks = append(sinks, audit.NewSlackSink(os.Getenv(cfg.Audit.SlackTokenEnv), cfg.Audit.SlackChannel))
	}
	auditClient := audit.NewClient(logger, sinks...)

	collab := generation.Collaborators{
		Sanitizer:  sanitization.NewSanitizer(),
		Feedback:   feedback.New(db, 5),
		Synonyms:   synonymOrchestrator,
		WebLookup:  webLookupClient,
		Prompts:    promptorchestrator.New(promptmodules.Catalog9()),
		AI:         aiProvider,
		Validator:  validator,
		Enhancer:   enhancement.New(aiProvider, cfg.AI),
		Repository: repository.New(db),
		Audit:      auditClient,
		Classifier: classifier.NewUFOClassifier(classifier.NewPatternMatcher(lexicon.New())),
	}

	return generation.New(collab, *cfg, tracer, logger), nil
}

func newRouter(orchestrator *generation.Orchestrator, apiDoc *openapi.Document, logger logr.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/definitions", validateAgainstOpenAPI(apiDoc, handleCreateDefinition(orchestrator, logger)))
		r.Get("/synonyms/members/{memberID}/context", handleExplainSynonymMember(orchestrator))
	})

	return r
}

// validateAgainstOpenAPI checks the request against apiDoc's declared
// schema before next sees it. The body is buffered and restored so the
// handler can still decode it.
func validateAgainstOpenAPI(apiDoc *openapi.Document, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading request body: " + err.Error()})
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		if err := apiDoc.ValidateRequest(r); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request does not match openapi schema: " + err.Error()})
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		next(w, r)
	}
}

// handleExplainSynonymMember exposes QueryContext over HTTP: ?q=<jq
// expression>, default ".rationale", lets an operator pull the
// provenance an AI-suggested synonym was added with.
func handleExplainSynonymMember(orchestrator *generation.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memberID := chi.URLParam(r, "memberID")
		jqExpr := r.URL.Query().Get("q")
		if jqExpr == "" {
			jqExpr = ".rationale"
		}

		value, err := orchestrator.ExplainSynonymMember(r.Context(), memberID, jqExpr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"result": value})
	}
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleCreateDefinition is create_definition's HTTP surface: decode,
// stamp an id if absent, reject a request without term or actor, run the
// orchestrator, and translate its Response straight onto the wire with
// the matching status code.
func handleCreateDefinition(orchestrator *generation.Orchestrator, logger logr.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.GenerationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
			return
		}
		if req.ID == "" {
			req.ID = uuid.NewString()
		}
		if err := requestValidator.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request: " + err.Error()})
			return
		}

		resp := orchestrator.Generate(r.Context(), req)

		status := http.StatusCreated
		if !resp.Success {
			status = statusForError(resp.Metadata.ErrorType)
			logger.Info("generation request failed", "generation_id", resp.Metadata.GenerationID, "error_type", resp.Metadata.ErrorType)
		}
		writeJSON(w, status, resp)
	}
}

func statusForError(errorType string) int {
	switch errorType {
	case "validation", "sanitization":
		return http.StatusBadRequest
	case "ai_generation":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
