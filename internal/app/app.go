package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/padel-league/db"
	"github.com/riskibarqy/padel-league/internal/config"
	"github.com/riskibarqy/padel-league/internal/domain/uow"
	"github.com/riskibarqy/padel-league/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/padel-league/internal/infrastructure/account/jwtauth"
	"github.com/riskibarqy/padel-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/padel-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/padel-league/internal/infrastructure/storage"
	"github.com/riskibarqy/padel-league/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/padel-league/internal/platform/id"
	"github.com/riskibarqy/padel-league/internal/platform/logging"
	"github.com/riskibarqy/padel-league/internal/platform/resilience"
	"github.com/riskibarqy/padel-league/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const localMediaPrefix = "/media/"

// Server is the assembled HTTP server plus the resources it owns.
type Server struct {
	HTTP    *http.Server
	closers []func() error
}

// Close releases what NewHTTPServer opened, in reverse order.
func (s *Server) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	out := &Server{}
	fail := func(err error) (*Server, error) {
		_ = out.Close()
		return nil, err
	}

	store, err := buildStore(ctx, cfg, logger, out)
	if err != nil {
		return fail(err)
	}

	verifier, err := buildVerifier(cfg, logger)
	if err != nil {
		return fail(err)
	}

	blobs, media, err := buildBlobStore(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}

	services := buildServices(cfg, store, blobs, logger)
	if inserted, err := services.Cards.SeedCatalog(ctx); err != nil {
		return fail(fmt.Errorf("seed card catalog: %w", err))
	} else if inserted > 0 {
		logger.Info("card catalog seeded", "inserted", inserted)
	}

	handler := httpapi.NewHandler(services, cfg.PhotoMaxBytes, logger)
	router := httpapi.NewRouter(handler, verifier, logger, httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	if media != nil {
		mux := http.NewServeMux()
		mux.Handle(localMediaPrefix, media)
		mux.Handle("/", router)
		router = mux
	}

	out.HTTP = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("app assembled",
		"store_driver", cfg.StoreDriver,
		"auth_mode", cfg.AuthMode,
		"blob_driver", cfg.BlobDriver,
	)

	return out, nil
}

func buildStore(ctx context.Context, cfg config.Config, logger *logging.Logger, out *Server) (uow.Store, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore(), nil
	}

	if cfg.DBAutoMigrate {
		if err := migrateUp(cfg, logger); err != nil {
			return nil, err
		}
	}

	conn, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	out.closers = append(out.closers, conn.Close)

	return postgres.NewStore(conn), nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	conn, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	conn.SetMaxOpenConns(cfg.DBMaxOpenConns)
	conn.SetMaxIdleConns(cfg.DBMaxIdleConns)
	conn.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return conn, nil
}

func migrateUp(cfg config.Config, logger *logging.Logger) error {
	source, err := iofs.New(db.Migrations, db.MigrationsDir)
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warn("close migrator", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	logger.Info("migrations applied", "version", version, "dirty", dirty)

	return nil
}

func buildVerifier(cfg config.Config, logger *logging.Logger) (httpapi.TokenVerifier, error) {
	if cfg.AuthMode == config.AuthModeJWT {
		verifier, err := jwtauth.NewVerifier(jwtauth.Config{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		})
		if err != nil {
			return nil, fmt.Errorf("build jwt verifier: %w", err)
		}
		return verifier, nil
	}

	return anubis.NewClient(nil, anubis.Config{
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectURL,
		AdminKey:       cfg.AnubisAdminKey,
		Timeout:        cfg.AnubisTimeout,
		CacheTTL:       cfg.AnubisPrincipalCacheTTL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
	}, logger), nil
}

// buildBlobStore returns the photo store and, for the local driver without a public
// base URL, a handler serving the stored files under /media/.
func buildBlobStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (usecase.BlobStore, http.Handler, error) {
	if cfg.BlobDriver == config.BlobDriverS3 {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.BlobPublicBaseURL,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("build s3 store: %w", err)
		}
		return store, nil, nil
	}

	baseURL := cfg.BlobPublicBaseURL
	serveLocally := baseURL == ""
	if serveLocally {
		baseURL = strings.TrimSuffix(localMediaPrefix, "/")
	}

	store, err := storage.NewLocalStore(cfg.BlobLocalDir, baseURL, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build local store: %w", err)
	}
	if !serveLocally {
		return store, nil, nil
	}

	return store, http.StripPrefix(localMediaPrefix, http.FileServer(http.Dir(store.Root()))), nil
}

func buildServices(cfg config.Config, store uow.Store, blobs usecase.BlobStore, logger *logging.Logger) httpapi.HandlerServices {
	ids := idgen.NewRandomGenerator()
	cards := usecase.NewCardService(store, cfg.CardCacheTTL, logger)

	var picker usecase.Picker
	if cfg.CardPickerSeed != 0 {
		picker = usecase.NewSeededPicker(cfg.CardPickerSeed)
	}
	distributor := usecase.NewCardDistributor(cards, picker, logger)

	return httpapi.HandlerServices{
		Leagues: usecase.NewLeagueService(store, ids, logger),
		Matches: usecase.NewMatchService(store, distributor, usecase.MatchPolicy{
			ResultRequiresInProgress: cfg.MatchResultRequiresInProgress,
			CardVisibilityWindow:     cfg.CardVisibilityWindow,
		}, logger),
		Cards: cards,
		Ratings: usecase.NewRatingService(store, usecase.RatingPolicy{
			RequireComplete: cfg.RatingsRequireComplete,
		}, logger),
		Photos: usecase.NewPhotoService(store, blobs, ids, cfg.PhotoMaxBytes, logger),
		Stats:  usecase.NewStatsService(store, logger),
	}
}
