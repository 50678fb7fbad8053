package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/padel-league/internal/domain/user"
	"github.com/riskibarqy/padel-league/internal/platform/logging"
	"github.com/riskibarqy/padel-league/internal/usecase"
)

const maxJSONBodyBytes = 1 << 20

type Handler struct {
	leagueService *usecase.LeagueService
	matchService  *usecase.MatchService
	cardService   *usecase.CardService
	ratingService *usecase.RatingService
	photoService  *usecase.PhotoService
	statsService  *usecase.StatsService
	photoMaxBytes int64
	logger        *logging.Logger
	validator     *validator.Validate
}

type HandlerServices struct {
	Leagues *usecase.LeagueService
	Matches *usecase.MatchService
	Cards   *usecase.CardService
	Ratings *usecase.RatingService
	Photos  *usecase.PhotoService
	Stats   *usecase.StatsService
}

func NewHandler(services HandlerServices, photoMaxBytes int64, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if photoMaxBytes <= 0 {
		photoMaxBytes = usecase.DefaultPhotoMaxBytes
	}

	return &Handler{
		leagueService: services.Leagues,
		matchService:  services.Matches,
		cardService:   services.Cards,
		ratingService: services.Ratings,
		photoService:  services.Photos,
		statsService:  services.Stats,
		photoMaxBytes: photoMaxBytes,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

// decodeRequest reads a JSON body into dst and validates it. An empty body is
// accepted only when allowEmpty is set.
func (h *Handler) decodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		if !allowEmpty {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
	} else if err := strictJSON.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, dst)
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok || !principal.Authenticated() {
		return user.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return id, nil
}
