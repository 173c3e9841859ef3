package handlers

import (
	"errors"
	"fmt"
	"hos-route-service/internal/api/dto"
	"hos-route-service/internal/domain"
	"hos-route-service/internal/logging"
	"hos-route-service/internal/platform/obs"
	"hos-route-service/internal/ports"
	"hos-route-service/internal/services"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// RouteHandler plans compliance itineraries and serves stored ones.
type RouteHandler struct {
	Provider         ports.RouteProvider
	Repo             ports.ItineraryRepository
	Rules            domain.Rules
	BatchConcurrency int

	validate *validator.Validate
}

func NewRouteHandler(provider ports.RouteProvider, repo ports.ItineraryRepository, rules domain.Rules) *RouteHandler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RouteHandler{
		Provider: provider,
		Repo:     repo,
		Rules:    rules,
		validate: v,
	}
}

// Plan computes the itinerary for a single trip.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.TripRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	svcReq, err := h.toServiceRequest(&req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	it, err := services.PlanTrip(r.Context(), svcReq, h.Provider, h.Repo, h.Rules)
	if err != nil {
		h.writePlanError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(it))
}

// PlanBatch computes itineraries for several trips at once.
func (h *RouteHandler) PlanBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.BatchTripRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	svcReqs := make([]services.PlanTripRequest, 0, len(req.Trips))
	for i, t := range req.Trips {
		sr, err := h.toServiceRequest(t)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("trips[%d]: %v", i, err))
			return
		}
		svcReqs = append(svcReqs, sr)
	}

	its, err := services.PlanTrips(r.Context(), svcReqs, h.Provider, h.Repo, h.Rules, h.BatchConcurrency)
	if err != nil {
		h.writePlanError(w, r, err)
		return
	}

	res := dto.BatchRouteResponse{Routes: make([]dto.RouteResponse, 0, len(its))}
	for _, it := range its {
		res.Routes = append(res.Routes, dto.NewRouteResponse(it))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Get returns a previously computed itinerary.
func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.Repo == nil {
		writeError(w, r, http.StatusServiceUnavailable, "itinerary storage is not configured")
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "itinerary id is required")
		return
	}

	it, err := h.Repo.GetItinerary(r.Context(), id)
	if errors.Is(err, domain.ErrItineraryNotFound) {
		writeError(w, r, http.StatusNotFound, "itinerary not found")
		return
	}
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "get itinerary failed", err,
			slog.String("req_id", obs.RequestID(r.Context())),
			slog.String("itinerary_id", id))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(it))
}

func (h *RouteHandler) toServiceRequest(req *dto.TripRequest) (services.PlanTripRequest, error) {
	if err := h.validate.Struct(req); err != nil {
		return services.PlanTripRequest{}, errors.New(validationMessage(err))
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return services.PlanTripRequest{}, errors.New("date must be formatted as YYYY-MM-DD")
	}

	return services.PlanTripRequest{
		Current: req.CurrentLocation.Coordinates(),
		Pickup:  req.PickupLocation.Coordinates(),
		Dropoff: req.DropoffLocation.Coordinates(),
		Date:    date,
	}, nil
}

func (h *RouteHandler) writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "plan trip failed", err,
		slog.String("req_id", obs.RequestID(r.Context())))

	var le *domain.RouteLookupError
	switch {
	case errors.As(err, &le):
		writeError(w, r, http.StatusBadGateway, fmt.Sprintf("route lookup failed with status %d", le.Status))
	case errors.Is(err, domain.ErrRouteLookupFailed):
		writeError(w, r, http.StatusBadGateway, "route lookup failed")
	case errors.Is(err, domain.ErrInvalidRouteData):
		writeError(w, r, http.StatusUnprocessableEntity, "routing provider returned unusable route data")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
