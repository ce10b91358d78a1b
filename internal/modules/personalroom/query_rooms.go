package personalroom

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/eskrenkovic/plaza-go/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
)

const defaultRadiusKm = 10

// GetRoomsQuery returns every active personal room.
type GetRoomsQuery struct{}

func HandleGetRooms(w http.ResponseWriter, r *http.Request) {
	response, err := mediator.Send[GetRoomsQuery, []Room](r.Context(), GetRoomsQuery{})
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetRoomsQueryHandler struct {
	registry *Registry
}

func NewGetRoomsQueryHandler(registry *Registry) *GetRoomsQueryHandler {
	return &GetRoomsQueryHandler{registry}
}

func (h *GetRoomsQueryHandler) Handle(ctx context.Context, _ GetRoomsQuery) ([]Room, error) {
	return h.registry.List(), nil
}

// GetNearbyRoomsQuery returns rooms within RadiusKm of the query point, plus
// every room without coordinates.
type GetNearbyRoomsQuery struct {
	Lng      float64
	Lat      float64
	RadiusKm float64
}

func (q GetNearbyRoomsQuery) Validate() error {
	if q.RadiusKm <= 0 {
		return fmt.Errorf("invalid RadiusKm - '%f'", q.RadiusKm)
	}

	return nil
}

func HandleGetNearbyRooms(w http.ResponseWriter, r *http.Request) {
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid format for query param 'lng'"))
		return
	}

	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid format for query param 'lat'"))
		return
	}

	radius := float64(defaultRadiusKm)
	if radiusParam := r.URL.Query().Get("radius"); radiusParam != "" {
		radius, err = strconv.ParseFloat(radiusParam, 64)
		if err != nil {
			core.WriteBadRequest(w, r, fmt.Errorf("invalid format for query param 'radius'"))
			return
		}
	}

	query := GetNearbyRoomsQuery{Lng: lng, Lat: lat, RadiusKm: radius}
	response, err := mediator.Send[GetNearbyRoomsQuery, []Room](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetNearbyRoomsQueryHandler struct {
	registry *Registry
}

func NewGetNearbyRoomsQueryHandler(registry *Registry) *GetNearbyRoomsQueryHandler {
	return &GetNearbyRoomsQueryHandler{registry}
}

func (h *GetNearbyRoomsQueryHandler) Handle(ctx context.Context, query GetNearbyRoomsQuery) ([]Room, error) {
	return h.registry.Nearby(query.Lng, query.Lat, query.RadiusKm), nil
}

// GetRoomQuery returns a single room by id.
type GetRoomQuery struct {
	RoomID string
}

func (q GetRoomQuery) Validate() error {
	if q.RoomID == "" {
		return fmt.Errorf("invalid RoomID - '%s'", q.RoomID)
	}

	return nil
}

func HandleGetRoom(w http.ResponseWriter, r *http.Request) {
	query := GetRoomQuery{RoomID: chi.URLParam(r, "room_id")}

	response, err := mediator.Send[GetRoomQuery, Room](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetRoomQueryHandler struct {
	registry *Registry
}

func NewGetRoomQueryHandler(registry *Registry) *GetRoomQueryHandler {
	return &GetRoomQueryHandler{registry}
}

func (h *GetRoomQueryHandler) Handle(ctx context.Context, query GetRoomQuery) (Room, error) {
	room, found := h.registry.Get(query.RoomID)
	if !found {
		return Room{}, core.NewCommandError(404, fmt.Errorf("room not found: %s", query.RoomID))
	}

	return room, nil
}

// GetRoomCountQuery returns the number of active personal rooms.
type GetRoomCountQuery struct{}

func HandleGetRoomCount(w http.ResponseWriter, r *http.Request) {
	response, err := mediator.Send[GetRoomCountQuery, int](r.Context(), GetRoomCountQuery{})
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetRoomCountQueryHandler struct {
	registry *Registry
}

func NewGetRoomCountQueryHandler(registry *Registry) *GetRoomCountQueryHandler {
	return &GetRoomCountQueryHandler{registry}
}

func (h *GetRoomCountQueryHandler) Handle(ctx context.Context, _ GetRoomCountQuery) (int, error) {
	return h.registry.Count(), nil
}
