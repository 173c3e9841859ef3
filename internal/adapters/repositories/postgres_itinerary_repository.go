package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"hos-route-service/internal/domain"
	"hos-route-service/internal/platform/obs"
	"strings"
	"time"
)

// Postgres-backed implementation of the ItineraryRepository port.
type PostgresItineraryRepository struct{ DB *sql.DB }

func NewPostgresItineraryRepository(db *sql.DB) *PostgresItineraryRepository {
	return &PostgresItineraryRepository{DB: db}
}

// Store an itinerary and its events in one transaction.
func (s *PostgresItineraryRepository) SaveItinerary(ctx context.Context, it *domain.Itinerary) (err error) {
	defer obs.Time(ctx, "itinerary.repo.Save")(&err)

	if s.DB == nil {
		return errors.New("postgres itinerary repository: DB is nil")
	}
	if it == nil || strings.TrimSpace(it.ID) == "" {
		return errors.New("save itinerary: itinerary must have an ID")
	}

	geometry, err := json.Marshal(geometryToList(it.Geometry))
	if err != nil {
		return fmt.Errorf("save itinerary: marshal geometry: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save itinerary: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO itineraries (
		itinerary_id,
		trip_date,
		distance_meters,
		duration_seconds,
		geometry,
		created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6);
	`, it.ID, it.TripDate.Format(time.DateOnly), it.DistanceMeters, it.DurationSeconds, geometry, it.CreatedAt)
	if err != nil {
		return fmt.Errorf("save itinerary: insert itinerary_id=%s: %w", it.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO itinerary_events (
		itinerary_id,
		seq,
		stop_type,
		lon,
		lat,
		mile_marker,
		time_marker_h,
		arrival_at,
		departure_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`)
	if err != nil {
		return fmt.Errorf("save itinerary: prepare event insert: %w", err)
	}
	defer stmt.Close()

	for i, ev := range it.Events {
		if _, err := stmt.ExecContext(ctx,
			it.ID, i, string(ev.Type), ev.Location.Lon, ev.Location.Lat,
			ev.MileMarker, ev.TimeMarkerHours, ev.ArrivalAt, ev.DepartureAt,
		); err != nil {
			return fmt.Errorf("save itinerary: insert event #%d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save itinerary: commit tx: %w", err)
	}

	return nil
}

// Return one itinerary with its events ordered as computed.
func (s *PostgresItineraryRepository) GetItinerary(ctx context.Context, id string) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "itinerary.repo.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres itinerary repository: DB is nil")
	}

	it := &domain.Itinerary{ID: id}
	var geometry []byte

	err = s.DB.QueryRowContext(ctx, `
	SELECT
		trip_date,
		distance_meters,
		duration_seconds,
		geometry,
		created_at
	FROM itineraries
	WHERE itinerary_id = $1;
	`, id).Scan(&it.TripDate, &it.DistanceMeters, &it.DurationSeconds, &geometry, &it.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get itinerary %s: %w", id, domain.ErrItineraryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get itinerary %s: query itineraries table: %w", id, err)
	}

	var coords [][2]float64
	if err := json.Unmarshal(geometry, &coords); err != nil {
		return nil, fmt.Errorf("get itinerary %s: decode geometry: %w", id, err)
	}
	it.Geometry = geometryFromList(coords)

	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		stop_type,
		lon,
		lat,
		mile_marker,
		time_marker_h,
		arrival_at,
		departure_at
	FROM itinerary_events
	WHERE itinerary_id = $1
	ORDER BY seq;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get itinerary %s: query itinerary_events table: %w", id, err)
	}
	defer rows.Close()

	it.Events = make([]domain.Event, 0, 8)
	for rows.Next() {
		var ev domain.Event
		var stopType string
		if err := rows.Scan(
			&stopType, &ev.Location.Lon, &ev.Location.Lat,
			&ev.MileMarker, &ev.TimeMarkerHours, &ev.ArrivalAt, &ev.DepartureAt,
		); err != nil {
			return nil, fmt.Errorf("get itinerary %s: scan row: %w", id, err)
		}
		ev.Type = domain.StopType(stopType)
		it.Events = append(it.Events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get itinerary %s: row iteration: %w", id, err)
	}

	return it, nil
}

func geometryToList(g []domain.Coordinates) [][2]float64 {
	out := make([][2]float64, 0, len(g))
	for _, c := range g {
		out = append(out, [2]float64{c.Lon, c.Lat})
	}
	return out
}

func geometryFromList(l [][2]float64) []domain.Coordinates {
	out := make([]domain.Coordinates, 0, len(l))
	for _, c := range l {
		out = append(out, domain.Coordinates{Lon: c[0], Lat: c[1]})
	}
	return out
}
