package facility

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrFacilityNotFound = errors.New("facility not found")
	ErrCourtNotFound    = errors.New("court not found")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const facilityColumns = `id, owner_id, name, description, address, city, state, pincode,
	map_link, amenities, photos, status, created_at, updated_at`

func (r *repository) Create(ctx context.Context, ownerID int, req CreateFacilityRequest) (*Facility, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var facility Facility
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO facilities (owner_id, name, description, address, city, state, pincode, map_link, amenities, photos)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+facilityColumns,
		ownerID, req.Name, req.Description, req.Address, req.City, req.State,
		req.Pincode, req.MapLink, pq.Array(req.Amenities), pq.Array(req.Photos),
	).StructScan(&facility)
	if err != nil {
		return nil, err
	}

	for _, sportInput := range req.Sports {
		var sport Sport
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO sports (facility_id, name, price_per_hour)
			VALUES ($1, $2, $3)
			RETURNING id, facility_id, name, price_per_hour, created_at`,
			facility.ID, sportInput.Name, sportInput.PricePerHour,
		).StructScan(&sport)
		if err != nil {
			return nil, err
		}

		schedule := DefaultSchedule()
		if len(sportInput.Schedule) > 0 {
			schedule = schedule[:0]
			for _, s := range sportInput.Schedule {
				schedule = append(schedule, ScheduleEntry{
					Weekday:   s.Weekday,
					OpenTime:  s.OpenTime,
					CloseTime: s.CloseTime,
					IsOpen:    s.IsOpen,
				})
			}
		}

		for _, entry := range schedule {
			entry.SportID = sport.ID
			_, err = tx.ExecContext(ctx, `
				INSERT INTO sport_schedules (sport_id, weekday, open_time, close_time, is_open)
				VALUES ($1, $2, $3, $4, $5)`,
				sport.ID, entry.Weekday, entry.OpenTime, entry.CloseTime, entry.IsOpen,
			)
			if err != nil {
				return nil, err
			}
			sport.Schedule = append(sport.Schedule, entry)
		}

		for _, courtInput := range sportInput.Courts {
			var court Court
			err = tx.QueryRowxContext(ctx, `
				INSERT INTO courts (sport_id, name)
				VALUES ($1, $2)
				RETURNING id, sport_id, name, status, created_at`,
				sport.ID, courtInput.Name,
			).StructScan(&court)
			if err != nil {
				return nil, err
			}
			sport.Courts = append(sport.Courts, court)
		}

		facility.Sports = append(facility.Sports, sport)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &facility, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Facility, error) {
	var facility Facility
	err := r.db.GetContext(ctx, &facility,
		`SELECT `+facilityColumns+` FROM facilities WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}

	sports, err := r.loadSports(ctx, id)
	if err != nil {
		return nil, err
	}
	facility.Sports = sports

	return &facility, nil
}

func (r *repository) loadSports(ctx context.Context, facilityID int) ([]Sport, error) {
	var sports []Sport
	err := r.db.SelectContext(ctx, &sports, `
		SELECT id, facility_id, name, price_per_hour, created_at
		FROM sports
		WHERE facility_id = $1
		ORDER BY name ASC`, facilityID)
	if err != nil {
		return nil, err
	}

	for i := range sports {
		var schedule []ScheduleEntry
		err = r.db.SelectContext(ctx, &schedule, `
			SELECT sport_id, weekday, open_time, close_time, is_open
			FROM sport_schedules
			WHERE sport_id = $1
			ORDER BY weekday ASC`, sports[i].ID)
		if err != nil {
			return nil, err
		}
		sports[i].Schedule = schedule

		var courts []Court
		err = r.db.SelectContext(ctx, &courts, `
			SELECT id, sport_id, name, status, created_at
			FROM courts
			WHERE sport_id = $1
			ORDER BY name ASC`, sports[i].ID)
		if err != nil {
			return nil, err
		}
		sports[i].Courts = courts
	}

	return sports, nil
}

func (r *repository) List(ctx context.Context, status, city string, limit, offset int) ([]Facility, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE status = $1`
	args := []interface{}{status}

	if city != "" {
		query += ` AND city ILIKE $2`
		args = append(args, city)
	}

	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	var facilities []Facility
	err := r.db.SelectContext(ctx, &facilities, query, args...)
	if err != nil {
		return nil, err
	}

	return facilities, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID int) ([]Facility, error) {
	var facilities []Facility
	err := r.db.SelectContext(ctx, &facilities, `
		SELECT `+facilityColumns+`
		FROM facilities
		WHERE owner_id = $1
		ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}

	return facilities, nil
}

func (r *repository) UpdateInfo(ctx context.Context, id int, req UpdateFacilityRequest) (*Facility, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&current.Name, req.Name)
	apply(&current.Description, req.Description)
	apply(&current.Address, req.Address)
	apply(&current.City, req.City)
	apply(&current.State, req.State)
	apply(&current.Pincode, req.Pincode)
	apply(&current.MapLink, req.MapLink)
	if req.Amenities != nil {
		current.Amenities = pq.StringArray(*req.Amenities)
	}
	if req.Photos != nil {
		current.Photos = pq.StringArray(*req.Photos)
	}

	var updated Facility
	err = r.db.QueryRowxContext(ctx, `
		UPDATE facilities
		SET name = $1, description = $2, address = $3, city = $4, state = $5,
			pincode = $6, map_link = $7, amenities = $8, photos = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING `+facilityColumns,
		current.Name, current.Description, current.Address, current.City, current.State,
		current.Pincode, current.MapLink, current.Amenities, current.Photos, id,
	).StructScan(&updated)
	if err != nil {
		return nil, err
	}
	updated.Sports = current.Sports

	return &updated, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE facilities
		SET status = $1, updated_at = NOW()
		WHERE id = $2`, status, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrFacilityNotFound
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM facilities WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrFacilityNotFound
	}

	return nil
}

func (r *repository) GetCourtInfo(ctx context.Context, courtID int) (*CourtInfo, error) {
	query := `
		SELECT
			c.id AS court_id,
			c.name AS court_name,
			c.status AS court_status,
			s.id AS sport_id,
			s.name AS sport_name,
			s.price_per_hour,
			f.id AS facility_id,
			f.status AS facility_status,
			f.owner_id
		FROM courts c
		JOIN sports s ON c.sport_id = s.id
		JOIN facilities f ON s.facility_id = f.id
		WHERE c.id = $1
	`

	var info CourtInfo
	err := r.db.GetContext(ctx, &info, query, courtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}

	return &info, nil
}

func (r *repository) UpdateCourtStatus(ctx context.Context, courtID int, status string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE courts SET status = $1 WHERE id = $2`, status, courtID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrCourtNotFound
	}

	return nil
}
