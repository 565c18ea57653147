package store

import (
	"database/sql"
	"errors"
	"time"
)

// Range is an HSV range as stored in the presets table.
type Range struct {
	HMin, HMax int
	SMin, SMax int
	VMin, VMax int
}

// Values returns the range in trackbar order: H_MIN, H_MAX, S_MIN, S_MAX, V_MIN, V_MAX.
func (r Range) Values() [6]int {
	return [6]int{r.HMin, r.HMax, r.SMin, r.SMax, r.VMin, r.VMax}
}

// RangeFromValues is the inverse of Values.
func RangeFromValues(v [6]int) Range {
	return Range{HMin: v[0], HMax: v[1], SMin: v[2], SMax: v[3], VMin: v[4], VMax: v[5]}
}

// Preset is a named HSV range.
type Preset struct {
	ID        string
	Name      string
	Range     Range
	CreatedAt time.Time
}

// PresetRepository provides CRUD operations for presets.
type PresetRepository struct {
	db *sql.DB
}

// Presets returns the preset repository for this store.
func (s *Store) Presets() *PresetRepository {
	return &PresetRepository{db: s.db}
}

const presetColumns = `id, name, h_min, h_max, s_min, s_max, v_min, v_max, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(row rowScanner) (*Preset, error) {
	p := &Preset{}
	err := row.Scan(&p.ID, &p.Name,
		&p.Range.HMin, &p.Range.HMax,
		&p.Range.SMin, &p.Range.SMax,
		&p.Range.VMin, &p.Range.VMax,
		&p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new preset. It returns ErrDuplicate if the ID or name is taken.
func (r *PresetRepository) Create(p *Preset) error {
	p.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO presets (`+presetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name,
		p.Range.HMin, p.Range.HMax,
		p.Range.SMin, p.Range.SMax,
		p.Range.VMin, p.Range.VMax,
		p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID retrieves a preset by its ID.
func (r *PresetRepository) GetByID(id string) (*Preset, error) {
	p, err := scanPreset(r.db.QueryRow(`SELECT `+presetColumns+` FROM presets WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByName retrieves a preset by its name.
func (r *PresetRepository) GetByName(name string) (*Preset, error) {
	p, err := scanPreset(r.db.QueryRow(`SELECT `+presetColumns+` FROM presets WHERE name = ?`, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List retrieves all presets, newest first.
func (r *PresetRepository) List() ([]*Preset, error) {
	rows, err := r.db.Query(`SELECT ` + presetColumns + ` FROM presets ORDER BY created_at DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []*Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return presets, nil
}

// Update replaces the name and range of an existing preset.
func (r *PresetRepository) Update(p *Preset) error {
	result, err := r.db.Exec(
		`UPDATE presets SET name = ?, h_min = ?, h_max = ?, s_min = ?, s_max = ?, v_min = ?, v_max = ?
		 WHERE id = ?`,
		p.Name,
		p.Range.HMin, p.Range.HMax,
		p.Range.SMin, p.Range.SMax,
		p.Range.VMin, p.Range.VMax,
		p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a preset by its ID.
func (r *PresetRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
