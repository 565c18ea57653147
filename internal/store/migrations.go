package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Presets table - named HSV ranges
		`CREATE TABLE IF NOT EXISTS presets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			h_min INTEGER NOT NULL CHECK(h_min BETWEEN 0 AND 256),
			h_max INTEGER NOT NULL CHECK(h_max BETWEEN 0 AND 256),
			s_min INTEGER NOT NULL CHECK(s_min BETWEEN 0 AND 256),
			s_max INTEGER NOT NULL CHECK(s_max BETWEEN 0 AND 256),
			v_min INTEGER NOT NULL CHECK(v_min BETWEEN 0 AND 256),
			v_max INTEGER NOT NULL CHECK(v_max BETWEEN 0 AND 256),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_presets_created_at ON presets(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
