package main

import (
	"context"
	"os"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/rs/zerolog/log"

	"github.com/pathlens/labtestcompare/backend/internal/infrastructure/clients/postgres"
	"github.com/pathlens/labtestcompare/backend/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS labs (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	slug        TEXT NOT NULL UNIQUE,
	website_url TEXT
);

CREATE TABLE IF NOT EXISTS cities (
	id   BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS lab_locations (
	id      BIGSERIAL PRIMARY KEY,
	lab_id  BIGINT NOT NULL REFERENCES labs(id),
	city_id BIGINT NOT NULL REFERENCES cities(id)
);

CREATE TABLE IF NOT EXISTS departments (
	id   BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS canonical_tests (
	id            BIGSERIAL PRIMARY KEY,
	name          TEXT NOT NULL,
	slug          TEXT NOT NULL UNIQUE,
	department_id BIGINT REFERENCES departments(id),
	test_type     TEXT,
	is_popular    BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS lab_tests (
	id                BIGSERIAL PRIMARY KEY,
	canonical_test_id BIGINT REFERENCES canonical_tests(id),
	lab_id            BIGINT NOT NULL REFERENCES labs(id),
	lab_location_id   BIGINT NOT NULL REFERENCES lab_locations(id),
	price             NUMERIC(10,2) NOT NULL,
	mrp               NUMERIC(10,2),
	is_active         BOOLEAN NOT NULL DEFAULT TRUE,
	department_raw    TEXT NOT NULL DEFAULT '',
	tat_hours         INTEGER,
	tat_text          TEXT,
	home_collection   BOOLEAN,
	nabl_accredited   BOOLEAN,
	match_confidence  NUMERIC(4,3),
	methodology       TEXT,
	sample_type       TEXT
);

CREATE INDEX IF NOT EXISTS idx_lab_tests_location ON lab_tests (lab_location_id) WHERE is_active;
CREATE INDEX IF NOT EXISTS idx_lab_tests_canonical ON lab_tests (canonical_test_id) WHERE is_active;
CREATE INDEX IF NOT EXISTS idx_canonical_tests_name ON canonical_tests (lower(name));

CREATE OR REPLACE VIEW test_comparison AS
SELECT
	lt.canonical_test_id,
	ct.name            AS test_name,
	ct.test_type,
	d.name             AS department,
	c.name             AS city,
	l.name             AS lab_name,
	l.slug             AS lab_slug,
	lt.price,
	lt.mrp,
	CASE WHEN lt.mrp IS NOT NULL AND lt.mrp > 0
		THEN round((lt.mrp - lt.price) / lt.mrp * 100, 1)
	END                AS discount_pct,
	lt.tat_hours,
	lt.tat_text,
	lt.home_collection,
	lt.nabl_accredited,
	lt.match_confidence,
	lt.methodology,
	lt.sample_type
FROM lab_tests lt
JOIN canonical_tests ct ON ct.id = lt.canonical_test_id
JOIN labs l             ON l.id = lt.lab_id
JOIN lab_locations ll   ON ll.id = lt.lab_location_id
JOIN cities c           ON c.id = ll.city_id
LEFT JOIN departments d ON d.id = ct.department_id
WHERE lt.is_active AND lt.price > 0;
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				lab_tests,
				canonical_tests,
				departments,
				lab_locations,
				cities,
				labs
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}

	db := goqu.New("postgres", pgClient.DB())

	seed := func(table string, rows []goqu.Record) {
		sqlStr, args, err := db.Insert(table).Rows(rows).ToSQL()
		if err != nil {
			log.Fatal().Err(err).Str("table", table).Msg("failed to build insert")
		}
		if _, err := pgClient.DB().ExecContext(ctx, sqlStr, args...); err != nil {
			log.Fatal().Err(err).Str("table", table).Msg("failed to seed")
		}
		log.Info().Str("table", table).Int("rows", len(rows)).Msg("seeded")
	}

	seed("labs", []goqu.Record{
		{"name": "Metropolis Healthcare", "slug": "metropolis", "website_url": "https://www.metropolisindia.com"},
		{"name": "Agilus Diagnostics", "slug": "agilus", "website_url": "https://www.agilus.in"},
		{"name": "Apollo Diagnostics", "slug": "apollo", "website_url": "https://www.apollodiagnostics.in"},
		{"name": "Neuberg Diagnostics", "slug": "neuberg", "website_url": "https://www.neubergdiagnostics.com"},
		{"name": "Trustlab Diagnostics", "slug": "trustlab", "website_url": nil},
	})

	seed("cities", []goqu.Record{
		{"name": "Mumbai"},
		{"name": "Delhi"},
		{"name": "Bengaluru"},
		{"name": "Chennai"},
		{"name": "Hyderabad"},
	})

	seed("lab_locations", []goqu.Record{
		{"lab_id": 1, "city_id": 1}, {"lab_id": 1, "city_id": 2}, {"lab_id": 1, "city_id": 3},
		{"lab_id": 2, "city_id": 1}, {"lab_id": 2, "city_id": 2},
		{"lab_id": 3, "city_id": 1}, {"lab_id": 3, "city_id": 4}, {"lab_id": 3, "city_id": 5},
		{"lab_id": 4, "city_id": 3}, {"lab_id": 4, "city_id": 5},
		{"lab_id": 5, "city_id": 1},
	})

	seed("departments", []goqu.Record{
		{"name": "Haematology"},
		{"name": "Biochemistry"},
		{"name": "Microbiology"},
		{"name": "Serology"},
		{"name": "Histopathology"},
		{"name": "Molecular Biology"},
		{"name": "Radiology"},
	})

	seed("canonical_tests", []goqu.Record{
		{"name": "Complete Blood Count (CBC)", "slug": "complete-blood-count", "department_id": 1, "test_type": "pathology", "is_popular": true},
		{"name": "Blood Glucose Fasting", "slug": "blood-glucose-fasting", "department_id": 2, "test_type": "pathology", "is_popular": true},
		{"name": "Lipid Profile", "slug": "lipid-profile", "department_id": 2, "test_type": "pathology", "is_popular": true},
		{"name": "Thyroid Profile (T3 T4 TSH)", "slug": "thyroid-profile", "department_id": 2, "test_type": "pathology", "is_popular": true},
		{"name": "HbA1c (Glycosylated Haemoglobin)", "slug": "hba1c", "department_id": 2, "test_type": "pathology", "is_popular": true},
		{"name": "Liver Function Test (LFT)", "slug": "liver-function-test", "department_id": 2, "test_type": "pathology", "is_popular": false},
		{"name": "Urine Culture", "slug": "urine-culture", "department_id": 3, "test_type": "pathology", "is_popular": false},
		{"name": "Vitamin D 25-Hydroxy", "slug": "vitamin-d-25-hydroxy", "department_id": 2, "test_type": "pathology", "is_popular": true},
	})

	seed("lab_tests", []goqu.Record{
		// CBC across four chains in Mumbai
		{"canonical_test_id": 1, "lab_id": 1, "lab_location_id": 1, "price": 325, "mrp": 450, "department_raw": "HAEMATOLOGY", "tat_hours": 6, "home_collection": true, "nabl_accredited": true, "match_confidence": 1.0},
		{"canonical_test_id": 1, "lab_id": 2, "lab_location_id": 4, "price": 400, "mrp": 500, "department_raw": "Hematology", "tat_hours": 8, "home_collection": true, "nabl_accredited": true, "match_confidence": 0.95},
		{"canonical_test_id": 1, "lab_id": 3, "lab_location_id": 6, "price": 380, "department_raw": "Haematology.", "tat_hours": 12, "home_collection": false, "match_confidence": 0.9},
		{"canonical_test_id": 1, "lab_id": 5, "lab_location_id": 11, "price": 290, "department_raw": "Pathology - Haematology", "match_confidence": 0.85},
		// Glucose
		{"canonical_test_id": 2, "lab_id": 1, "lab_location_id": 1, "price": 120, "mrp": 150, "department_raw": "Clinical Chemistry", "tat_hours": 4, "match_confidence": 1.0},
		{"canonical_test_id": 2, "lab_id": 2, "lab_location_id": 4, "price": 150, "department_raw": "BIOCHEMISTRY", "tat_hours": 6, "match_confidence": 1.0},
		// Lipid profile
		{"canonical_test_id": 3, "lab_id": 1, "lab_location_id": 2, "price": 700, "mrp": 900, "department_raw": "Biochemistry", "tat_hours": 12, "match_confidence": 1.0},
		{"canonical_test_id": 3, "lab_id": 3, "lab_location_id": 6, "price": 850, "department_raw": "Clinical Chemistry", "match_confidence": 0.9},
		{"canonical_test_id": 3, "lab_id": 4, "lab_location_id": 9, "price": 780, "department_raw": "Biochemistry", "match_confidence": 0.95},
		// Thyroid
		{"canonical_test_id": 4, "lab_id": 2, "lab_location_id": 5, "price": 550, "department_raw": "Immunoassay", "match_confidence": 0.9},
		{"canonical_test_id": 4, "lab_id": 4, "lab_location_id": 10, "price": 600, "department_raw": "Biochemistry", "match_confidence": 1.0},
		// HbA1c
		{"canonical_test_id": 5, "lab_id": 1, "lab_location_id": 1, "price": 450, "department_raw": "Biochemistry", "match_confidence": 1.0},
		{"canonical_test_id": 5, "lab_id": 3, "lab_location_id": 7, "price": 500, "department_raw": "Clinical Chemistry", "match_confidence": 0.9},
		// LFT, urine culture, vitamin D
		{"canonical_test_id": 6, "lab_id": 1, "lab_location_id": 3, "price": 650, "department_raw": "Biochemistry", "match_confidence": 1.0},
		{"canonical_test_id": 7, "lab_id": 3, "lab_location_id": 8, "price": 400, "department_raw": "Micro Biology", "tat_hours": 48, "match_confidence": 0.9},
		{"canonical_test_id": 8, "lab_id": 4, "lab_location_id": 9, "price": 1100, "mrp": 1600, "department_raw": "Immunoassay", "match_confidence": 1.0},
		// Unlinked row the matcher could not resolve; excluded everywhere
		{"canonical_test_id": nil, "lab_id": 5, "lab_location_id": 11, "price": 250, "department_raw": "Package"},
	})

	log.Info().Msg("seeding complete")
}
