// ABOUTME: SQLite database schema for the place-search store
// ABOUTME: Creates the city registry, term, place, and history tables
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Search terms, created lazily on first use
CREATE TABLE IF NOT EXISTS search_term (
    term_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

-- City registry, read-only within the search pipeline
CREATE TABLE IF NOT EXISTS city (
    city_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    simplified_name TEXT,
    latitude REAL,
    longitude REAL
);

-- One logical row per external place id, scalar fields refreshed on sighting
CREATE TABLE IF NOT EXISTS place (
    place_id TEXT PRIMARY KEY,
    name TEXT,
    display_name TEXT,
    formatted_address TEXT,
    latitude REAL,
    longitude REAL,
    phone_number TEXT,
    website_uri TEXT,
    google_maps_uri TEXT,
    price_level INTEGER,
    primary_type TEXT,
    city_id INTEGER REFERENCES city(city_id),
    postal_code TEXT,
    last_updated DATETIME,
    supports_live_music BOOLEAN,
    outdoor_seating BOOLEAN,
    editorial_summary TEXT
);

-- Set relation of categorical tags, never pruned
CREATE TABLE IF NOT EXISTS place_type (
    place_id TEXT NOT NULL REFERENCES place(place_id),
    type TEXT NOT NULL,
    UNIQUE(place_id, type)
);

-- Append-only join fact: this term found this place in this city
CREATE TABLE IF NOT EXISTS place_search (
    term_id INTEGER NOT NULL REFERENCES search_term(term_id),
    city_id INTEGER NOT NULL REFERENCES city(city_id),
    place_id TEXT NOT NULL REFERENCES place(place_id),
    search_timestamp DATETIME,
    UNIQUE(term_id, city_id, place_id)
);

-- Strictly append-only rating time series
CREATE TABLE IF NOT EXISTS rating_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    place_id TEXT NOT NULL REFERENCES place(place_id),
    rating REAL,
    user_rating_count INTEGER,
    timestamp DATETIME
);

-- Latest observed opening hours, one row per place
CREATE TABLE IF NOT EXISTS opening_hours (
    place_id TEXT PRIMARY KEY REFERENCES place(place_id),
    weekday_text TEXT,
    periods_json TEXT
);

-- User reviews, deduplicated on their natural tuple
CREATE TABLE IF NOT EXISTS review (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    place_id TEXT NOT NULL REFERENCES place(place_id),
    author_name TEXT,
    rating REAL,
    relative_publish_time_description TEXT,
    text TEXT,
    language_code TEXT,
    publish_time DATETIME,
    UNIQUE(place_id, author_name, publish_time)
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_place_city ON place(city_id);
CREATE INDEX IF NOT EXISTS idx_place_type_place ON place_type(place_id);
CREATE INDEX IF NOT EXISTS idx_place_search_term ON place_search(term_id);
CREATE INDEX IF NOT EXISTS idx_rating_history_place ON rating_history(place_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_review_place ON review(place_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
