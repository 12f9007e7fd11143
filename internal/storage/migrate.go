package storage

import (
	"fmt"
)

// Migrate ensures the required tables are present.
func Migrate(db *DB) error {
	var stmts []string
	switch db.Driver() {
	case "sqlite3":
		stmts = sqliteSchema
	case "mysql":
		stmts = mysqlSchema
	case "postgres":
		stmts = postgresSchema
	default:
		return fmt.Errorf("unsupported driver for migration: %s", db.Driver())
	}

	for _, stmt := range stmts {
		if _, err := db.DB.Exec(stmt); err != nil {
			return fmt.Errorf("migrate (%s): %w", db.Driver(), err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'client',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_tokens (
		token TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_tokens_user ON user_tokens(user_id)`,
	`CREATE TABLE IF NOT EXISTS destinations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		country TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		is_popular BOOLEAN NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS hotels (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		destination_id INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		stars INTEGER NOT NULL,
		price_per_night REAL NOT NULL,
		has_wifi BOOLEAN NOT NULL DEFAULT 0,
		has_pool BOOLEAN NOT NULL DEFAULT 0,
		has_parking BOOLEAN NOT NULL DEFAULT 0,
		has_restaurant BOOLEAN NOT NULL DEFAULT 0,
		has_spa BOOLEAN NOT NULL DEFAULT 0,
		is_available BOOLEAN NOT NULL DEFAULT 1,
		total_rooms INTEGER NOT NULL DEFAULT 0,
		image TEXT NOT NULL DEFAULT '',
		average_rating REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		FOREIGN KEY(destination_id) REFERENCES destinations(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS flights (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		airline TEXT NOT NULL,
		flight_number TEXT NOT NULL,
		origin_id INTEGER NOT NULL,
		destination_id INTEGER NOT NULL,
		departure_time DATETIME NOT NULL,
		arrival_time DATETIME NOT NULL,
		price REAL NOT NULL,
		available_seats INTEGER NOT NULL DEFAULT 0,
		is_direct BOOLEAN NOT NULL DEFAULT 1,
		baggage_included BOOLEAN NOT NULL DEFAULT 1,
		is_available BOOLEAN NOT NULL DEFAULT 1,
		FOREIGN KEY(origin_id) REFERENCES destinations(id) ON DELETE CASCADE,
		FOREIGN KEY(destination_id) REFERENCES destinations(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS packages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		destination_id INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		duration_days INTEGER NOT NULL,
		price REAL NOT NULL,
		includes_flight BOOLEAN NOT NULL DEFAULT 0,
		includes_hotel BOOLEAN NOT NULL DEFAULT 0,
		includes_meals BOOLEAN NOT NULL DEFAULT 0,
		includes_transport BOOLEAN NOT NULL DEFAULT 0,
		includes_guide BOOLEAN NOT NULL DEFAULT 0,
		max_participants INTEGER NOT NULL DEFAULT 0,
		image TEXT NOT NULL DEFAULT '',
		is_available BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		FOREIGN KEY(destination_id) REFERENCES destinations(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL UNIQUE,
		user_id INTEGER,
		started_at DATETIME NOT NULL,
		last_activity DATETIME NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE SET NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_id, last_activity DESC)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id INTEGER NOT NULL,
		sender TEXT NOT NULL,
		message TEXT NOT NULL,
		intent TEXT NOT NULL DEFAULT '',
		entities TEXT NOT NULL DEFAULT '{}',
		web_recommendations TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME NOT NULL,
		FOREIGN KEY(conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS message_recommendations (
		message_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		record_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (message_id, position),
		FOREIGN KEY(message_id) REFERENCES messages(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS faqs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		keywords TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT 1
	)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		first_name VARCHAR(150) NOT NULL DEFAULT '',
		last_name VARCHAR(150) NOT NULL DEFAULT '',
		phone VARCHAR(32) NOT NULL DEFAULT '',
		role VARCHAR(20) NOT NULL DEFAULT 'client',
		created_at DATETIME NOT NULL,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS user_tokens (
		token VARCHAR(255) NOT NULL PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		INDEX idx_user_tokens_user (user_id),
		CONSTRAINT fk_user_tokens_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS destinations (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(200) NOT NULL,
		country VARCHAR(100) NOT NULL,
		description TEXT NOT NULL,
		image VARCHAR(500) NOT NULL DEFAULT '',
		is_popular TINYINT(1) NOT NULL DEFAULT 0,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS hotels (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(200) NOT NULL,
		destination_id BIGINT UNSIGNED NOT NULL,
		description TEXT NOT NULL,
		address VARCHAR(300) NOT NULL DEFAULT '',
		stars INT NOT NULL,
		price_per_night DECIMAL(10,2) NOT NULL,
		has_wifi TINYINT(1) NOT NULL DEFAULT 0,
		has_pool TINYINT(1) NOT NULL DEFAULT 0,
		has_parking TINYINT(1) NOT NULL DEFAULT 0,
		has_restaurant TINYINT(1) NOT NULL DEFAULT 0,
		has_spa TINYINT(1) NOT NULL DEFAULT 0,
		is_available TINYINT(1) NOT NULL DEFAULT 1,
		total_rooms INT NOT NULL DEFAULT 0,
		image VARCHAR(500) NOT NULL DEFAULT '',
		average_rating DECIMAL(3,2) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		INDEX idx_hotels_destination (destination_id),
		CONSTRAINT fk_hotels_destination FOREIGN KEY (destination_id) REFERENCES destinations(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS flights (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		airline VARCHAR(100) NOT NULL,
		flight_number VARCHAR(20) NOT NULL,
		origin_id BIGINT UNSIGNED NOT NULL,
		destination_id BIGINT UNSIGNED NOT NULL,
		departure_time DATETIME NOT NULL,
		arrival_time DATETIME NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		available_seats INT NOT NULL DEFAULT 0,
		is_direct TINYINT(1) NOT NULL DEFAULT 1,
		baggage_included TINYINT(1) NOT NULL DEFAULT 1,
		is_available TINYINT(1) NOT NULL DEFAULT 1,
		PRIMARY KEY (id),
		CONSTRAINT fk_flights_origin FOREIGN KEY (origin_id) REFERENCES destinations(id) ON DELETE CASCADE,
		CONSTRAINT fk_flights_destination FOREIGN KEY (destination_id) REFERENCES destinations(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS packages (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(200) NOT NULL,
		destination_id BIGINT UNSIGNED NOT NULL,
		description TEXT NOT NULL,
		duration_days INT NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		includes_flight TINYINT(1) NOT NULL DEFAULT 0,
		includes_hotel TINYINT(1) NOT NULL DEFAULT 0,
		includes_meals TINYINT(1) NOT NULL DEFAULT 0,
		includes_transport TINYINT(1) NOT NULL DEFAULT 0,
		includes_guide TINYINT(1) NOT NULL DEFAULT 0,
		max_participants INT NOT NULL DEFAULT 0,
		image VARCHAR(500) NOT NULL DEFAULT '',
		is_available TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		CONSTRAINT fk_packages_destination FOREIGN KEY (destination_id) REFERENCES destinations(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		session_id VARCHAR(100) NOT NULL UNIQUE,
		user_id BIGINT UNSIGNED NULL,
		started_at DATETIME NOT NULL,
		last_activity DATETIME NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		PRIMARY KEY (id),
		INDEX idx_conversations_user (user_id, last_activity),
		CONSTRAINT fk_conversations_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS messages (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		conversation_id BIGINT UNSIGNED NOT NULL,
		sender VARCHAR(10) NOT NULL,
		message MEDIUMTEXT NOT NULL,
		intent VARCHAR(50) NOT NULL DEFAULT '',
		entities JSON NOT NULL,
		web_recommendations JSON NOT NULL,
		created_at DATETIME(6) NOT NULL,
		PRIMARY KEY (id),
		INDEX idx_messages_conversation (conversation_id, created_at),
		CONSTRAINT fk_messages_conversation FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS message_recommendations (
		message_id BIGINT UNSIGNED NOT NULL,
		kind VARCHAR(20) NOT NULL,
		record_id BIGINT UNSIGNED NOT NULL,
		position INT NOT NULL,
		PRIMARY KEY (message_id, position),
		CONSTRAINT fk_message_recs_message FOREIGN KEY (message_id) REFERENCES messages(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS faqs (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		question VARCHAR(500) NOT NULL,
		answer TEXT NOT NULL,
		keywords VARCHAR(500) NOT NULL DEFAULT '',
		category VARCHAR(50) NOT NULL DEFAULT '',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'client',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_tokens (
		token TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_tokens_user ON user_tokens(user_id)`,
	`CREATE TABLE IF NOT EXISTS destinations (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		country TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		is_popular BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS hotels (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		destination_id BIGINT NOT NULL REFERENCES destinations(id) ON DELETE CASCADE,
		description TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		stars INTEGER NOT NULL,
		price_per_night NUMERIC(10,2) NOT NULL,
		has_wifi BOOLEAN NOT NULL DEFAULT FALSE,
		has_pool BOOLEAN NOT NULL DEFAULT FALSE,
		has_parking BOOLEAN NOT NULL DEFAULT FALSE,
		has_restaurant BOOLEAN NOT NULL DEFAULT FALSE,
		has_spa BOOLEAN NOT NULL DEFAULT FALSE,
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		total_rooms INTEGER NOT NULL DEFAULT 0,
		image TEXT NOT NULL DEFAULT '',
		average_rating NUMERIC(3,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS flights (
		id BIGSERIAL PRIMARY KEY,
		airline TEXT NOT NULL,
		flight_number TEXT NOT NULL,
		origin_id BIGINT NOT NULL REFERENCES destinations(id) ON DELETE CASCADE,
		destination_id BIGINT NOT NULL REFERENCES destinations(id) ON DELETE CASCADE,
		departure_time TIMESTAMPTZ NOT NULL,
		arrival_time TIMESTAMPTZ NOT NULL,
		price NUMERIC(10,2) NOT NULL,
		available_seats INTEGER NOT NULL DEFAULT 0,
		is_direct BOOLEAN NOT NULL DEFAULT TRUE,
		baggage_included BOOLEAN NOT NULL DEFAULT TRUE,
		is_available BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS packages (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		destination_id BIGINT NOT NULL REFERENCES destinations(id) ON DELETE CASCADE,
		description TEXT NOT NULL DEFAULT '',
		duration_days INTEGER NOT NULL,
		price NUMERIC(10,2) NOT NULL,
		includes_flight BOOLEAN NOT NULL DEFAULT FALSE,
		includes_hotel BOOLEAN NOT NULL DEFAULT FALSE,
		includes_meals BOOLEAN NOT NULL DEFAULT FALSE,
		includes_transport BOOLEAN NOT NULL DEFAULT FALSE,
		includes_guide BOOLEAN NOT NULL DEFAULT FALSE,
		max_participants INTEGER NOT NULL DEFAULT 0,
		image TEXT NOT NULL DEFAULT '',
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id BIGSERIAL PRIMARY KEY,
		session_id TEXT NOT NULL UNIQUE,
		user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
		started_at TIMESTAMPTZ NOT NULL,
		last_activity TIMESTAMPTZ NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_id, last_activity DESC)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		conversation_id BIGINT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		sender TEXT NOT NULL,
		message TEXT NOT NULL,
		intent TEXT NOT NULL DEFAULT '',
		entities TEXT NOT NULL DEFAULT '{}',
		web_recommendations TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS message_recommendations (
		message_id BIGINT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		record_id BIGINT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (message_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS faqs (
		id BIGSERIAL PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		keywords TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
}
