// Command seed provisions a development database: it applies the schema
// and inserts a small demo dataset (one admin, one teacher, two students,
// two courses with enrollments, rooms and a pair of exam bookings).
// Running it twice is safe.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/parsuni/exam-portal-api/pkg/config"
	"github.com/parsuni/exam-portal-api/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	full_name     TEXT NOT NULL,
	role          TEXT NOT NULL,
	active        BOOLEAN NOT NULL DEFAULT TRUE,
	last_login    TIMESTAMPTZ,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	token      TEXT NOT NULL UNIQUE,
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	revoked    BOOLEAN NOT NULL DEFAULT FALSE,
	revoked_at TIMESTAMPTZ,
	ip_address TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS teachers (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL UNIQUE REFERENCES users(id),
	first_name   TEXT NOT NULL,
	last_name    TEXT NOT NULL,
	email        TEXT NOT NULL,
	teacher_code TEXT NOT NULL UNIQUE,
	phone        TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS students (
	id             TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL UNIQUE REFERENCES users(id),
	first_name     TEXT NOT NULL,
	last_name      TEXT NOT NULL,
	student_number TEXT NOT NULL UNIQUE,
	email          TEXT,
	phone          TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS courses (
	id          TEXT PRIMARY KEY,
	course_code TEXT NOT NULL UNIQUE,
	course_name TEXT NOT NULL,
	unit_count  INTEGER NOT NULL DEFAULT 3,
	teacher_id  TEXT NOT NULL REFERENCES teachers(id),
	day_of_week TEXT,
	class_room  TEXT,
	class_time  TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS enrollments (
	student_id TEXT NOT NULL REFERENCES students(id),
	course_id  TEXT NOT NULL REFERENCES courses(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (student_id, course_id)
);

CREATE TABLE IF NOT EXISTS rooms (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL UNIQUE,
	capacity INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS exams (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	course_id  TEXT NOT NULL REFERENCES courses(id),
	room_id    TEXT NOT NULL REFERENCES rooms(id),
	start_at   TIMESTAMPTZ NOT NULL,
	end_at     TIMESTAMPTZ NOT NULL,
	status     TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_exams_start_at ON exams (start_at);
CREATE INDEX IF NOT EXISTS idx_exams_room_id ON exams (room_id);

CREATE TABLE IF NOT EXISTS surveys (
	id         TEXT PRIMARY KEY,
	course_id  TEXT NOT NULL REFERENCES courses(id),
	title      TEXT NOT NULL,
	created_by TEXT NOT NULL REFERENCES teachers(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS survey_options (
	id        TEXT PRIMARY KEY,
	survey_id TEXT NOT NULL REFERENCES surveys(id),
	text      TEXT NOT NULL,
	position  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS survey_votes (
	survey_id  TEXT NOT NULL REFERENCES surveys(id),
	option_id  TEXT NOT NULL REFERENCES survey_options(id),
	student_id TEXT NOT NULL REFERENCES students(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (survey_id, student_id)
);
`

func main() {
	var (
		schemaOnly bool
		password   string
	)
	flag.BoolVar(&schemaOnly, "schema-only", false, "apply the schema without demo data")
	flag.StringVar(&password, "password", "secret123", "password for every demo account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}
	log.Println("schema applied")

	if schemaOnly {
		return
	}

	if err := seedDemoData(ctx, db, password); err != nil {
		log.Fatalf("failed to seed demo data: %v", err)
	}
	log.Println("demo data seeded")
}

func seedDemoData(ctx context.Context, db *sqlx.DB, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	const userQuery = `INSERT INTO users (id, username, email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (username) DO NOTHING`
	users := []struct {
		id, username, email, fullName, role string
	}{
		{"u-admin", "admin", "admin@parsuni.ac.ir", "مدیر سامانه", "ADMIN"},
		{"u-teacher-1", "r.ahmadi", "r.ahmadi@parsuni.ac.ir", "رضا احمدی", "TEACHER"},
		{"u-student-1", "s.abbasi", "s.abbasi@parsuni.ac.ir", "سارا عباسی", "STUDENT"},
		{"u-student-2", "m.karimi", "m.karimi@parsuni.ac.ir", "مهدی کریمی", "STUDENT"},
	}
	for _, u := range users {
		if _, err := tx.ExecContext(ctx, userQuery, u.id, u.username, u.email, string(hash), u.fullName, u.role); err != nil {
			return err
		}
	}

	const teacherQuery = `INSERT INTO teachers (id, user_id, first_name, last_name, email, teacher_code)
		VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, teacherQuery, "t-1", "u-teacher-1", "رضا", "احمدی", "r.ahmadi@parsuni.ac.ir", "T-1001"); err != nil {
		return err
	}

	const studentQuery = `INSERT INTO students (id, user_id, first_name, last_name, student_number, email)
		VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`
	students := []struct {
		id, userID, first, last, number, email string
	}{
		{"st-1", "u-student-1", "سارا", "عباسی", "40012345", "s.abbasi@parsuni.ac.ir"},
		{"st-2", "u-student-2", "مهدی", "کریمی", "40012346", "m.karimi@parsuni.ac.ir"},
	}
	for _, s := range students {
		if _, err := tx.ExecContext(ctx, studentQuery, s.id, s.userID, s.first, s.last, s.number, s.email); err != nil {
			return err
		}
	}

	const courseQuery = `INSERT INTO courses (id, course_code, course_name, unit_count, teacher_id, day_of_week, class_room, class_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (id) DO NOTHING`
	courses := []struct {
		id, code, name     string
		units              int
		day, room, timeStr string
	}{
		{"c-1", "CS101", "مبانی برنامه‌نویسی", 3, "شنبه", "کلاس ۱۰۱", "08:00 - 10:00"},
		{"c-2", "CS201", "ساختمان داده", 3, "دوشنبه", "کلاس ۲۰۳", "10:00 - 12:00"},
	}
	for _, c := range courses {
		if _, err := tx.ExecContext(ctx, courseQuery, c.id, c.code, c.name, c.units, "t-1", c.day, c.room, c.timeStr); err != nil {
			return err
		}
	}

	const enrollQuery = `INSERT INTO enrollments (student_id, course_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`
	enrollments := [][2]string{
		{"st-1", "c-1"}, {"st-1", "c-2"},
		{"st-2", "c-1"},
	}
	for _, e := range enrollments {
		if _, err := tx.ExecContext(ctx, enrollQuery, e[0], e[1]); err != nil {
			return err
		}
	}

	const roomQuery = `INSERT INTO rooms (id, name, capacity)
		VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`
	rooms := []struct {
		id, name string
		capacity int
	}{
		{"r-1", "تالار امتحانات ۱", 120},
		{"r-2", "تالار امتحانات ۲", 80},
		{"r-3", "کلاس ۳۰۵", 40},
	}
	for _, r := range rooms {
		if _, err := tx.ExecContext(ctx, roomQuery, r.id, r.name, r.capacity); err != nil {
			return err
		}
	}

	loc, err := time.LoadLocation("Asia/Tehran")
	if err != nil {
		return err
	}
	now := time.Now().In(loc)
	examDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 14)

	const examQuery = `INSERT INTO exams (id, name, course_id, room_id, start_at, end_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (id) DO NOTHING`
	exams := []struct {
		id, name, courseID, roomID string
		startHour, endHour         int
	}{
		{"e-1", "میان‌ترم مبانی برنامه‌نویسی", "c-1", "r-1", 9, 11},
		{"e-2", "میان‌ترم ساختمان داده", "c-2", "r-2", 14, 16},
	}
	for _, e := range exams {
		start := examDay.Add(time.Duration(e.startHour) * time.Hour)
		end := examDay.Add(time.Duration(e.endHour) * time.Hour)
		if _, err := tx.ExecContext(ctx, examQuery, e.id, e.name, e.courseID, e.roomID, start, end, "pending"); err != nil {
			return err
		}
	}

	return tx.Commit()
}
