package connector

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/semmidev/rowvault/internal/config"
	apperrors "github.com/semmidev/rowvault/internal/errors"
)

// createFixtureDB builds a small SQLite file: three users and an empty
// logs table.
func createFixtureDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer db.Close()

	statements := []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY, login TEXT, email TEXT)`,
		`CREATE TABLE logs (id INTEGER PRIMARY KEY, message TEXT)`,
		`INSERT INTO users (id, login, email) VALUES
			(1, 'admin', 'admin@example.com'),
			(2, 'editor', NULL),
			(3, 'viewer', 'viewer@example.com')`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("prepare fixture: %v", err)
		}
	}
	return path
}

func TestSQLiteConnector(t *testing.T) {
	ctx := context.Background()

	Convey("Given an existing SQLite database", t, func() {
		cfg := config.DatabaseConfig{Name: "fixture", Type: config.EngineSQLite, Path: createFixtureDB(t)}

		conn, err := NewSQLite(cfg)
		So(err, ShouldBeNil)
		defer conn.Close()

		Convey("Tables should list every table alphabetically", func() {
			tables, err := conn.Tables(ctx)
			So(err, ShouldBeNil)
			So(tables, ShouldResemble, []string{"logs", "users"})
		})

		Convey("RowCount should report the live count", func() {
			count, err := conn.RowCount(ctx, "users")
			So(err, ShouldBeNil)
			So(count, ShouldEqual, int64(3))

			count, err = conn.RowCount(ctx, "logs")
			So(err, ShouldBeNil)
			So(count, ShouldEqual, int64(0))
		})

		Convey("FetchBatch should page with limit and offset", func() {
			first, err := conn.FetchBatch(ctx, "users", 2, 0)
			So(err, ShouldBeNil)
			So(len(first), ShouldEqual, 2)

			rest, err := conn.FetchBatch(ctx, "users", 2, 2)
			So(err, ShouldBeNil)
			So(len(rest), ShouldEqual, 1)

			beyond, err := conn.FetchBatch(ctx, "users", 2, 3)
			So(err, ShouldBeNil)
			So(beyond, ShouldBeEmpty)
		})

		Convey("FetchBatch should normalize values for JSON output", func() {
			rows, err := conn.FetchBatch(ctx, "users", 10, 0)
			So(err, ShouldBeNil)
			So(rows[0].Columns(), ShouldResemble, []string{"id", "login", "email"})

			login, ok := rows[0].Value("login")
			So(ok, ShouldBeTrue)
			So(login, ShouldEqual, "admin")

			email, ok := rows[1].Value("email")
			So(ok, ShouldBeTrue)
			So(email, ShouldBeNil)
		})

		Convey("Close should be safe to call twice", func() {
			So(conn.Close(), ShouldBeNil)
			So(conn.Close(), ShouldBeNil)
		})
	})

	Convey("Given a path that does not exist", t, func() {
		cfg := config.DatabaseConfig{Name: "ghost", Type: config.EngineSQLite, Path: "/nonexistent/ghost.db"}

		_, err := NewSQLite(cfg)

		Convey("It should fail with a connection error naming the label", func() {
			var connErr *apperrors.ConnectionError
			So(errors.As(err, &connErr), ShouldBeTrue)
			So(connErr.Label, ShouldEqual, "ghost")
		})
	})
}
