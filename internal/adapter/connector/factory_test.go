package connector

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/semmidev/rowvault/internal/config"
	apperrors "github.com/semmidev/rowvault/internal/errors"
)

func TestFactory(t *testing.T) {
	Convey("Given the connector factory", t, func() {
		Convey("A sqlite entry should yield a SQLite connector", func() {
			cfg := config.DatabaseConfig{Name: "fixture", Type: config.EngineSQLite, Path: createFixtureDB(t)}

			conn, err := New(cfg)
			So(err, ShouldBeNil)
			So(conn, ShouldHaveSameTypeAs, &SQLiteConnector{})
			So(conn.Close(), ShouldBeNil)
		})

		Convey("An unknown engine should be rejected as a config error", func() {
			cfg := config.DatabaseConfig{Name: "legacy", Type: "postgres"}

			_, err := New(cfg)

			var cfgErr *apperrors.ConfigError
			So(errors.As(err, &cfgErr), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "postgres")
		})
	})
}
