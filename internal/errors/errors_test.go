package errors

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTypedErrors(t *testing.T) {
	Convey("Given the typed error constructors", t, func() {
		Convey("ConfigError", func() {
			err := NewConfigError("databases[0].type", "unknown database type")

			Convey("It should describe the offending field", func() {
				So(err.Error(), ShouldContainSubstring, "databases[0].type")
				So(err.Error(), ShouldContainSubstring, "unknown database type")
			})

			Convey("It should be matchable through wrapping", func() {
				wrapped := fmt.Errorf("load config: %w", err)

				var target *ConfigError
				So(errors.As(wrapped, &target), ShouldBeTrue)
				So(target.Field, ShouldEqual, "databases[0].type")
			})
		})

		Convey("ConnectionError", func() {
			cause := errors.New("dial tcp: connection refused")
			err := NewConnectionError("grafana", cause)

			Convey("It should carry the label and unwrap to the cause", func() {
				So(err.Error(), ShouldContainSubstring, "grafana")
				So(errors.Unwrap(err), ShouldEqual, cause)
				So(errors.Is(err, cause), ShouldBeTrue)
			})
		})

		Convey("ExportError", func() {
			cause := errors.New("connection reset")
			err := NewExportError("dashboard", 42, cause)

			Convey("It should record how far the export got", func() {
				So(err.Table, ShouldEqual, "dashboard")
				So(err.Offset, ShouldEqual, int64(42))
				So(err.Error(), ShouldContainSubstring, "offset 42")
				So(errors.Unwrap(err), ShouldEqual, cause)
			})
		})

		Convey("ArchiveError", func() {
			cause := errors.New("no space left on device")
			err := NewArchiveError("/backups/28-08-2026.tar.gz", cause)

			Convey("It should name the archive path and unwrap", func() {
				So(err.Error(), ShouldContainSubstring, ".tar.gz")
				So(errors.Unwrap(err), ShouldEqual, cause)
			})
		})
	})
}
