package usecase

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/semmidev/rowvault/internal/domain"
)

func TestSafeFilename(t *testing.T) {
	Convey("Given values destined for filenames", t, func() {
		Convey("Spaces and path separators should become underscores", func() {
			So(safeFilename("Main Dashboard"), ShouldEqual, "Main_Dashboard")
			So(safeFilename("../../etc/passwd"), ShouldEqual, ".._.._etc_passwd")
		})

		Convey("Runs of unsafe characters should collapse to one underscore", func() {
			So(safeFilename("a  //  b"), ShouldEqual, "a_b")
		})

		Convey("A value with nothing usable should fall back", func() {
			So(safeFilename("   "), ShouldEqual, "unnamed")
			So(safeFilename("///"), ShouldEqual, "unnamed")
		})
	})
}

func TestRowStem(t *testing.T) {
	Convey("Given rows with identifying columns", t, func() {
		Convey("title should win over every other candidate", func() {
			row := domain.NewRow(
				[]string{"id", "slug", "title"},
				[]any{int64(1), "main-dash", "Main Dashboard"},
			)
			So(rowStem(row, 0), ShouldEqual, "0_Main_Dashboard")
		})

		Convey("An empty title should fall through to the next candidate", func() {
			row := domain.NewRow(
				[]string{"title", "name", "slug"},
				[]any{"", nil, "main-dash"},
			)
			So(rowStem(row, 3), ShouldEqual, "3_main-dash")
		})

		Convey("A non-string candidate should still be usable", func() {
			row := domain.NewRow([]string{"uid"}, []any{int64(42)})
			So(rowStem(row, 1), ShouldEqual, "1_42")
		})

		Convey("No candidates at all should produce the positional stem", func() {
			row := domain.NewRow([]string{"id", "payload"}, []any{int64(9), "x"})
			So(rowStem(row, 9), ShouldEqual, "row_9")
		})
	})
}
