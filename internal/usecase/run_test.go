package usecase

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/semmidev/rowvault/internal/adapter/archiver"
	"github.com/semmidev/rowvault/internal/config"
	"github.com/semmidev/rowvault/internal/domain"
	apperrors "github.com/semmidev/rowvault/internal/errors"
	"github.com/semmidev/rowvault/internal/infrastructure/logger"
)

func TestRunner(t *testing.T) {
	ctx := context.Background()
	log := logger.Nop()

	newConfig := func(outputDir string) *config.Config {
		return &config.Config{
			Databases: []config.DatabaseConfig{
				{Name: "grafana", Type: "sqlite", Path: "/var/lib/grafana/grafana.db", BatchSize: 2},
				{Name: "app", Type: "sqlite", Path: "/var/lib/app/app.db", BatchSize: 2},
			},
			Backup: config.BackupConfig{
				OutputDir:       outputDir,
				Compress:        false,
				TimestampFormat: "20060102_150405.000000000",
			},
		}
	}

	Convey("Given one unreachable and one healthy database", t, func() {
		open := func(db config.DatabaseConfig) (domain.Connector, error) {
			if db.Name == "grafana" {
				return nil, apperrors.NewConnectionError(db.Name, errors.New("unable to open database file"))
			}
			return &fakeConnector{
				tables: []string{"users"},
				rows:   map[string][]domain.Row{"users": numberedRows(2)},
			}, nil
		}
		runner := NewRunner(newConfig(t.TempDir()), open, archiver.NewTarGz(), nil, log)

		outcomes, err := runner.Run(ctx, nil)

		Convey("It should attempt every database in configured order", func() {
			So(err, ShouldBeNil)
			So(len(outcomes), ShouldEqual, 2)
			So(outcomes[0].Label, ShouldEqual, "grafana")
			So(outcomes[0].Success, ShouldBeFalse)
			So(outcomes[1].Label, ShouldEqual, "app")
			So(outcomes[1].Success, ShouldBeTrue)
		})

		Convey("AnyFailed should flag the run for a nonzero exit", func() {
			So(AnyFailed(outcomes), ShouldBeTrue)
		})
	})

	Convey("Given a label filter", t, func() {
		opened := make([]string, 0, 2)
		open := func(db config.DatabaseConfig) (domain.Connector, error) {
			opened = append(opened, db.Name)
			return &fakeConnector{tables: []string{"users"}, rows: map[string][]domain.Row{"users": numberedRows(1)}}, nil
		}
		runner := NewRunner(newConfig(t.TempDir()), open, archiver.NewTarGz(), nil, log)

		Convey("A matching label should restrict the run to that database", func() {
			outcomes, err := runner.Run(ctx, []string{"app"})
			So(err, ShouldBeNil)
			So(len(outcomes), ShouldEqual, 1)
			So(outcomes[0].Label, ShouldEqual, "app")
			So(opened, ShouldResemble, []string{"app"})
			So(AnyFailed(outcomes), ShouldBeFalse)
		})

		Convey("An unmatched label should fail before anything runs", func() {
			outcomes, err := runner.Run(ctx, []string{"app", "missing"})
			So(outcomes, ShouldBeNil)

			var cfgErr *apperrors.ConfigError
			So(errors.As(err, &cfgErr), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "missing")
			So(opened, ShouldBeEmpty)
		})
	})
}
