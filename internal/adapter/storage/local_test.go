package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()

	Convey("Given a local storage rooted in the output directory", t, func() {
		basePath := t.TempDir()
		local, err := NewLocal(basePath)
		So(err, ShouldBeNil)

		Convey("Upload should copy the archive into the root", func() {
			src := filepath.Join(t.TempDir(), "28-08-2026.tar.gz")
			So(os.WriteFile(src, []byte("archive-bytes"), 0644), ShouldBeNil)

			So(local.Upload(ctx, src, "28-08-2026.tar.gz"), ShouldBeNil)

			data, err := os.ReadFile(filepath.Join(basePath, "28-08-2026.tar.gz"))
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "archive-bytes")
		})

		Convey("List should return files only, never raw run directories", func() {
			So(os.WriteFile(filepath.Join(basePath, "a.tar.gz"), []byte("a"), 0644), ShouldBeNil)
			So(os.MkdirAll(filepath.Join(basePath, "27-08-2026"), 0755), ShouldBeNil)

			files, err := local.List(ctx)
			So(err, ShouldBeNil)
			So(files, ShouldResemble, []string{"a.tar.gz"})
		})

		Convey("Delete should remove the named file", func() {
			path := filepath.Join(basePath, "stale.tar.gz")
			So(os.WriteFile(path, []byte("x"), 0644), ShouldBeNil)

			So(local.Delete(ctx, "stale.tar.gz"), ShouldBeNil)

			_, err := os.Stat(path)
			So(os.IsNotExist(err), ShouldBeTrue)
		})

		Convey("GetOldFiles should select files older than the cutoff", func() {
			oldPath := filepath.Join(basePath, "old.tar.gz")
			newPath := filepath.Join(basePath, "new.tar.gz")
			So(os.WriteFile(oldPath, []byte("old"), 0644), ShouldBeNil)
			So(os.WriteFile(newPath, []byte("new"), 0644), ShouldBeNil)

			past := time.Now().Add(-72 * time.Hour)
			So(os.Chtimes(oldPath, past, past), ShouldBeNil)

			oldFiles, err := local.GetOldFiles(ctx, time.Now().Add(-24*time.Hour))
			So(err, ShouldBeNil)
			So(oldFiles, ShouldResemble, []string{"old.tar.gz"})
		})

		Convey("GetPath should join the root with the filename", func() {
			So(local.GetPath("x.tar.gz"), ShouldEqual, filepath.Join(basePath, "x.tar.gz"))
		})
	})
}
