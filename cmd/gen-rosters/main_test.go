package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/quiver/internal/printer"
)

func TestGenRosters(t *testing.T) {
	convey.Convey("Given the gen-rosters command", t, func() {
		color.NoColor = true
		var out bytes.Buffer
		restore := printer.SetOutput(&out, &out)
		defer restore()

		dir := t.TempDir()
		cmd := newCommand()
		cmd.SetArgs([]string{"--dir", dir, "--teams", "5", "--seed", "9"})
		cmd.SetErr(&bytes.Buffer{})

		convey.Convey("When executing it", func() {
			err := cmd.ExecuteContext(context.Background())

			convey.Convey("Then the three roster files exist", func() {
				convey.So(err, convey.ShouldBeNil)
				for _, name := range []string{"compound_archers.txt", "recurve_archers.txt", "barebow_archers.txt"} {
					_, statErr := os.Stat(filepath.Join(dir, name))
					convey.So(statErr, convey.ShouldBeNil)
				}
				convey.So(out.String(), convey.ShouldContainSubstring, "15 archers, 3 zero-score rows")
			})
		})
	})
}
