package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/okian/quiver/internal/adapters/report"
	"github.com/okian/quiver/internal/domain/search"
	"github.com/okian/quiver/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := New()

		Convey("Then it should have sensible defaults", func() {
			So(svc.outputPath, ShouldEqual, "generated_teams.txt")
			So(svc.paths[0], ShouldEqual, "compound_archers.txt")
			So(svc.paths[1], ShouldEqual, "recurve_archers.txt")
			So(svc.paths[2], ShouldEqual, "barebow_archers.txt")
			So(svc.patience, ShouldEqual, search.DefaultPatience)
			So(svc.runs, ShouldEqual, 1)
			So(svc.logger, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := New(
			WithRosterPaths("c.txt", "r.txt", "b.txt"),
			WithOutputPath("out.txt"),
			WithPatience(10),
			WithRuns(0),
			WithSeed(9),
		)

		Convey("Then valid options are applied and invalid ones ignored", func() {
			So(svc.paths, ShouldResemble, [3]string{"c.txt", "r.txt", "b.txt"})
			So(svc.outputPath, ShouldEqual, "out.txt")
			So(svc.patience, ShouldEqual, 10)
			So(svc.runs, ShouldEqual, 1)
			So(svc.seed, ShouldEqual, uint64(9))
		})
	})

	Convey("Given an unknown report format", t, func() {
		_, err := New(WithReportFormat("csv")).Run(context.Background())

		Convey("Then Run fails before touching any file", func() {
			So(errors.Is(err, report.ErrUnknownFormat), ShouldBeTrue)
		})
	})
}

func TestPickBest(t *testing.T) {
	Convey("Given results from several runs", t, func() {
		Convey("When one score is lowest", func() {
			So(pickBest([]search.Result{{Score: 9}, {Score: 4}, {Score: 7}}), ShouldEqual, 1)
		})

		Convey("When scores tie", func() {
			So(pickBest([]search.Result{{Score: 5}, {Score: 3}, {Score: 3}}), ShouldEqual, 1)
		})

		Convey("When there is a single run", func() {
			So(pickBest([]search.Result{{Score: 12}}), ShouldEqual, 0)
		})
	})
}

func TestSourceFor(t *testing.T) {
	Convey("Given a fixed seed", t, func() {
		svc := New(WithSeed(100))

		Convey("Then each run gets a distinct but reproducible source", func() {
			a0, b0 := svc.sourceFor(0), svc.sourceFor(0)
			a1 := svc.sourceFor(1)
			same, differ := true, false
			for i := 0; i < 20; i++ {
				x, y, z := a0.IntN(1<<20), b0.IntN(1<<20), a1.IntN(1<<20)
				if x != y {
					same = false
				}
				if x != z {
					differ = true
				}
			}
			So(same, ShouldBeTrue)
			So(differ, ShouldBeTrue)
		})
	})
}

// recordingLogger keeps every message with its fields, whatever the level.
type recordingLogger struct {
	mu      sync.Mutex
	entries map[string][]map[string]any
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{entries: map[string][]map[string]any{}}
}

func (l *recordingLogger) record(msg string, fields []logger.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kv := make(map[string]any, len(fields))
	for _, f := range fields {
		kv[f.Key] = f.Value
	}
	l.entries[msg] = append(l.entries[msg], kv)
}

func (l *recordingLogger) get(msg string) []map[string]any {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries[msg]
}

func (l *recordingLogger) Info(_ context.Context, msg string, fields ...logger.Field)  { l.record(msg, fields) }
func (l *recordingLogger) Error(_ context.Context, msg string, fields ...logger.Field) { l.record(msg, fields) }
func (l *recordingLogger) Debug(_ context.Context, msg string, fields ...logger.Field) { l.record(msg, fields) }
func (l *recordingLogger) Warn(_ context.Context, msg string, fields ...logger.Field)  { l.record(msg, fields) }
func (l *recordingLogger) Fatal(_ context.Context, msg string, fields ...logger.Field) { l.record(msg, fields) }
func (l *recordingLogger) Named(string) logger.Logger                                  { return l }

func TestService_RunLogs(t *testing.T) {
	Convey("Given two runs over small rosters with a recording logger", t, func() {
		dir := t.TempDir()
		paths := [3]string{}
		for i, body := range []string{"A,10\nB,20\n", "C,10\nD,20\n", "E,10\nF,20\n"} {
			paths[i] = filepath.Join(dir, []string{"c.txt", "r.txt", "b.txt"}[i])
			So(os.WriteFile(paths[i], []byte(body), 0o644), ShouldBeNil)
		}
		rec := newRecordingLogger()
		svc := New(
			WithRosterPaths(paths[0], paths[1], paths[2]),
			WithOutputPath(filepath.Join(dir, "out.json")),
			WithReportFormat(report.FormatJSON),
			WithPatience(20),
			WithRuns(2),
			WithSeed(3),
			WithLogger(rec),
		)

		Convey("When the service runs", func() {
			out, err := svc.Run(context.Background())
			So(err, ShouldBeNil)

			Convey("Then the report format is logged with the loaded rosters", func() {
				loaded := rec.get("rosters loaded")
				So(loaded, ShouldHaveLength, 1)
				So(loaded[0]["format"], ShouldEqual, report.FormatJSON)
			})

			Convey("And every scheduled search logs its run ID", func() {
				scheduled := rec.get("search scheduled")
				So(scheduled, ShouldHaveLength, 2)
				ids := map[any]bool{}
				for _, e := range scheduled {
					So(e["run_id"], ShouldNotBeEmpty)
					ids[e["run_id"]] = true
				}
				So(ids, ShouldHaveLength, 2)
				So(ids[out.Result.RunID], ShouldBeTrue)
			})
		})
	})
}
