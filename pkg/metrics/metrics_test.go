package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func gather(reg *prometheus.Registry) map[string]*dto.MetricFamily {
	families, err := reg.Gather()
	So(err, ShouldBeNil)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(
			WithPrometheusRegistry(reg),
			WithNamespace("test"),
			WithSubsystem("bench"),
			WithCustomLabels(map[string]string{"env": "test"}),
			WithHistogramBuckets([]float64{1, 10, 100}),
		)

		Convey("When an upload is recorded", func() {
			m.Ingest(40, 2)
			m.Ingest(10, 0)
			fams := gather(reg)

			Convey("Then row counters accumulate and the pool gauge tracks the last upload", func() {
				So(fams["test_bench_pool_rows_ingested_total"].GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 50)
				So(fams["test_bench_pool_rows_skipped_total"].GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 2)
				So(fams["test_bench_pool_size_last"].GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 10)
			})

			Convey("Then custom labels are attached", func() {
				labels := fams["test_bench_pool_size_last"].GetMetric()[0].GetLabel()
				So(labels, ShouldHaveLength, 1)
				So(labels[0].GetName(), ShouldEqual, "env")
				So(labels[0].GetValue(), ShouldEqual, "test")
			})
		})

		Convey("When submissions settle", func() {
			m.Submission(OutcomeOK, 120*time.Millisecond, 20)
			m.Submission(OutcomeBusy, 0, 0)
			m.Submission(OutcomeTransport, 3*time.Millisecond, 0)
			fams := gather(reg)

			Convey("Then outcomes are counted and returned lineups summed", func() {
				So(fams["test_bench_submissions_total"].GetMetric(), ShouldHaveLength, 3)
				So(fams["test_bench_lineups_returned_total"].GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 20)
			})

			Convey("Then rejected submissions carry no latency sample", func() {
				So(fams["test_bench_submission_duration_milliseconds"].GetMetric(), ShouldHaveLength, 2)
			})
		})

		Convey("When the pending gauge moves", func() {
			m.Pending(1)
			m.Pending(1)
			m.Pending(-1)

			Convey("Then it reflects the net count", func() {
				So(gather(reg)["test_bench_pending_submissions"].GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 1)
			})
		})

		Convey("When runtime gauges are sampled", func() {
			m.UpdateRuntime()

			Convey("Then goroutines are reported", func() {
				So(gather(reg)["test_bench_system_goroutine_count"].GetMetric()[0].GetGauge().GetValue(), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When Run is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				m.Run(ctx)
				close(done)
			}()
			cancel()

			Convey("Then it returns", func() {
				select {
				case <-done:
				case <-time.After(time.Second):
					So("Run did not stop", ShouldBeEmpty)
				}
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global registry", t, func() {
		RecordIngest(3, 1)
		RecordSubmission(OutcomeContract, time.Millisecond, 0)
		AddPending(0)
		RecordBackendAttempt("optimize", "http://localhost:8000", "ok")
		RecordExport()
		RecordSave()
		UpdateActiveSessions(2)
		RecordSessionsExpired(1)
		RecordHTTPRequest("sessions", "POST", "201")
		RecordHTTPRequestDuration("sessions", "POST", "201", 1.5)
		RecordErrorByComponent("optimizer", "transport")

		fams := gather(GetRegistry())

		Convey("Then every family is exported under the dfs namespace", func() {
			for _, name := range []string{
				"dfs_workbench_exports_total",
				"dfs_workbench_saves_total",
				"dfs_workbench_active_sessions",
				"dfs_workbench_backend_attempts_total",
				"dfs_workbench_http_requests_total",
				"dfs_workbench_errors_by_component_total",
			} {
				So(fams, ShouldContainKey, name)
			}
		})
	})
}
