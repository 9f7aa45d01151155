package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/lineupdesk/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.BackendURLs, convey.ShouldResemble, []string{"http://localhost:8000"})
			convey.So(cfg.Objective, convey.ShouldEqual, "maximize_points")
			convey.So(cfg.SubmitTimeout, convey.ShouldEqual, 2*time.Minute)
			convey.So(cfg.SessionTTL, convey.ShouldEqual, 30*time.Minute)
			convey.So(cfg.ArchiveEnabled(), convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
