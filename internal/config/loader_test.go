package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/lineupdesk/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

// isolate points the loader at an empty .env so the working directory
// never leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, nil, 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv(config.EnvDotFile, envFile)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	convey.Convey("Given no configuration sources", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then the defaults are returned", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.PageSize, convey.ShouldEqual, 10)
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
		})
	})
}

func TestLoad_Env(t *testing.T) {
	isolate(t)
	t.Setenv("DFS_ADDR", ":8080")
	t.Setenv("DFS_BACKEND_URLS", "http://primary:8000/, http://fallback:8000")
	t.Setenv("DFS_SUBMIT_TIMEOUT", "45s")
	t.Setenv("DFS_PAGE_SIZE", "20")
	t.Setenv("DFS_LOG_FORMAT", "JSON")

	convey.Convey("Given DFS_ environment variables", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then they override the defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.BackendURLs, convey.ShouldResemble, []string{"http://primary:8000", "http://fallback:8000"})
			convey.So(cfg.SubmitTimeout, convey.ShouldEqual, 45*time.Second)
			convey.So(cfg.PageSize, convey.ShouldEqual, 20)
			convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
		})
	})
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	yaml := "addr: \":7070\"\n" +
		"backend_urls:\n  - http://a:8000\n  - http://b:8000\n" +
		"session_ttl: 5m\n" +
		"archive_driver: postgres\n" +
		"archive_dsn: postgres://localhost/lineups\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.EnvConfig, path)
	t.Setenv("DFS_SESSION_TTL", "10m")

	convey.Convey("Given a YAML file and an overriding variable", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then the file applies and env wins", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			convey.So(cfg.BackendURLs, convey.ShouldResemble, []string{"http://a:8000", "http://b:8000"})
			convey.So(cfg.SessionTTL, convey.ShouldEqual, 10*time.Minute)
			convey.So(cfg.ArchiveEnabled(), convey.ShouldBeTrue)
			convey.So(cfg.ArchiveDriver, convey.ShouldEqual, "postgres")
		})
	})
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "local.env")
	if err := os.WriteFile(envFile, []byte("DFS_BROWSE_PAGE_SIZE=50\nDFS_OBJECTIVE=maximize_value\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(config.EnvDotFile, envFile)
	t.Setenv("DFS_OBJECTIVE", "maximize_points")
	t.Cleanup(func() { _ = os.Unsetenv("DFS_BROWSE_PAGE_SIZE") })

	convey.Convey("Given a .env file", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then its values apply without overriding the process env", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.BrowsePageSize, convey.ShouldEqual, 50)
			convey.So(cfg.Objective, convey.ShouldEqual, "maximize_points")
		})
	})
}

func TestLoad_Errors(t *testing.T) {
	convey.Convey("Given invalid configuration", t, func() {
		cases := map[string]map[string]string{
			"a relative backend url": {"DFS_BACKEND_URLS": "localhost:8000"},
			"a negative page size":   {"DFS_PAGE_SIZE": "-1"},
			"an unknown log format":  {"DFS_LOG_FORMAT": "xml"},
			"an unknown driver":      {"DFS_ARCHIVE_DSN": "x", "DFS_ARCHIVE_DRIVER": "oracle"},
			"a zero timeout":         {"DFS_SUBMIT_TIMEOUT": "0s"},
		}
		for name, env := range cases {
			convey.Convey("When it has "+name, func() {
				for k, v := range env {
					_ = os.Setenv(k, v)
				}
				defer func() {
					for k := range env {
						_ = os.Unsetenv(k)
					}
				}()
				_, err := config.Load(context.Background())

				convey.Convey("Then loading fails as invalid config", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})

	convey.Convey("Given a missing config file", t, func() {
		_ = os.Setenv(config.EnvConfig, filepath.Join(os.TempDir(), "does-not-exist.yaml"))
		defer func() { _ = os.Unsetenv(config.EnvConfig) }()

		_, err := config.Load(context.Background())
		convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
	})

	convey.Convey("Given a missing explicit .env file", t, func() {
		_ = os.Setenv(config.EnvDotFile, filepath.Join(os.TempDir(), "does-not-exist.env"))
		defer func() { _ = os.Unsetenv(config.EnvDotFile) }()

		_, err := config.Load(context.Background())
		convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
	})
}
