package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/hobbyseeds/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("HOBBYSEEDS_ADDR", ":8080")
			_ = os.Setenv("HOBBYSEEDS_STORE_BACKEND", "sqlite")
			_ = os.Setenv("HOBBYSEEDS_SQLITE_PATH", "/tmp/hobbies.db")
			_ = os.Setenv("HOBBYSEEDS_QUEUE_SIZE", "64")
			_ = os.Setenv("HOBBYSEEDS_RESULTS_PER_PAGE", "6")
			_ = os.Setenv("HOBBYSEEDS_RANDOM_SEED", "42")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StoreBackend, convey.ShouldEqual, "sqlite")
				convey.So(cfg.SQLitePath, convey.ShouldEqual, "/tmp/hobbies.db")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.ResultsPerPage, convey.ShouldEqual, 6)
				convey.So(cfg.RandomSeed, convey.ShouldEqual, uint64(42))
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
store_backend: redis
redis_addr: "cache:6379"
redis_db: 3
storage_key: "custom/log"
dedupe_size: 128
log_format: json
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("HOBBYSEEDS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.StoreBackend, convey.ShouldEqual, "redis")
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "cache:6379")
				convey.So(cfg.RedisDB, convey.ShouldEqual, 3)
				convey.So(cfg.StorageKey, convey.ShouldEqual, "custom/log")
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 128)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When env vars and a file disagree", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nqueue_size: 10\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("HOBBYSEEDS_CONFIG", tmpFile)
			_ = os.Setenv("HOBBYSEEDS_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10)
			})
		})
	})
}

func TestConfigLoaderEdgeCases(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("HOBBYSEEDS_CONFIG", "/nonexistent/hobbyseeds.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail to load", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the config file is not YAML", func() {
			tmpFile := createTempConfigFile("addr: [unterminated")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("HOBBYSEEDS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail to load", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a number is malformed", func() {
			_ = os.Setenv("HOBBYSEEDS_QUEUE_SIZE", "lots")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail to load", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the loaded values are invalid", func() {
			_ = os.Setenv("HOBBYSEEDS_STORE_BACKEND", "floppy")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation rejects them", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"HOBBYSEEDS_CONFIG",
		"HOBBYSEEDS_ADDR",
		"HOBBYSEEDS_STORE_BACKEND",
		"HOBBYSEEDS_SQLITE_PATH",
		"HOBBYSEEDS_QUEUE_SIZE",
		"HOBBYSEEDS_RESULTS_PER_PAGE",
		"HOBBYSEEDS_RANDOM_SEED",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "hobbyseeds-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
