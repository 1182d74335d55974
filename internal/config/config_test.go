package config_test

import (
	"errors"
	"testing"

	"github.com/okian/realm/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.StorageDriver, convey.ShouldEqual, config.DriverFile)
			convey.So(cfg.StoragePath, convey.ShouldEqual, "realm.json")
			convey.So(cfg.HistoryKey, convey.ShouldEqual, "realmHistory")
			convey.So(cfg.DateLayout, convey.ShouldEqual, "1/2/2006")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WriteRate, convey.ShouldEqual, 50)
			convey.So(cfg.WriteBurst, convey.ShouldEqual, 100)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given the default config", t, func() {
		cfg := config.New()

		cases := []struct {
			name   string
			mutate func(*config.Config)
			msg    string
		}{
			{"empty addr", func(c *config.Config) { c.Addr = " " }, "addr must not be empty"},
			{"empty history key", func(c *config.Config) { c.HistoryKey = "" }, "history_key"},
			{"empty date layout", func(c *config.Config) { c.DateLayout = "" }, "date_layout"},
			{"zero queue", func(c *config.Config) { c.QueueSize = 0 }, "queue_size"},
			{"negative dedupe", func(c *config.Config) { c.DedupeSize = -1 }, "dedupe_size"},
			{"negative write rate", func(c *config.Config) { c.WriteRate = -1 }, "write_rate"},
			{"rate without burst", func(c *config.Config) { c.WriteBurst = 0 }, "write_burst"},
			{"unknown driver", func(c *config.Config) { c.StorageDriver = "redis" }, "unknown storage_driver"},
			{"sqlite without path", func(c *config.Config) {
				c.StorageDriver = config.DriverSQLite
				c.StoragePath = ""
			}, "storage_path is required"},
		}
		for _, tc := range cases {
			convey.Convey("When it has "+tc.name, func() {
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then it is rejected", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.msg)
				})
			})
		}

		convey.Convey("When the memory driver has no path", func() {
			cfg.StorageDriver = config.DriverMemory
			cfg.StoragePath = ""

			convey.Convey("Then it is accepted", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})
	})
}
