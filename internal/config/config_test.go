package config_test

import (
	"os"
	"path"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/backbone81/record-log/internal/config"
)

var _ = Describe("Config", func() {
	var dir string
	var configPath string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "test-config-*")
		Expect(err).ToNot(HaveOccurred())
		configPath = path.Join(dir, "config.yaml")
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	It("should provide a valid default configuration", func() {
		defaultConfig := config.DefaultConfig()
		Expect(defaultConfig.Validate()).To(Succeed())
		Expect(defaultConfig.SyncPolicy).To(Equal("immediate"))
		Expect(defaultConfig.WriterOptions()).To(HaveLen(1))
	})

	It("should load a configuration file", func() {
		Expect(os.WriteFile(configPath, []byte(`
file: /var/lib/app/wal
sync_policy: periodic
sync_after_flushes: 50
sync_every: 250ms
`), 0o600)).To(Succeed())

		loaded, err := config.LoadConfig(configPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(loaded).To(Equal(&config.Config{
			File:             "/var/lib/app/wal",
			SyncPolicy:       "periodic",
			SyncAfterFlushes: 50,
			SyncEvery:        250 * time.Millisecond,
		}))
	})

	It("should keep defaults for missing settings", func() {
		Expect(os.WriteFile(configPath, []byte("sync_policy: none\n"), 0o600)).To(Succeed())

		loaded, err := config.LoadConfig(configPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(loaded.SyncPolicy).To(Equal("none"))
		Expect(loaded.File).To(Equal(config.DefaultConfig().File))
		Expect(loaded.SyncEvery).To(Equal(config.DefaultConfig().SyncEvery))
	})

	It("should fail for a missing file", func() {
		Expect(config.LoadConfig(configPath)).Error().To(MatchError(os.ErrNotExist))
	})

	It("should fail for malformed YAML", func() {
		Expect(os.WriteFile(configPath, []byte("file: [unterminated\n"), 0o600)).To(Succeed())
		Expect(config.LoadConfig(configPath)).Error().To(HaveOccurred())
	})

	DescribeTable("should reject invalid settings",
		func(modify func(c *config.Config)) {
			invalid := config.DefaultConfig()
			modify(invalid)
			Expect(invalid.Validate()).To(MatchError(config.ErrInvalidConfig))
		},
		Entry("empty file", func(c *config.Config) { c.File = "" }),
		Entry("unknown sync policy", func(c *config.Config) { c.SyncPolicy = "grouped" }),
		Entry("no flushes for periodic", func(c *config.Config) {
			c.SyncPolicy = "periodic"
			c.SyncAfterFlushes = 0
		}),
		Entry("no interval for periodic", func(c *config.Config) {
			c.SyncPolicy = "periodic"
			c.SyncEvery = 0
		}),
	)

	It("should reject an unknown sync policy when creating writer options", func() {
		invalid := config.DefaultConfig()
		invalid.SyncPolicy = "grouped"
		Expect(invalid.WriterOptions()).Error().To(HaveOccurred())
	})
})
