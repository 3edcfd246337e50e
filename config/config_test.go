package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/sm213/config"
)

var _ = Describe("MachineConfig", func() {
	It("should create a valid default config", func() {
		c := config.DefaultConfig()

		Expect(c.Validate()).To(Succeed())
		Expect(c.MemorySize).To(Equal(1 << 20))
		Expect(c.Frequency()).To(Equal(1000 * sim.MHz))
	})

	DescribeTable("Validation",
		func(change func(*config.MachineConfig), field string) {
			c := config.DefaultConfig()
			change(c)

			err := c.Validate()

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(field))
		},
		Entry("zero memory", func(c *config.MachineConfig) { c.MemorySize = 0 }, "memory_size"),
		Entry("negative memory", func(c *config.MachineConfig) { c.MemorySize = -4 }, "memory_size"),
		Entry("entry outside memory", func(c *config.MachineConfig) { c.EntryPoint = 1 << 20 }, "entry_point"),
		Entry("zero clock", func(c *config.MachineConfig) { c.ClockMHz = 0 }, "clock_mhz"),
		Entry("missing timing", func(c *config.MachineConfig) { c.Timing = nil }, "timing"),
		Entry("bad timing", func(c *config.MachineConfig) { c.Timing.LoadLatency = 0 }, "load_latency"),
	)

	Describe("File Operations", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "config-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should save and load config", func() {
			original := config.DefaultConfig()
			original.MemorySize = 4096
			original.MaxInstructions = 100
			original.Timing.StoreLatency = 3

			path := filepath.Join(tempDir, "machine.json")
			Expect(original.SaveConfig(path)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(original))
		})

		It("should keep defaults for missing fields", func() {
			path := filepath.Join(tempDir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"memory_size": 256, "timing": {"jump_latency": 2}}`), 0644)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.MemorySize).To(Equal(256))
			Expect(loaded.ClockMHz).To(Equal(1000.0))
			Expect(loaded.Timing.JumpLatency).To(Equal(uint64(2)))
			Expect(loaded.Timing.ALULatency).To(Equal(uint64(1)))
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			Expect(os.WriteFile(path, []byte("{"), 0644)).To(Succeed())

			_, err := config.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})

		It("should return error for non-existent file", func() {
			_, err := config.LoadConfig(filepath.Join(tempDir, "missing.json"))
			Expect(err).To(HaveOccurred())
		})
	})
})
