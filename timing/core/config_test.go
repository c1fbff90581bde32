package core_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rv32sim/mem"
	"github.com/sarchlab/rv32sim/timing/core"
)

var _ = Describe("Config", func() {
	Describe("DefaultConfig", func() {
		It("should use the default memory-map capacities", func() {
			cfg := core.DefaultConfig()

			Expect(cfg.ROMCapacity).To(Equal(mem.DefaultROMCapacity))
			Expect(cfg.RAMCapacity).To(Equal(mem.DefaultRAMCapacity))
			Expect(cfg.MaxCycles).To(Equal(uint64(0)))
			Expect(cfg.ClockFreq).To(Equal(1 * sim.GHz))
		})

		It("should validate", func() {
			Expect(core.DefaultConfig().Validate()).To(Succeed())
		})
	})

	Describe("Validate", func() {
		It("should reject a non-power-of-two ROM capacity", func() {
			cfg := core.DefaultConfig()
			cfg.ROMCapacity = 1000

			Expect(cfg.Validate()).To(MatchError(ContainSubstring("rom_capacity")))
		})

		It("should reject a zero RAM capacity", func() {
			cfg := core.DefaultConfig()
			cfg.RAMCapacity = 0

			Expect(cfg.Validate()).To(MatchError(ContainSubstring("ram_capacity")))
		})

		It("should reject a non-positive clock frequency", func() {
			cfg := core.DefaultConfig()
			cfg.ClockFreq = 0

			Expect(cfg.Validate()).To(MatchError(ContainSubstring("clock_freq_hz")))
		})
	})

	Describe("LoadConfig", func() {
		It("should overlay file values onto the defaults", func() {
			path := filepath.Join(GinkgoT().TempDir(), "config.json")
			content := `{"rom_capacity": 65536, "max_cycles": 1000}`
			Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

			cfg, err := core.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.ROMCapacity).To(Equal(uint32(65536)))
			Expect(cfg.MaxCycles).To(Equal(uint64(1000)))
			// Untouched fields keep their defaults.
			Expect(cfg.RAMCapacity).To(Equal(mem.DefaultRAMCapacity))
			Expect(cfg.ClockFreq).To(Equal(1 * sim.GHz))
		})

		It("should report a missing file", func() {
			_, err := core.LoadConfig("/nonexistent/config.json")
			Expect(err).To(MatchError(ContainSubstring("failed to read config file")))
		})

		It("should report malformed JSON", func() {
			path := filepath.Join(GinkgoT().TempDir(), "bad.json")
			Expect(os.WriteFile(path, []byte("{not json"), 0o644)).To(Succeed())

			_, err := core.LoadConfig(path)
			Expect(err).To(MatchError(ContainSubstring("failed to parse config")))
		})

		It("should surface invalid values through NewSystem", func() {
			path := filepath.Join(GinkgoT().TempDir(), "config.json")
			Expect(os.WriteFile(path, []byte(`{"rom_capacity": 1000}`), 0o644)).To(Succeed())

			cfg, err := core.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())

			_, err = core.NewSystem(cfg)
			Expect(err).To(MatchError(ContainSubstring("invalid config")))
		})
	})
})
