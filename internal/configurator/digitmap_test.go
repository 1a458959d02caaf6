package configurator

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/onvacation-ocr/internal/extraction"
)

var _ = Describe("ParseDigitMap", func() {
	It("should read from=to pairs", func() {
		digits, err := ParseDigitMap("8=3, 7=1")
		Expect(err).NotTo(HaveOccurred())
		Expect(digits).To(Equal(map[string]any{"8": "3", "7": "1"}))
	})

	It("should accept an empty value", func() {
		digits, err := ParseDigitMap("")
		Expect(err).NotTo(HaveOccurred())
		Expect(digits).To(BeEmpty())
	})

	It("should reject a pair without a target", func() {
		_, err := ParseDigitMap("8=3,9")
		Expect(err).To(MatchError(ContainSubstring(`"9"`)))
	})
})

var _ = Describe("BuildConfig", func() {
	It("should decode the flag values", func() {
		cfg, err := BuildConfig(9, "9=4")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.MaxValue).To(Equal(9))
		Expect(cfg.DigitMap).To(Equal(map[int]int{9: 4}))
	})

	It("should report a non-numeric digit as a config error", func() {
		_, err := BuildConfig(6, "x=3")
		var cfgErr *extraction.ConfigError
		Expect(err).To(BeAssignableToTypeOf(cfgErr))
		Expect(err.Error()).To(ContainSubstring("digit_map.x"))
	})
})
