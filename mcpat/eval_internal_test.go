package mcpat

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = DescribeTable("evaluate",
	func(expr, formatted, truncated string) {
		v, err := evaluate(expr)
		Expect(err).NotTo(HaveOccurred())
		Expect(formatValue(v)).To(Equal(formatted))
		Expect(truncate(v)).To(Equal(truncated))
	},
	Entry("integer", "42", "42", "42"),
	Entry("integer division", "7/2", "3", "3"),
	Entry("float division", "7.0/2", "3.5", "3"),
	Entry("whole float", "2.0*3", "6.0", "6"),
	Entry("negative fraction", "-1.0/2", "-0.5", "0"),
	Entry("large float", "1e20", "1e+20", "100000000000000000000"),
	Entry("small float", "0.00001", "1e-05", "0"),
	Entry("spaces", " 1 + 2 ", "3", "3"),
	Entry("bool", "True", "True", "1"),
	Entry("bool arithmetic", "True + 1", "2", "2"),
	Entry("floored division", "-7/2", "-4", "-4"),
	Entry("floored division by a negative", "7/-2", "-4", "-4"),
	Entry("exact negative division", "-8/2", "-4", "-4"),
	Entry("floored modulo", "-7 % 3", "2", "2"),
	Entry("modulo by a negative", "7 % -3", "-2", "-2"),
	Entry("mixed division", "-7/2.0", "-3.5", "-3"),
	Entry("twelve digits", "1/3.0", "0.333333333333", "0"),
	Entry("rounded repr", "0.1+0.2", "0.3", "0"),
	Entry("whole float with twelve digits", "123456789012.0",
		"123456789012.0", "123456789012"),
	Entry("exponent past twelve digits", "1234567890123.0",
		"1.23456789012e+12", "1234567890123"),
	Entry("nested parentheses", "(2 + (3 * 4)) / 5", "2", "2"),
)

var _ = Describe("evaluate errors", func() {
	It("should report division by zero", func() {
		_, err := evaluate("1/0")
		Expect(err).To(MatchError(errDivisionByZero))
	})

	It("should report float division by zero", func() {
		_, err := evaluate("1.5/(2-2)")
		Expect(err).To(MatchError(errDivisionByZero))
	})

	It("should report modulo by zero", func() {
		_, err := evaluate("7 % 0")
		Expect(err).To(MatchError(errDivisionByZero))
	})

	It("should reject names", func() {
		_, err := evaluate("DerivO3CPU")
		Expect(err).To(HaveOccurred())
	})

	It("should reject strings and calls", func() {
		_, err := evaluate(`"cache"`)
		Expect(err).To(HaveOccurred())

		_, err = evaluate("max(1, 2)")
		Expect(err).To(HaveOccurred())
	})
})
