package writer_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/xenon/params"
	"github.com/sarchlab/xenon/sweep"
	"github.com/sarchlab/xenon/writer"
)

var _ = Describe("CondorWriter", func() {
	It("should apply to every simulator", func() {
		w := writer.NewCondorWriter()

		for _, sim := range []string{sweep.Aladdin, sweep.Gem5CPU, sweep.Gem5Cache} {
			Expect(w.IsApplicable(newTestPlan(sim).Sweep)).To(BeTrue())
		}
	})

	It("should queue every job", func() {
		plan := newTestPlan(sweep.Aladdin, &sweep.Param{
			Name:   params.Unrolling,
			Values: []string{"1", "2"},
		})
		w := writer.NewCondorWriter()

		Expect(writer.Run([]writer.ConfigWriter{w}, plan, nil)).To(Succeed())

		content, err := os.ReadFile(
			filepath.Join(plan.Sweep.OutputDir, "fft_sweep.con"))
		Expect(err).NotTo(HaveOccurred())

		j := plan.Jobs[1]
		Expect(string(content)).To(HavePrefix(
			"#Submit this file in the directory where the input and output " +
				"files live\nUniverse        = vanilla\n"))
		Expect(string(content)).To(ContainSubstring(
			"Executable = /bin/bash\n\nInitialDir = "))
		Expect(string(content)).To(HaveSuffix(
			"InitialDir = " + j.Dir + "\n" +
				"Arguments = " + filepath.Join(j.Dir, "run.sh") + "\n" +
				"Log = " + filepath.Join(j.Dir, "log") + "\n" +
				"Queue\n\n"))
		Expect(j.Dir).To(BeADirectory())
	})
})
