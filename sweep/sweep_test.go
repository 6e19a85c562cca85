package sweep_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/xenon/benchmark"
	"github.com/sarchlab/xenon/params"
	"github.com/sarchlab/xenon/sweep"
)

func newTestBenchmark() *benchmark.Benchmark {
	b := benchmark.New("fft", "fft/strided")
	b.SetKernels("fft", "twiddles")
	b.AddArray("real", 1024, 8)
	b.AddArray("img", 1024, 8)
	b.AddLoop("fft", "outer")
	b.AddLoop("twiddles", "inner")

	return b
}

func newTestSweep() *sweep.Sweep {
	return &sweep.Sweep{
		Name:       "fft_sweep",
		OutputDir:  "out",
		Simulator:  sweep.Aladdin,
		Benchmarks: []*benchmark.Benchmark{newTestBenchmark()},
	}
}

var _ = Describe("Sweep", func() {
	var s *sweep.Sweep

	BeforeEach(func() {
		s = newTestSweep()
	})

	It("should produce a single default point without params", func() {
		points, err := s.Expand()
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(1))
		Expect(points[0].Label()).To(Equal("default"))
	})

	It("should enumerate the cartesian product in order", func() {
		s.Params = []*sweep.Param{
			{Name: params.Unrolling, Start: "1", End: "4", Step: 2,
				StepType: sweep.ExpSweep, ShortName: "unr"},
			{Name: params.Pipelining, Start: "0", End: "1", Step: 1,
				StepType: sweep.LinearSweep, ShortName: "pipe"},
		}

		points, err := s.Expand()
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(6))

		labels := []string{}
		for i, p := range points {
			Expect(p.Index).To(Equal(i))
			labels = append(labels, p.Label())
		}
		Expect(labels).To(Equal([]string{
			"unr_1_pipe_0", "unr_1_pipe_1",
			"unr_2_pipe_0", "unr_2_pipe_1",
			"unr_4_pipe_0", "unr_4_pipe_1",
		}))
	})

	It("should put constant settings before swept values", func() {
		s.Settings = []sweep.Setting{
			{Param: params.Unrolling, Value: "16"},
			{Param: params.MemoryType, Value: "cache"},
		}
		s.Params = []*sweep.Param{
			{Name: params.Unrolling, Values: []string{"2", "4"},
				Target: "fft.fft"},
		}

		points, err := s.Expand()
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(2))

		a := points[1].Assignments
		Expect(a).To(HaveLen(3))
		Expect(a[0].Value.Int()).To(Equal(int64(16)))
		Expect(a[2].Target).To(Equal("fft.fft"))
		Expect(a[2].Value.Int()).To(Equal(int64(4)))

		Expect(points[0].Value(params.MemoryType).String()).To(Equal("cache"))
	})

	It("should give linked params the value of their leader", func() {
		s.Params = []*sweep.Param{
			{Name: params.Unrolling, Start: "1", End: "4", Step: 2,
				StepType: sweep.ExpSweep, ShortName: "unr"},
			{Name: params.PartitionFactor, LinkWith: "unr",
				ShortName: "part"},
		}

		points, err := s.Expand()
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(3))

		for _, p := range points {
			last := p.Assignments[len(p.Assignments)-1]
			Expect(last.Param).To(Equal(params.PartitionFactor))
			Expect(last.Value).To(Equal(p.Assignments[0].Value))
		}
	})

	It("should follow link chains", func() {
		s.Params = []*sweep.Param{
			{Name: params.Unrolling, Values: []string{"2", "8"}},
			{Name: params.PartitionFactor, LinkWith: "unrolling"},
			{Name: params.CacheAssoc, LinkWith: "partition_factor"},
		}

		points, err := s.Expand()
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(2))
		Expect(points[1].Assignments[2].Param).To(Equal(params.CacheAssoc))
		Expect(points[1].Assignments[2].Value.Int()).To(Equal(int64(8)))
	})

	It("should link by parameter name when the leader has a short name", func() {
		s.Params = []*sweep.Param{
			{Name: params.Unrolling, Start: "1", End: "4", Step: 2,
				StepType: sweep.ExpSweep, ShortName: "unr"},
			{Name: params.PartitionFactor, LinkWith: "unrolling"},
		}

		points, err := s.Expand()
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(3))
		Expect(points[2].Label()).To(Equal("unr_4"))
		Expect(points[2].Assignments[1].Param).To(Equal(params.PartitionFactor))
		Expect(points[2].Assignments[1].Value.Int()).To(Equal(int64(4)))
	})

	It("should reject links to a name shared by several params", func() {
		s.Params = []*sweep.Param{
			{Name: params.Unrolling, Values: []string{"1", "2"},
				Target: "fft.fft", ShortName: "unr_fft"},
			{Name: params.Unrolling, Values: []string{"1", "2"},
				Target: "fft.twiddles", ShortName: "unr_tw"},
			{Name: params.PartitionFactor, LinkWith: "unrolling"},
		}

		_, err := s.Expand()
		Expect(err).To(MatchError(ContainSubstring("names 2 params")))
	})

	It("should detect a param linking with itself", func() {
		s.Params = []*sweep.Param{
			{Name: params.PartitionFactor, LinkWith: "partition_factor"},
		}

		_, err := s.Expand()
		Expect(err).To(MatchError(ContainSubstring("cycle")))
	})

	It("should detect link cycles", func() {
		s.Params = []*sweep.Param{
			{Name: params.Unrolling, LinkWith: "partition_factor"},
			{Name: params.PartitionFactor, LinkWith: "unrolling"},
		}

		_, err := s.Expand()
		Expect(err).To(MatchError(ContainSubstring("cycle")))
	})

	It("should reject links to unknown params", func() {
		s.Params = []*sweep.Param{
			{Name: params.PartitionFactor, LinkWith: "unr"},
		}

		_, err := s.Expand()
		Expect(err).To(MatchError(ContainSubstring("unknown param unr")))
	})

	It("should reject links across kinds", func() {
		s.Params = []*sweep.Param{
			{Name: params.Unrolling, Values: []string{"2"}},
			{Name: params.PartitionType, LinkWith: "unrolling"},
		}

		_, err := s.Expand()
		Expect(err).To(HaveOccurred())
	})

	It("should sweep per-kernel params independently per kernel", func() {
		s.Params = []*sweep.Param{
			{Name: params.Unrolling, Values: []string{"1", "2"},
				PerKernel: true, ShortName: "unr"},
		}

		points, err := s.Expand()
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(4))
		Expect(points[1].Label()).To(Equal("unr@fft_1_unr@twiddles_2"))
		Expect(points[1].Assignments[0].Target).To(Equal("fft.fft"))
		Expect(points[1].Assignments[1].Target).To(Equal("fft.twiddles"))
	})

	It("should not link to per-kernel params", func() {
		s.Params = []*sweep.Param{
			{Name: params.Unrolling, Values: []string{"1"}, PerKernel: true},
			{Name: params.PartitionFactor, LinkWith: "unrolling"},
		}

		_, err := s.Expand()
		Expect(err).To(MatchError(ContainSubstring("per-kernel")))
	})

	Context("when validating", func() {
		It("should accept a complete sweep", func() {
			Expect(s.Validate(false)).To(Succeed())
		})

		It("should report every problem", func() {
			s.Name = ""
			s.Simulator = "gem6"
			s.Generate = []string{"bitstream"}
			s.Settings = []sweep.Setting{
				{Param: params.Unrolling, Target: "fft.nothing", Value: "2"},
			}
			s.Params = []*sweep.Param{{Name: "warp_size"}}

			err := s.Validate(false)
			Expect(err).To(MatchError(ContainSubstring("no name")))
			Expect(err).To(MatchError(ContainSubstring("gem6")))
			Expect(err).To(MatchError(ContainSubstring("bitstream")))
			Expect(err).To(MatchError(ContainSubstring("fft.nothing")))
			Expect(err).To(MatchError(ContainSubstring("warp_size")))
		})

		It("should reject parameters on objects they do not apply to", func() {
			s.Settings = []sweep.Setting{
				{Param: params.Unrolling, Target: "fft.real", Value: "2"},
				{Param: params.CycleTime, Target: "fft.fft.outer", Value: "2"},
			}
			s.Params = []*sweep.Param{{
				Name:   params.PartitionFactor,
				Values: []string{"2"},
				Target: "fft.twiddles.inner",
			}}

			err := s.Validate(false)
			Expect(err).To(MatchError(ContainSubstring(
				"parameter unrolling does not apply to target fft.real")))
			Expect(err).To(MatchError(ContainSubstring(
				"parameter cycle_time does not apply to target fft.fft.outer")))
			Expect(err).To(MatchError(ContainSubstring(
				"parameter partition_factor does not apply to target " +
					"fft.twiddles.inner")))
		})

		It("should accept loop and array parameters on functions", func() {
			s.Settings = []sweep.Setting{
				{Param: params.Unrolling, Target: "fft.fft", Value: "2"},
				{Param: params.PartitionType, Target: "fft", Value: "block"},
			}

			Expect(s.Validate(false)).To(Succeed())
		})

		It("should check the source directory", func() {
			s.SourceDir = "/nonexistent/xenon/source"
			Expect(s.Validate(true)).To(MatchError(
				ContainSubstring("does not exist")))
		})
	})

	It("should tell requested generate steps", func() {
		s.Generate = []string{sweep.GenerateTrace}
		Expect(s.Generates(sweep.GenerateTrace)).To(BeTrue())
		Expect(s.Generates(sweep.GenerateGem5Binary)).To(BeFalse())
	})
})
