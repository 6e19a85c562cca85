package generator_test

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/xenon/benchmark"
	"github.com/sarchlab/xenon/config"
	"github.com/sarchlab/xenon/generator"
	"github.com/sarchlab/xenon/sweep"
)

func newTestSweep() *sweep.Sweep {
	return &sweep.Sweep{
		Name:      "traces",
		OutputDir: GinkgoT().TempDir(),
		SourceDir: GinkgoT().TempDir(),
		Benchmarks: []*benchmark.Benchmark{
			benchmark.New("gemm", "gemm/ncubed"),
			benchmark.New("spmv", "spmv/crs"),
		},
	}
}

func produceTrace(_ context.Context, dir, _ string, _ io.Writer) error {
	return os.WriteFile(
		filepath.Join(dir, generator.DynamicTrace), []byte("trace"), 0644)
}

var _ = Describe("TraceGenerator", func() {
	var (
		ctx      context.Context
		mockCtrl *gomock.Controller
		runner   *MockRunner
		env      config.Env
		s        *sweep.Sweep
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockCtrl = gomock.NewController(GinkgoT())
		runner = NewMockRunner(mockCtrl)
		env = config.Env{TracerHome: "/opt/tracer"}
		s = newTestSweep()

		for _, b := range s.Benchmarks {
			dir := filepath.Join(s.SourceDir, b.SubDir)
			Expect(os.MkdirAll(dir, 0755)).To(Succeed())
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should need the tracer home", func() {
		g := generator.NewTraceGenerator(runner, config.Env{}, false)

		_, err := g.Generate(ctx, s)
		Expect(err).To(MatchError(config.ErrNoTracerHome))
	})

	It("should build, run, and move the traces", func() {
		for _, b := range s.Benchmarks {
			dir := filepath.Join(s.SourceDir, b.SubDir)
			gomock.InOrder(
				runner.EXPECT().Run(ctx, dir, "clean-trace", gomock.Any()),
				runner.EXPECT().Run(ctx, dir, "trace-binary", gomock.Any()),
				runner.EXPECT().Run(ctx, dir, "run-trace", gomock.Any()).
					DoAndReturn(produceTrace),
				runner.EXPECT().Run(ctx, dir, "clean-trace", gomock.Any()),
			)
		}

		g := generator.NewTraceGenerator(runner, env, false)
		traces, err := g.Generate(ctx, s)

		Expect(err).NotTo(HaveOccurred())
		Expect(traces).To(Equal([]string{
			filepath.Join(s.OutputDir, "gemm", "inputs", "dynamic_trace.gz"),
			filepath.Join(s.OutputDir, "spmv", "inputs", "dynamic_trace.gz"),
		}))
		Expect(traces[0]).To(BeAnExistingFile())
		Expect(filepath.Join(s.SourceDir, "gemm/ncubed", "dynamic_trace.gz")).
			NotTo(BeAnExistingFile())
	})

	It("should build DMA binaries", func() {
		runner.EXPECT().
			Run(ctx, gomock.Any(), "dma-trace-binary", gomock.Any()).
			Times(2)
		runner.EXPECT().
			Run(ctx, gomock.Any(), "run-trace", gomock.Any()).
			DoAndReturn(produceTrace).
			Times(2)
		runner.EXPECT().
			Run(ctx, gomock.Any(), "clean-trace", gomock.Any()).
			Times(4)

		g := generator.NewTraceGenerator(runner, env, true)
		Expect(g.Name()).To(Equal(sweep.GenerateDMATrace))

		traces, err := g.Generate(ctx, s)
		Expect(err).NotTo(HaveOccurred())
		Expect(traces).To(HaveLen(2))
	})

	It("should skip benchmarks that fail to build", func() {
		gemm := filepath.Join(s.SourceDir, "gemm/ncubed")
		spmv := filepath.Join(s.SourceDir, "spmv/crs")

		runner.EXPECT().Run(ctx, gemm, "clean-trace", gomock.Any())
		runner.EXPECT().Run(ctx, gemm, "trace-binary", gomock.Any()).
			Return(errors.New("undefined reference"))

		runner.EXPECT().Run(ctx, spmv, "clean-trace", gomock.Any()).Times(2)
		runner.EXPECT().Run(ctx, spmv, "trace-binary", gomock.Any())
		runner.EXPECT().Run(ctx, spmv, "run-trace", gomock.Any()).
			DoAndReturn(produceTrace)

		g := generator.NewTraceGenerator(runner, env, false)
		traces, err := g.Generate(ctx, s)

		Expect(err).NotTo(HaveOccurred())
		Expect(traces).To(HaveLen(1))
		Expect(traces[0]).To(ContainSubstring("spmv"))
	})
})

var _ = Describe("Gem5BinaryGenerator", func() {
	var (
		ctx      context.Context
		mockCtrl *gomock.Controller
		runner   *MockRunner
		env      config.Env
		s        *sweep.Sweep
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockCtrl = gomock.NewController(GinkgoT())
		runner = NewMockRunner(mockCtrl)
		env = config.Env{TracerHome: "/opt/tracer"}
		s = newTestSweep()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should build both binaries of every benchmark", func() {
		for _, b := range s.Benchmarks {
			dir := filepath.Join(s.SourceDir, b.SubDir)
			gomock.InOrder(
				runner.EXPECT().Run(ctx, dir, "clean-gem5", gomock.Any()),
				runner.EXPECT().Run(ctx, dir, "gem5-cpu", gomock.Any()),
				runner.EXPECT().Run(ctx, dir, "gem5-accel", gomock.Any()),
			)
		}

		g := generator.NewGem5BinaryGenerator(runner, env)
		binaries, err := g.Generate(ctx, s)

		Expect(err).NotTo(HaveOccurred())
		Expect(binaries).To(Equal([]string{
			"gemm-gem5", "gemm-gem5-accel", "spmv-gem5", "spmv-gem5-accel",
		}))
	})

	It("should abort with the build log on failure", func() {
		runner.EXPECT().Run(ctx, gomock.Any(), "clean-gem5", gomock.Any())
		runner.EXPECT().Run(ctx, gomock.Any(), "gem5-cpu", gomock.Any()).
			DoAndReturn(func(
				_ context.Context, _, _ string, out io.Writer,
			) error {
				_, err := out.Write([]byte("gemm.c:12: error\n"))
				Expect(err).NotTo(HaveOccurred())
				return errors.New("exit status 2")
			})

		g := generator.NewGem5BinaryGenerator(runner, env)
		_, err := g.Generate(ctx, s)

		Expect(err).To(MatchError(ContainSubstring("non-accelerated")))
		Expect(err).To(MatchError(ContainSubstring("xenon_gem5_build_")))
	})
})

var _ = Describe("MakeRunner", func() {
	It("should report failing targets", func() {
		if _, err := exec.LookPath("false"); err != nil {
			Skip("false is not available")
		}

		r := generator.MakeRunner{Make: "false"}
		err := r.Run(context.Background(), GinkgoT().TempDir(), "all", io.Discard)

		Expect(err).To(MatchError(ContainSubstring("make all")))
	})

	It("should run targets in the given directory", func() {
		if _, err := exec.LookPath("true"); err != nil {
			Skip("true is not available")
		}

		r := generator.MakeRunner{Make: "true"}
		Expect(r.Run(context.Background(), GinkgoT().TempDir(), "all",
			io.Discard)).To(Succeed())
	})
})

var _ = Describe("ForSweep", func() {
	It("should follow the generate steps", func() {
		s := &sweep.Sweep{Generate: []string{
			sweep.GenerateGem5Binary, sweep.GenerateTrace,
		}}

		gens := generator.ForSweep(s, generator.MakeRunner{}, config.Env{})

		Expect(gens).To(HaveLen(2))
		Expect(gens[0].Name()).To(Equal(sweep.GenerateGem5Binary))
		Expect(gens[1].Name()).To(Equal(sweep.GenerateTrace))
	})
})
