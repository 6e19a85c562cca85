// Package suites holds the built-in benchmark suite definitions.
package suites

import (
	"sort"

	"github.com/sarchlab/xenon/benchmark"
	"github.com/sarchlab/xenon/params"
)

var registry = map[string]func() []*benchmark.Benchmark{
	"cortexsuite":         cortexSuite,
	"cortexsuite-kernels": cortexSuiteKernels,
	"perfect":             perfectSuite,
}

// Names returns the names of the built-in suites in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Get returns fresh copies of the benchmarks of a suite.
func Get(name string) ([]*benchmark.Benchmark, bool) {
	f, ok := registry[name]
	if !ok {
		return nil, false
	}

	return f(), true
}

func cortexSuite() []*benchmark.Benchmark {
	disparity := benchmark.New("disparity", "disparity/src/c")
	disparity.SetKernels(
		"computeSAD", "integralImage2D2D", "finalSAD", "findDisparity")
	disparity.SetMainID(0x1f0)

	disparity.AddLoop("computeSAD", "outer")
	disparity.AddLoop("computeSAD", "inner")
	disparity.AddArray("Ileft", 29810, 4)
	disparity.AddArray("Iright_moved", 29810, 4)
	disparity.AddArray("SAD", 29810, 4)

	disparity.AddLoop("integralImage2D2D", "loop1")
	disparity.AddLoop("integralImage2D2D", "loop2_outer")
	disparity.AddLoop("integralImage2D2D", "loop2_inner")
	disparity.AddLoop("integralImage2D2D", "loop3_outer")
	disparity.AddLoop("integralImage2D2D", "loop3_inner")
	disparity.AddArray("integralImg", 29810, 4)

	disparity.AddLoop("finalSAD", "outer")
	disparity.AddLoop("finalSAD", "inner")
	disparity.AddArray("retSAD", 27106, 4)

	disparity.AddLoop("findDisparity", "outer")
	disparity.AddLoop("findDisparity", "inner")
	disparity.AddArray("minSAD", 27106, 4)
	disparity.AddArray("retDisp", 27106, 4)

	disparity.AddRequiredFiles("../../data/qcif/1.bmp", "../../data/qcif/2.bmp")
	disparity.SetExecCmd("disparity-gem5-accel")
	disparity.SetRunArgs(".")

	return []*benchmark.Benchmark{disparity}
}

type kernelDef struct {
	name   string
	lines  []int
	arrays []string
}

func cortexSuiteKernels() []*benchmark.Benchmark {
	sizes := map[string]int64{
		"Ileft":        27770,
		"Iright_moved": 27770,
		"SAD":          27770,
		"integralImg":  27770,
		"retSAD":       27106,
		"minSAD":       27106,
		"retDisp":      27106,
	}

	defs := []kernelDef{
		{"computeSAD", []int{16, 18},
			[]string{"Ileft", "Iright_moved", "SAD"}},
		{"integralImage2D2D", []int{16, 19, 20, 25, 26},
			[]string{"SAD", "integralImg"}},
		{"correlateSAD_2D", []int{27},
			[]string{"Ileft", "Iright_moved", "SAD", "integralImg", "retSAD"}},
		{"finalSAD", []int{18, 20},
			[]string{"integralImg", "retSAD"}},
		{"findDisparity", []int{16, 18},
			[]string{"retSAD", "minSAD", "retDisp"}},
	}

	var out []*benchmark.Benchmark
	for _, d := range defs {
		b := benchmark.New(d.name, "disparity/src/c/"+d.name)
		b.SetKernels(d.name)

		for _, line := range d.lines {
			b.AddLoopAt(d.name, "", line, benchmark.AlwaysUnroll)
		}

		for _, a := range d.arrays {
			b.AddArray(a, sizes[a], 4)
		}

		b.UseLocalMakefile()
		out = append(out, b)
	}

	return out
}

func perfectSuite() []*benchmark.Benchmark {
	lk := benchmark.New("lucas-kanade", "wami/kernels/ser/lucas-kanade/src/main")
	lk.SetKernels("steepest_descent_shadow")

	lk.AddLoopAt("steepest_descent_shadow", "", 90, benchmark.UnrollOne)
	lk.AddLoopAt("steepest_descent_shadow", "", 91, benchmark.AlwaysUnroll)
	lk.AddLoopAt("steepest_descent_shadow", "", 102, benchmark.UnrollFlatten)

	lk.AddHostArray("gradX_warped", 101736, 4).MemoryType = params.Cache
	lk.AddHostArray("gradY_warped", 101736, 4).MemoryType = params.Cache
	lk.AddArray("changeset", 25344, 4)
	lk.AddHostArray("I_steepest", 608256, 4).MemoryType = params.Cache
	lk.AddArray("Jacobian_x", 24, 4).PartitionType = params.Complete
	lk.AddArray("Jacobian_y", 24, 4).PartitionType = params.Complete

	lk.SetExecCmd(
		"%(source_dir)s/wami/kernels/ser/lucas-kanade/lucas-kanade-gem5")
	lk.SetRunArgs("%(source_dir)s/../data/qcif frame .mat 1 10 " +
		"--shadow --blocked")
	lk.SetMainID(0x290)
	lk.UseLocalMakefile()

	return []*benchmark.Benchmark{lk}
}
