package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/xenon/manifest"
	"github.com/sarchlab/xenon/sweep"
)

const aesSweep = `
name: aes_sweep
output_dir: %s
source_dir: %s
simulator: aladdin
benchmarks:
  - name: aes-aes
    sub_dir: aes/aes
    kernels: [aes256_encrypt_ecb]
    arrays:
      - {name: ctx, size: 96, word_length: 1}
      - {name: k, size: 32, word_length: 1}
    loops:
      - {function: aes256_encrypt_ecb, name: ecb1}
sweep:
  - {param: unrolling, start: 1, end: 4, step: 2, type: exp, short_name: unr}
  - {param: cycle_time, values: [1, 2]}
`

func writeSweepFile() (path, outDir string) {
	dir := GinkgoT().TempDir()
	outDir = filepath.Join(dir, "out")
	srcDir := filepath.Join(dir, "src")
	Expect(os.MkdirAll(srcDir, 0755)).To(Succeed())

	path = filepath.Join(dir, "aes.yaml")
	content := fmt.Sprintf(aesSweep, outDir, srcDir)
	Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())

	return path, outDir
}

var _ = Describe("generate", func() {
	var (
		sweepFile string
		outDir    string
		opts      generateOptions
	)

	BeforeEach(func() {
		sweepFile, outDir = writeSweepFile()

		envFile := filepath.Join(GinkgoT().TempDir(), "xenon.env")
		Expect(os.WriteFile(envFile,
			[]byte("ALADDIN_HOME=/opt/gem5-aladdin/src/aladdin\n"), 0644)).
			To(Succeed())

		opts = generateOptions{
			envFiles:     []string{envFile},
			manifestPath: filepath.Join(outDir, "points"),
		}
	})

	It("should write every job and record the manifest", func() {
		out := &bytes.Buffer{}

		err := runGenerate(context.Background(), sweepFile, opts, out)

		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(ContainSubstring("Wrote 6 jobs of 6 points"))

		for id := 0; id < 6; id++ {
			dir := filepath.Join(outDir, "aes-aes", fmt.Sprint(id))
			Expect(filepath.Join(dir, "aes-aes.cfg")).To(BeAnExistingFile())
			Expect(filepath.Join(dir, "run.sh")).To(BeAnExistingFile())
		}

		Expect(filepath.Join(outDir, "aes_sweep.con")).To(BeAnExistingFile())

		reader, err := manifest.NewReader(opts.manifestPath + ".sqlite3")
		Expect(err).NotTo(HaveOccurred())
		defer reader.Close()

		points, total, err := manifest.ReadPoints(
			context.Background(), reader, manifest.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(6))
		Expect(points[0].Sweep).To(Equal("aes_sweep"))
	})

	It("should only run the selected writers", func() {
		opts.writers = []string{"aladdin"}
		opts.noManifest = true

		err := runGenerate(context.Background(), sweepFile, opts, &bytes.Buffer{})

		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Join(outDir, "aes_sweep.con")).NotTo(BeAnExistingFile())
		Expect(opts.manifestPath + ".sqlite3").NotTo(BeAnExistingFile())
	})

	It("should reject unknown writers", func() {
		opts.writers = []string{"spice"}

		err := runGenerate(context.Background(), sweepFile, opts, &bytes.Buffer{})

		Expect(err).To(MatchError(ContainSubstring("unknown writer")))
	})

	It("should fail on a missing sweep file", func() {
		err := runGenerate(context.Background(), "missing.yaml", opts,
			&bytes.Buffer{})

		Expect(err).To(HaveOccurred())
	})

	It("should only warn about monitor ports that are set", func() {
		logs := &bytes.Buffer{}
		log.SetOutput(logs)
		defer log.SetOutput(os.Stderr)

		Expect(newMonitor(0)).NotTo(BeNil())
		Expect(logs.String()).To(BeEmpty())

		newMonitor(80)
		Expect(logs.String()).To(ContainSubstring("Port number 80"))
	})
})

var _ = Describe("expand", func() {
	var points []*sweep.Point

	BeforeEach(func() {
		path, _ := writeSweepFile()

		s, err := sweep.Load(path)
		Expect(err).NotTo(HaveOccurred())

		points, err = s.Expand()
		Expect(err).NotTo(HaveOccurred())
	})

	It("should print a table", func() {
		out := &bytes.Buffer{}

		Expect(printPoints(out, points, "table")).To(Succeed())

		Expect(out.String()).To(HavePrefix("INDEX"))
		Expect(out.String()).To(ContainSubstring("unr_4_cycle_time_2"))
	})

	It("should print CSV", func() {
		out := &bytes.Buffer{}

		Expect(printPoints(out, points, "csv")).To(Succeed())

		records, err := csv.NewReader(out).ReadAll()
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(7))
		Expect(records[1]).To(Equal([]string{
			"0", "unr_1_cycle_time_1", "unrolling=1,cycle_time=1",
		}))
	})

	It("should print JSON", func() {
		out := &bytes.Buffer{}

		Expect(printPoints(out, points, "json")).To(Succeed())

		var decoded []pointJSON
		Expect(json.Unmarshal(out.Bytes(), &decoded)).To(Succeed())
		Expect(decoded).To(HaveLen(6))
		Expect(decoded[3].Swept).To(Equal(map[string]string{
			"unr": "2", "cycle_time": "2",
		}))
	})
})

var _ = Describe("manifest", func() {
	It("should list recorded points", func() {
		path, _ := writeSweepFile()
		s, err := sweep.Load(path)
		Expect(err).NotTo(HaveOccurred())

		plan, err := s.Plan()
		Expect(err).NotTo(HaveOccurred())

		dbPath := filepath.Join(GinkgoT().TempDir(), "points")
		recorder := manifest.New(dbPath)
		manifest.Record(recorder, plan, "run0")
		Expect(recorder.Close()).To(Succeed())

		reader, err := manifest.NewReader(dbPath + ".sqlite3")
		Expect(err).NotTo(HaveOccurred())
		defer reader.Close()

		manifestOpts.limit = 2
		DeferCleanup(func() { manifestOpts.limit = 0 })

		out := &bytes.Buffer{}
		Expect(listManifest(context.Background(), reader, out)).To(Succeed())

		Expect(out.String()).To(ContainSubstring("unr_1_cycle_time_2"))
		Expect(out.String()).To(ContainSubstring("2 of 6 points listed"))
	})
})

var _ = Describe("suites", func() {
	It("should list the built-in benchmarks", func() {
		out := &bytes.Buffer{}

		listSuites(out)

		Expect(out.String()).To(ContainSubstring("cortexsuite"))
		Expect(out.String()).To(ContainSubstring("disparity"))
	})
})

var _ = Describe("mcpat", func() {
	It("should convert a stats file", func() {
		dir := GinkgoT().TempDir()

		files := map[string]string{
			"stats.txt": "---------- Begin Simulation Statistics ----------\n" +
				"system.cpu.numCycles 1500.7 # cycles\n" +
				"---------- End Simulation Statistics   ----------\n",
			"config.json": `{"system": {"cpu": [{"clock": [500]}]}}`,
			"template.xml": `<component name="root">` +
				`<param name="clock" value="config.system.cpu.clock"/>` +
				`<stat name="cycles" value="stats.system.cpu.numCycles"/>` +
				`</component>`,
		}

		for name, content := range files {
			Expect(os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)).
				To(Succeed())
		}

		out := &bytes.Buffer{}
		err := runMcpat(
			filepath.Join(dir, "stats.txt"),
			filepath.Join(dir, "config.json"),
			filepath.Join(dir, "template.xml"),
			mcpatOptions{dir: dir, out: "power.xml"},
			out)

		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(ContainSubstring("Reading config from"))

		xml, err := os.ReadFile(filepath.Join(dir, "power.xml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(xml)).To(ContainSubstring(`value="500"`))
		Expect(string(xml)).To(ContainSubstring(`value="1500"`))
	})
})
