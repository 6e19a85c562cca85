package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/xenon/config"
)

func unsetForTest(key string) {
	old, had := os.LookupEnv(key)
	Expect(os.Unsetenv(key)).To(Succeed())

	DeferCleanup(func() {
		if had {
			os.Setenv(key, old)
		}
	})
}

var _ = Describe("Env", func() {
	var dir string

	BeforeEach(func() {
		unsetForTest(config.AladdinHomeVar)
		unsetForTest(config.TracerHomeVar)
		dir = GinkgoT().TempDir()
	})

	It("should read env files", func() {
		path := filepath.Join(dir, "tools.env")
		Expect(os.WriteFile(path, []byte(
			"ALADDIN_HOME=/opt/gem5/src/aladdin\nTRACER_HOME=/opt/tracer\n"),
			0644)).To(Succeed())

		env, err := config.LoadEnv(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(env.AladdinHome).To(Equal("/opt/gem5/src/aladdin"))
		Expect(env.TracerHome).To(Equal("/opt/tracer"))
	})

	It("should prefer the process environment", func() {
		path := filepath.Join(dir, "tools.env")
		Expect(os.WriteFile(path, []byte("TRACER_HOME=/opt/tracer\n"), 0644)).
			To(Succeed())
		Expect(os.Setenv(config.TracerHomeVar, "/usr/local/tracer")).
			To(Succeed())

		env, err := config.LoadEnv(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(env.TracerHome).To(Equal("/usr/local/tracer"))
	})

	It("should fail on missing env files", func() {
		_, err := config.LoadEnv(filepath.Join(dir, "missing.env"))
		Expect(err).To(HaveOccurred())
	})

	It("should report missing homes", func() {
		env := config.Env{}
		Expect(env.RequireAladdin()).To(MatchError(config.ErrNoAladdinHome))
		Expect(env.RequireTracer()).To(MatchError(config.ErrNoTracerHome))
	})

	It("should derive tool paths", func() {
		env := config.Env{AladdinHome: "/opt/gem5/src/aladdin"}

		Expect(env.AladdinBinary()).To(Equal("/opt/gem5/src/aladdin/common/aladdin"))
		Expect(env.Gem5Home()).To(Equal("/opt/gem5"))
		Expect(env.Gem5Binary()).To(Equal("/opt/gem5/build/X86/gem5.opt"))
		Expect(env.Gem5Script()).
			To(Equal("/opt/gem5/configs/aladdin/aladdin_se.py"))
	})
})
