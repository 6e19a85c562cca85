// Package config locates the external tools that the generated sweeps run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	AladdinHomeVar = "ALADDIN_HOME"
	TracerHomeVar  = "TRACER_HOME"
)

var (
	// ErrNoAladdinHome is returned when ALADDIN_HOME is not set.
	ErrNoAladdinHome = errors.New(AladdinHomeVar + " is not set")

	// ErrNoTracerHome is returned when TRACER_HOME is not set.
	ErrNoTracerHome = errors.New(TracerHomeVar + " is not set")
)

// Env holds the tool locations.
type Env struct {
	AladdinHome string
	TracerHome  string
}

// LoadEnv reads the tool locations from the process environment, falling
// back to the given .env files. Without files, ./.env is used if it exists.
// Variables already set in the environment win over the files.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			files = []string{".env"}
		}
	}

	fromFiles := map[string]string{}
	if len(files) > 0 {
		var err error
		fromFiles, err = godotenv.Read(files...)
		if err != nil {
			return Env{}, fmt.Errorf("failed to read env files: %w", err)
		}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fromFiles[key]
	}

	return Env{
		AladdinHome: lookup(AladdinHomeVar),
		TracerHome:  lookup(TracerHomeVar),
	}, nil
}

// RequireAladdin checks that the Aladdin home is known.
func (e Env) RequireAladdin() error {
	if e.AladdinHome == "" {
		return ErrNoAladdinHome
	}

	return nil
}

// RequireTracer checks that the tracer home is known.
func (e Env) RequireTracer() error {
	if e.TracerHome == "" {
		return ErrNoTracerHome
	}

	return nil
}

// AladdinBinary is the standalone accelerator simulator.
func (e Env) AladdinBinary() string {
	return filepath.Join(e.AladdinHome, "common", "aladdin")
}

// Gem5Home is the gem5 checkout that hosts Aladdin under src/aladdin.
func (e Env) Gem5Home() string {
	home := filepath.Join(e.AladdinHome, "..", "..")

	abs, err := filepath.Abs(home)
	if err != nil {
		return home
	}

	return abs
}

// Gem5Binary is the gem5 executable.
func (e Env) Gem5Binary() string {
	return filepath.Join(e.Gem5Home(), "build", "X86", "gem5.opt")
}

// Gem5Script is the gem5 configuration script for accelerated systems.
func (e Env) Gem5Script() string {
	return filepath.Join(e.Gem5Home(), "configs", "aladdin", "aladdin_se.py")
}
