package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/klauern/vendorjs/internal/logging"
	"github.com/klauern/vendorjs/internal/util"
)

// Env resolves keys against the project's dotenv files first and the
// process environment second.
type Env struct {
	values map[string]string
}

// ReadEnv reads the configured dotenv files of projectDir. Missing files are
// skipped; a later file overrides keys of an earlier one.
func (c *Config) ReadEnv(projectDir string) (*Env, error) {
	var files []string
	for _, name := range c.Paths.EnvFiles {
		path := util.ExpandPath(name, projectDir)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		files = append(files, path)
	}

	env := &Env{values: map[string]string{}}
	if len(files) == 0 {
		return env, nil
	}

	values, err := godotenv.Read(files...)
	if err != nil {
		return nil, err
	}
	env.values = values
	logging.Debug("read dotenv files", logging.Count(len(files)), logging.Path(filepath.Dir(files[0])))
	return env, nil
}

// NewEnv builds an Env from explicit values.
func NewEnv(values map[string]string) *Env {
	if values == nil {
		values = map[string]string{}
	}
	return &Env{values: values}
}

// Lookup returns the value for key from the dotenv files or the process
// environment.
func (e *Env) Lookup(key string) (string, bool) {
	if e != nil {
		if v, ok := e.values[key]; ok {
			return v, true
		}
	}
	return os.LookupEnv(key)
}
