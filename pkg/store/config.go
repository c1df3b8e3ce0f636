package store

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// DefaultDocument is the name of the document commands edit when none is given.
	DefaultDocument = "resume"
	// DefaultListen is the address `resume serve` binds to.
	DefaultListen = "127.0.0.1:8080"
)

// Config locates the store and the document to work on.
type Config interface {
	BasePath() string
	Document() string
	Listen() string
	Metrics() bool
}

// LoadConfig reads .resume.yaml from RESUME_CONFIG_PATH or the working
// directory. Every key can be overridden with a RESUME_ environment variable.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.resume")
	viper.SetDefault("document", DefaultDocument)
	viper.SetDefault("listen", DefaultListen)
	viper.SetDefault("metrics", true)
	viper.SetConfigName(".resume") // .yaml is implicit
	viper.SetEnvPrefix("RESUME")
	viper.AutomaticEnv()

	if override := os.Getenv("RESUME_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &fileConfig{
		Path:    path,
		Name:    viper.GetString("document"),
		Address: viper.GetString("listen"),
		Metered: viper.GetBool("metrics"),
	}, nil
}

// NewConfig builds a Config without consulting viper.
func NewConfig(path, document string) Config {
	if document == "" {
		document = DefaultDocument
	}
	return &fileConfig{Path: path, Name: document, Address: DefaultListen, Metered: true}
}

type fileConfig struct {
	Path    string `json:"path"`
	Name    string `json:"document"`
	Address string `json:"listen"`
	Metered bool   `json:"metrics"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Document() string {
	return f.Name
}

func (f *fileConfig) Listen() string {
	return f.Address
}

func (f *fileConfig) Metrics() bool {
	return f.Metered
}
