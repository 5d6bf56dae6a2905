package stream

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is the application configuration read from YAML.
type Config struct {
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Render struct {
		Highlight string `yaml:"highlight"`
		Hues      map[string]struct {
			Angle  float64 `yaml:"angle"`
			Chroma float64 `yaml:"chroma"`
		} `yaml:"hues"`
	} `yaml:"render"`
	Mqtt struct {
		URL      string        `yaml:"url"`
		ClientID string        `yaml:"clientID"`
		Username string        `yaml:"username"`
		Password string        `yaml:"password"`
		Timeout  time.Duration `yaml:"timeout"`
		Topics   struct {
			Document string `yaml:"document"`
			Stages   string `yaml:"stages"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	var c Config
	c.Log.Level = "info"
	c.Mqtt.ClientID = "slidetrace"
	c.Mqtt.Timeout = 10 * time.Second
	c.Mqtt.Topics.Document = "slidetrace/document"
	c.Mqtt.Topics.Stages = "slidetrace/stages"
	return c
}

// ReadConfig reads a YAML config file over the defaults.
func ReadConfig(configPath string) (Config, error) {
	c := DefaultConfig()
	f, err := os.Open(configPath)
	if err != nil {
		return c, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.SetStrict(true)
	if err := decoder.Decode(&c); err != nil {
		return c, err
	}
	return c, nil
}
