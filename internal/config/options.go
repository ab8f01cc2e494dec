package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ReadEnhancements reads an enhancement bundle from a YAML file.
func ReadEnhancements(path string) (Enhancements, error) {
	e := DefaultEnhancements()

	data, err := os.ReadFile(path)
	if err != nil {
		return e, err
	}
	if err := yaml.Unmarshal(data, &e); err != nil {
		return e, err
	}
	return e, nil
}

// WriteEnhancements dumps an enhancement bundle to a YAML file so a tuned
// set of options can be reused between renders.
func WriteEnhancements(e Enhancements, path string) error {
	data, err := yaml.Marshal(e)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
