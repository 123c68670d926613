// Package config reads the defaults of the map attribute from a YAML file.
package config

import (
	"io/ioutil"

	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/coordsys"
	"github.com/mapfish/mapfish-print-sub001/mfp/zoom"

	"github.com/creasty/defaults"
	validator "github.com/go-playground/validator/v10"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Config holds what a template declares for its map: the values a request
// falls back to and the limits it must stay in.
type Config struct {
	DPI            float64   `yaml:"dpi" default:"72" validate:"gt=0"`
	MaxDPI         float64   `yaml:"maxDpi" default:"400" validate:"gt=0,gtefield=DPI"`
	DPISuggestions []float64 `yaml:"dpiSuggestions" validate:"dive,gt=0"`

	ZoomLevels            zoom.ZoomLevels   `yaml:"zoomLevels"`
	ZoomSnapTolerance     float64           `yaml:"zoomSnapTolerance" default:"0.05" validate:"gte=0,lt=1"`
	ZoomLevelSnapStrategy zoom.SnapStrategy `yaml:"zoomLevelSnapStrategy"`
	ZoomSnapGeodetic      bool              `yaml:"zoomSnapGeodetic"`
	UseNearestScale       bool              `yaml:"useNearestScale"`
	UseAdjustBounds       bool              `yaml:"useAdjustBounds"`

	Width                   int    `yaml:"width" validate:"gte=0"`
	Height                  int    `yaml:"height" validate:"gte=0"`
	Projection              string `yaml:"projection" default:"EPSG:3857" validate:"required"`
	LongitudeFirst          bool   `yaml:"longitudeFirst"`
	UseGeodeticCalculations bool   `yaml:"useGeodeticCalculations"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default is the configuration of a template that declares nothing.
func Default() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return cfg, nil
}

// Parse reads YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(mfp.ErrInvalidInput, "config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	if err := validate.Struct(c); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				result = multierror.Append(result, errors.Wrapf(mfp.ErrInvalidInput,
					"config %s: %v fails %s", fe.Field(), fe.Value(), fe.Tag()))
			}
		} else {
			result = multierror.Append(result, err)
		}
	}
	for _, dpi := range c.DPISuggestions {
		if dpi > c.MaxDPI {
			result = multierror.Append(result, errors.Wrapf(mfp.ErrInvalidInput,
				"config dpi suggestion %v above maxDpi %v", dpi, c.MaxDPI))
		}
	}
	if c.ZoomLevels.Len() > 0 || c.UseNearestScale {
		if err := c.ZoomLevels.Validate(); err != nil {
			result = multierror.Append(result, errors.Wrap(err, "config zoomLevels"))
		}
	}
	if c.Projection != "" {
		if _, err := coordsys.Parse(c.Projection); err != nil {
			result = multierror.Append(result, errors.Wrap(err, "config projection"))
		}
	}
	return result.ErrorOrNil()
}
