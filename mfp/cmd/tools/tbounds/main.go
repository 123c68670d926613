// tbounds computes the bounds, scale and rotation of the map attribute of
// print requests.
//
// Requests are read as JSON, either one map attribute object or an array of
// them, and the results are written as JSON to stdout:
//
//	echo '{"center": [5, 45], "scale": 25000, "projection": "EPSG:4326"}' | tbounds --pretty
package main

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"time"

	"github.com/mapfish/mapfish-print-sub001/mfp/config"
	"github.com/mapfish/mapfish-print-sub001/mfp/libmain"
	"github.com/mapfish/mapfish-print-sub001/mfp/log"
	"github.com/mapfish/mapfish-print-sub001/mfp/mapattr"
	"github.com/mapfish/mapfish-print-sub001/mfp/processor"

	metrics "github.com/armon/go-metrics"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	configPath  string
	requestPath string
	pretty      bool
	showMetrics bool
)

func init() {
	pflag.StringVar(&configPath, "config", "", "YAML configuration with the defaults of the map attribute")
	pflag.StringVar(&requestPath, "request", "-", "JSON request file, - for stdin")
	pflag.BoolVar(&pretty, "pretty", false, "Indent the output")
	pflag.BoolVar(&showMetrics, "metrics", false, "Log the timings and counters once done")
}

type result struct {
	Bbox         []float64 `json:"bbox,omitempty"`
	Center       []float64 `json:"center,omitempty"`
	Scale        float64   `json:"scale,omitempty"`
	DisplayScale string    `json:"displayScale,omitempty"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	Transform    []float64 `json:"transform,omitempty"`
	Error        string    `json:"error,omitempty"`
}

func main() {
	libmain.Main(run)
}

func run() error {
	sink := metrics.NewInmemSink(time.Minute, time.Minute)
	mcfg := metrics.DefaultConfig("")
	mcfg.EnableHostname = false
	mcfg.EnableRuntimeMetrics = false
	if _, err := metrics.NewGlobal(mcfg, sink); err != nil {
		return err
	}
	if showMetrics {
		defer func() {
			log.Info("Metrics: %s", log.Spew(sink.Data()))
		}()
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	data, err := readRequest(requestPath)
	if err != nil {
		return err
	}

	var out interface{}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var requests []map[string]interface{}
		if err := json.Unmarshal(data, &requests); err != nil {
			return err
		}
		results := make([]result, 0, len(requests))
		for i, raw := range requests {
			res, err := compute(raw, cfg)
			if err != nil {
				log.Warn("Request %d: %v", i, err)
				res = result{Error: err.Error()}
			}
			results = append(results, res)
		}
		out = results
	} else {
		var raw map[string]interface{}
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		res, err := compute(raw, cfg)
		if err != nil {
			return err
		}
		out = res
	}
	return write(os.Stdout, out)
}

func readRequest(path string) ([]byte, error) {
	if path == "-" {
		return ioutil.ReadAll(os.Stdin)
	}
	return ioutil.ReadFile(path)
}

func compute(raw map[string]interface{}, cfg *config.Config) (result, error) {
	values, err := mapattr.Decode(raw, cfg)
	if err != nil {
		return result{}, err
	}
	res, err := processor.CreateMap(values)
	if err != nil {
		return result{}, err
	}
	p := message.NewPrinter(language.English)
	out := result{
		Bbox:         []float64{res.Envelope.MinX, res.Envelope.MinY, res.Envelope.MaxX, res.Envelope.MaxY},
		Center:       []float64{res.Center[0], res.Center[1]},
		Scale:        res.Scale.Denominator,
		DisplayScale: p.Sprintf("1:%d", int64(res.DisplayScale)),
		Width:        res.RotatedSize.Width,
		Height:       res.RotatedSize.Height,
	}
	if m, ok := res.Viewport.Transform(); ok {
		out.Transform = m[:]
	}
	return out, nil
}

func write(w io.Writer, v interface{}) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
