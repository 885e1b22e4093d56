package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds render settings that are not part of a deck: where assets
// live, where output goes and how hard to push the machine.
type Config struct {
	PublicDir    string `mapstructure:"public_dir"`
	OutputDir    string `mapstructure:"output_dir"`
	Workers      int    `mapstructure:"workers"`
	VideoEncoder string `mapstructure:"video_encoder"`
	Quality      int    `mapstructure:"quality"`
	DPI          int    `mapstructure:"dpi"`
	ShowStats    bool   `mapstructure:"show_stats"`
	BenchmarkLog string `mapstructure:"benchmark_log"`
	BuildVersion string `mapstructure:"build_version"`
	KeepTemp     bool   `mapstructure:"keep_temp"`
	TTS          TTS    `mapstructure:"tts"`
}

// TTS configures the offline voice-over synthesizer.
type TTS struct {
	BaseURL      string `mapstructure:"base_url"`
	Model        string `mapstructure:"model"`
	Voice        string `mapstructure:"voice"`
	Instructions string `mapstructure:"instructions"`
	APIKeyEnv    string `mapstructure:"api_key_env"`
	RecordsPath  string `mapstructure:"records_path"`
}

// SegmentParams is everything the encoder needs to turn one segment's frames
// into a video file.
type SegmentParams struct {
	Width, Height int
	FPS           int
	Frames        int
	SegmentIndex  int
	Encoder       string
	Quality       int
}

const EnvPrefix = "QUIZ2VIDEO"

func setDefaults(v *viper.Viper) {
	v.SetDefault("public_dir", "public")
	v.SetDefault("output_dir", "output")
	v.SetDefault("workers", 0) // 0 = number of logical CPUs
	v.SetDefault("video_encoder", "")
	v.SetDefault("quality", 0)
	v.SetDefault("dpi", 150)
	v.SetDefault("show_stats", false)
	v.SetDefault("benchmark_log", "benchmark.log")
	v.SetDefault("build_version", "dev")
	v.SetDefault("keep_temp", false)
	v.SetDefault("tts.base_url", "https://api.openai.com/v1")
	v.SetDefault("tts.model", "gpt-4o-mini-tts")
	v.SetDefault("tts.voice", "echo")
	v.SetDefault("tts.instructions", "Cheerful, upbeat quiz host with a relaxed cowboy drawl.")
	v.SetDefault("tts.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("tts.records_path", "quizzes.json")
}

// Load reads configuration from path, or from ./quiz2video.yaml when path is
// empty. A missing default file is not an error; a missing explicit file is.
// QUIZ2VIDEO_* environment variables override file values
// (QUIZ2VIDEO_TTS_MODEL overrides tts.model).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("quiz2video")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
