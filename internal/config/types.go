package config

import (
	"time"
)

// Environment modes.
const (
	EnvironmentAuto    = "auto"
	EnvironmentDesktop = "desktop"
	EnvironmentWeb     = "web"
)

// Config is the dsxform configuration document.
type Config struct {
	Environment string           `yaml:"environment,omitempty" validate:"omitempty,env_mode"`
	Log         LogConfig        `yaml:"log,omitempty"`
	Plugins     PluginsConfig    `yaml:"plugins,omitempty"`
	Actions     ActionsConfig    `yaml:"actions,omitempty"`
	Transforms  TransformsConfig `yaml:"transforms,omitempty"`
	History     HistoryConfig    `yaml:"history,omitempty"`
	Journal     JournalConfig    `yaml:"journal,omitempty"`
	Metrics     MetricsConfig    `yaml:"metrics,omitempty"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Human bool   `yaml:"human,omitempty"`
	// File receives log output while the interactive menu owns the terminal.
	File string `yaml:"file,omitempty"`
}

// PluginsConfig lists plugin manifests inline and/or a directory scanned on every menu render.
type PluginsConfig struct {
	Dir     string           `yaml:"dir,omitempty"`
	Entries []PluginManifest `yaml:"entries,omitempty" validate:"omitempty,dive"`
}

// PluginManifest declares an external transform process.
type PluginManifest struct {
	Name        string            `yaml:"name" validate:"required,plugin_name"`
	Description string            `yaml:"description,omitempty"`
	Command     []string          `yaml:"command" validate:"required,min=1,dive,required"`
	Timeout     time.Duration     `yaml:"timeout,omitempty" validate:"omitempty,min=0"`
	Env         map[string]string `yaml:"env,omitempty"`
}

// ActionsConfig force-enables (true) or force-disables (false) built-in actions by id.
type ActionsConfig struct {
	Overrides map[string]bool `yaml:"overrides,omitempty" validate:"omitempty,dive,keys,action_id,endkeys"`
}

// TransformsConfig carries settings of the built-in transform dialogs.
type TransformsConfig struct {
	Download    DownloadConfig    `yaml:"download,omitempty"`
	VideoFrames VideoFramesConfig `yaml:"video_frames,omitempty"`
	Segments    SegmentsConfig    `yaml:"segments,omitempty"`
	Upload      UploadConfig      `yaml:"upload,omitempty"`
}

// DownloadConfig configures download-urls.
type DownloadConfig struct {
	Dir     string        `yaml:"dir,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty" validate:"omitempty,min=0"`
}

// VideoFramesConfig configures convert-video-frames-to-images.
type VideoFramesConfig struct {
	FFmpeg    string        `yaml:"ffmpeg,omitempty"`
	FPS       float64       `yaml:"fps,omitempty" validate:"omitempty,gt=0,lte=120"`
	OutputDir string        `yaml:"output_dir,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty" validate:"omitempty,min=0"`
}

// SegmentsConfig configures the split into segments grid.
type SegmentsConfig struct {
	Rows int `yaml:"rows,omitempty" validate:"omitempty,min=1,max=64"`
	Cols int `yaml:"cols,omitempty" validate:"omitempty,min=1,max=64"`
}

// UploadConfig configures the S3-compatible store used by convert-local-files-to-web-urls.
type UploadConfig struct {
	Bucket        string `yaml:"bucket,omitempty"`
	Region        string `yaml:"region,omitempty"`
	Endpoint      string `yaml:"endpoint,omitempty" validate:"omitempty,url"`
	PathStyle     bool   `yaml:"path_style,omitempty"`
	Prefix        string `yaml:"prefix,omitempty"`
	PublicBaseURL string `yaml:"public_base_url,omitempty" validate:"omitempty,url"`
}

// HistoryConfig enables git commits of the dataset file after each mutation.
type HistoryConfig struct {
	Enabled     bool   `yaml:"enabled,omitempty"`
	Init        bool   `yaml:"init,omitempty"`
	AuthorName  string `yaml:"author_name,omitempty"`
	AuthorEmail string `yaml:"author_email,omitempty" validate:"omitempty,email"`
}

// JournalConfig controls the record of applied transforms. An empty Path
// selects journal.json under the user config directory.
type JournalConfig struct {
	Disabled bool   `yaml:"disabled,omitempty"`
	Path     string `yaml:"path,omitempty"`
	Limit    int    `yaml:"limit,omitempty" validate:"omitempty,min=1"`
}

// MetricsConfig exposes Prometheus metrics over HTTP when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty" validate:"omitempty,hostname_port"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Environment: EnvironmentAuto,
		Log:         LogConfig{Level: "info"},
		Transforms: TransformsConfig{
			Download:    DownloadConfig{Dir: "downloads", Timeout: time.Minute},
			VideoFrames: VideoFramesConfig{FFmpeg: "ffmpeg", FPS: 1, OutputDir: "frames", Timeout: 10 * time.Minute},
			Segments:    SegmentsConfig{Rows: 2, Cols: 2},
			Upload:      UploadConfig{Region: "us-east-1"},
		},
		Journal: JournalConfig{Limit: 200},
	}
}
