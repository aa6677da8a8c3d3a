package config

import "time"

const defaultDebounce = 500 * time.Millisecond

// Default returns the configuration used when no file is present: h1–h3,
// unordered lists under a "Table of Contents" header in a sidebar container.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion, Markdown: MarkdownConfig{GFM: true}}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	t := &cfg.TOC
	if len(t.Levels) == 0 {
		t.Levels = []int{1, 2, 3}
	}
	if t.CSSClasses.TOC == "" {
		t.CSSClasses.TOC = "toc-sidebar"
	}
	if t.CSSClasses.List == "" {
		t.CSSClasses.List = "toc-level"
	}
	if t.CSSClasses.ListItem == "" {
		t.CSSClasses.ListItem = "toc-item"
	}
	if t.CSSClasses.Link == "" {
		t.CSSClasses.Link = "toc-link"
	}
	if len(t.ContainerClasses) == 0 {
		t.ContainerClasses = []string{"toc-container", "mt-5"}
	}
	if len(t.HeaderClasses) == 0 {
		t.HeaderClasses = []string{"toc-header"}
	}
	if t.HeaderText == "" {
		t.HeaderText = "Table of Contents"
	}

	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "./site"
	}
	if cfg.Output.Extension == "" {
		cfg.Output.Extension = ".html"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = defaultDebounce.String()
	}
}
