package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type BuildConfig struct {
	BaseYear   int    `toml:"base_year"`
	Pipeline   string `toml:"pipeline"`
	SourceCSV  string `toml:"source_csv"`
	OutSQL     string `toml:"out_sql"`
	OutJSON    string `toml:"out_json"`
	OutReport  string `toml:"out_report"`
	SQLitePath string `toml:"sqlite_path"`
}

// ColumnsConfig maps the fixed field vocabulary onto the source sheet's
// header names.
type ColumnsConfig struct {
	Name              string `toml:"name"`
	Registration      string `toml:"registration"`
	Submission        string `toml:"submission"`
	Result            string `toml:"result"`
	SourceTag         string `toml:"source_tag"`
	TypeTags          string `toml:"type_tags"`
	OfflineDefense    string `toml:"offline_defense"`
	ScheduleBasisYear string `toml:"schedule_basis_year"`
	EvidenceLinks     string `toml:"evidence_links"`
	Notes             string `toml:"notes"`
}

type ServerConfig struct {
	Port       string `toml:"port"`
	SQLitePath string `toml:"sqlite_path"`
	CacheJSON  string `toml:"cache_json"`
}

type Config struct {
	Build   BuildConfig   `toml:"build"`
	Columns ColumnsConfig `toml:"columns"`
	Server  ServerConfig  `toml:"server"`
}

// Default returns the configuration used when no file is present; the
// column headers match the source sheet.
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			BaseYear:   2026,
			Pipeline:   "variant",
			SourceCSV:  "data/competitions.csv",
			OutSQL:     "db/seed_competitions.sql",
			OutJSON:    "public/data/competitions.seed.preview.json",
			OutReport:  "outputs/build_report.md",
			SQLitePath: "db/competitions.sqlite",
		},
		Columns: ColumnsConfig{
			Name:              "竞赛名称",
			Registration:      "报名时间_2026",
			Submission:        "作品提交时间_2026",
			Result:            "结果公布时间_2026",
			SourceTag:         "竞赛来源标签",
			TypeTags:          "参赛形态标签",
			OfflineDefense:    "是否线下答辩",
			ScheduleBasisYear: "赛程依据年份",
			EvidenceLinks:     "证据链接",
			Notes:             "备注",
		},
		Server: ServerConfig{
			Port:       "8080",
			SQLitePath: "db/competitions.sqlite",
			CacheJSON:  "public/data/competitions.seed.preview.json",
		},
	}
}

// Load reads a TOML config file over the defaults, so partial files only
// need to name what they change.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}
