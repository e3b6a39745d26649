// Package config は facechat コマンドの設定管理を行います
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const Version = "0.1.0"

// Input は入力アーカイブの検索条件です
type Input struct {
	Dir       string `toml:"dir"`
	Extension string `toml:"extension"`
	Marker    string `toml:"marker"` // スクリプトとして扱うエントリ名に含まれる文字列
}

// Output は出力先の設定です
type Output struct {
	Dir          string `toml:"dir"`
	Extension    string `toml:"extension"`
	FriendlyName bool   `toml:"friendly_name"` // SceneText に FriendlyName を付けるか
}

// Logging はログ出力の設定です
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config はアプリケーションの設定を保持します
type Config struct {
	Input    Input             `toml:"input"`
	Output   Output            `toml:"output"`
	Workers  int               `toml:"workers"`
	DryRun   bool              `toml:"dry_run"`
	Logging  Logging           `toml:"logging"`
	Speakers map[string]string `toml:"speakers"` // 話者名の上書き ("0x99" = "名前")
}

// Default は既定値の設定を返します
func Default() Config {
	return Config{
		Input: Input{
			Dir:       "0_disc/USRDIR/facechat",
			Extension: ".arc",
			Marker:    ".scr",
		},
		Output: Output{
			Dir:       "2_translated/facechat",
			Extension: ".xml",
		},
		Workers: 1,
		Logging: Logging{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load は path の設定ファイルを読み込みます。
// path が空、またはファイルが存在しない場合は既定値を返し、exists は false になります。
func Load(path string) (cfg *Config, exists bool, err error) {
	c := Default()
	if path == "" {
		return &c, false, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &c, false, nil
		}
		return nil, false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := c.decode(file); err != nil {
		return nil, true, err
	}
	if err := c.Validate(); err != nil {
		return nil, true, err
	}
	return &c, true, nil
}

func (c *Config) decode(r io.Reader) error {
	decoder := toml.NewDecoder(r).DisallowUnknownFields()
	if err := decoder.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("%w: %s", ErrParseConfig, strict.String())
		}
		return fmt.Errorf("%w: %w", ErrParseConfig, err)
	}
	return nil
}

// Validate は設定値を検証します
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Input.Dir) == "" {
		errs = append(errs, errors.New("input.dir is empty"))
	}
	if !strings.HasPrefix(c.Input.Extension, ".") {
		errs = append(errs, fmt.Errorf("input.extension must start with '.': %q", c.Input.Extension))
	}
	if c.Input.Marker == "" {
		errs = append(errs, errors.New("input.marker is empty"))
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		errs = append(errs, errors.New("output.dir is empty"))
	}
	if !strings.HasPrefix(c.Output.Extension, ".") {
		errs = append(errs, fmt.Errorf("output.extension must start with '.': %q", c.Output.Extension))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1: %d", c.Workers))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "auto", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format))
	}
	if _, err := c.SpeakerOverrides(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// SpeakerOverrides は Speakers のキーを話者IDに変換します。
// キーは "0x99" のような16進表記、または10進表記を受け付けます。
func (c *Config) SpeakerOverrides() (map[int]string, error) {
	if len(c.Speakers) == 0 {
		return nil, nil
	}
	overrides := make(map[int]string, len(c.Speakers))
	for key, name := range c.Speakers {
		id, err := strconv.ParseInt(strings.TrimSpace(key), 0, 32)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("speakers: invalid speaker id %q", key)
		}
		overrides[int(id)] = name
	}
	return overrides, nil
}
