package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facechat.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0_disc/USRDIR/facechat", cfg.Input.Dir)
	assert.Equal(t, ".arc", cfg.Input.Extension)
	assert.Equal(t, ".scr", cfg.Input.Marker)
	assert.Equal(t, "2_translated/facechat", cfg.Output.Dir)
	assert.Equal(t, ".xml", cfg.Output.Extension)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "auto", cfg.Logging.Format)
}

func TestLoad_NoPath(t *testing.T) {
	cfg, exists, err := Load("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, Default(), *cfg)

	cfg, exists, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
workers = 4
dry_run = true

[input]
dir = "disc/facechat"

[output]
dir = "out"
friendly_name = true

[logging]
level = "debug"
format = "json"

[speakers]
"0x99" = "謎の声"
"10" = "キール"
`)

	cfg, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "disc/facechat", cfg.Input.Dir)
	// 指定していない項目は既定値のまま
	assert.Equal(t, ".arc", cfg.Input.Extension)
	assert.Equal(t, ".scr", cfg.Input.Marker)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.True(t, cfg.Output.FriendlyName)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	overrides, err := cfg.SpeakerOverrides()
	require.NoError(t, err)
	assert.Equal(t, map[int]string{0x99: "謎の声", 10: "キール"}, overrides)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		target   error
	}{
		{"未知のキー", "unknown = 1\n", ErrParseConfig},
		{"未知のセクション", "[extra]\nx = 1\n", ErrParseConfig},
		{"型が違う", "workers = \"many\"\n", ErrParseConfig},
		{"壊れたTOML", "workers = \n", ErrParseConfig},
		{"workers が0", "workers = 0\n", ErrInvalidConfig},
		{"拡張子にドットがない", "[input]\nextension = \"arc\"\n", ErrInvalidConfig},
		{"ログ形式が不正", "[logging]\nformat = \"xml\"\n", ErrInvalidConfig},
		{"ログレベルが不正", "[logging]\nlevel = \"verbose\"\n", ErrInvalidConfig},
		{"話者IDが不正", "[speakers]\n\"zz\" = \"x\"\n", ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, exists, err := Load(writeConfig(t, tt.contents))
			assert.True(t, exists)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestSpeakerOverrides(t *testing.T) {
	cfg := Default()
	overrides, err := cfg.SpeakerOverrides()
	require.NoError(t, err)
	assert.Nil(t, overrides)

	cfg.Speakers = map[string]string{"0x4e": "ファラ", " 0X1A ": "ジーニアス"}
	overrides, err = cfg.SpeakerOverrides()
	require.NoError(t, err)
	assert.Equal(t, map[int]string{0x4E: "ファラ", 0x1A: "ジーニアス"}, overrides)

	cfg.Speakers = map[string]string{"-1": "x"}
	_, err = cfg.SpeakerOverrides()
	assert.Error(t, err)
}

func TestConfig_TOMLRoundTrip(t *testing.T) {
	custom := Default()
	custom.Workers = 8
	custom.Output.FriendlyName = true
	custom.Speakers = map[string]string{"0x99": "謎の声"}

	data, err := toml.Marshal(custom)
	require.NoError(t, err)

	cfg, _, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, custom, *cfg)
}
