package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shiroemons/go-facechat/internal/facechat/config"
	"github.com/shiroemons/go-facechat/internal/facechat/logging"
	"github.com/shiroemons/go-facechat/internal/facechat/speaker"
)

const defaultConfigPath = "facechat.toml"

type commandContext struct {
	configFlag       string
	inputFlag        string
	outputFlag       string
	workersFlag      int
	dryRunFlag       bool
	debugFlag        bool
	logFormatFlag    string
	friendlyNameFlag bool

	config *config.Config
	logger *slog.Logger
}

// load は設定ファイルを読み込み、明示されたフラグで上書きしてからロガーを作成します
func (c *commandContext) load(cmd *cobra.Command) error {
	flags := cmd.Flags()

	cfg, exists, err := config.Load(strings.TrimSpace(c.configFlag))
	if err != nil {
		return err
	}
	if flags.Changed("config") && !exists {
		return fmt.Errorf("設定ファイルが見つかりません: %s", c.configFlag)
	}

	if flags.Changed("input") {
		cfg.Input.Dir = c.inputFlag
	}
	if flags.Changed("output") {
		cfg.Output.Dir = c.outputFlag
	}
	if flags.Changed("workers") {
		cfg.Workers = c.workersFlag
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = c.dryRunFlag
	}
	if flags.Changed("friendly-name") {
		cfg.Output.FriendlyName = c.friendlyNameFlag
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = c.logFormatFlag
	}
	if c.debugFlag {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	c.config = cfg
	c.logger = logger
	if exists {
		logger.Debug("設定ファイルを読み込みました", "path", c.configFlag)
	}
	return nil
}

// speakers は設定の上書きを反映した話者名表を返します
func (c *commandContext) speakers() (speaker.Table, error) {
	overrides, err := c.config.SpeakerOverrides()
	if err != nil {
		return speaker.Table{}, err
	}
	return speaker.Default().With(overrides), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return true
	}
	return false
}
