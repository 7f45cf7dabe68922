package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"Branches/internal/bootstrap"
	"Branches/internal/core/browse"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is overridden at release via -ldflags "-X main.version=...".
var version = "dev"

// newService builds the service commands run against; tests replace it.
var newService = bootstrap.NewService

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// cli holds the flag and config state shared by every subcommand
type cli struct {
	cfg     *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	c := &cli{cfg: viper.New()}

	root := &cobra.Command{
		Use:   "branches",
		Short: "Browse AT Protocol repositories from the command line",
		Long: `branches resolves at:// addresses to the PDS that serves them and
prints what lives there: a repository summary, a page of records in a
collection, or a single record.

  branches resolve at://bsky.app
  branches resolve at://did:plc:z72i7hdynmk6r22z27h6tvur/app.bsky.feed.post`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default ~/.branches/config.yaml)")
	flags.String("plc-url", "", "PLC directory URL (default https://plc.directory)")
	flags.String("discovery-host", "", "host answering com.atproto.identity.resolveHandle (default https://bsky.social)")
	flags.String("handle-resolution", "", "handle resolution strategy: xrpc or direct")
	flags.Duration("timeout", 0, "upper bound on each resolution pass (e.g. 30s)")
	flags.Bool("allow-private", false, "allow requests to loopback and private networks")

	_ = c.cfg.BindPFlag("plc_url", flags.Lookup("plc-url"))
	_ = c.cfg.BindPFlag("discovery_host", flags.Lookup("discovery-host"))
	_ = c.cfg.BindPFlag("handle_resolution", flags.Lookup("handle-resolution"))
	_ = c.cfg.BindPFlag("pass_timeout", flags.Lookup("timeout"))
	_ = c.cfg.BindPFlag("allow_private_hosts", flags.Lookup("allow-private"))

	root.AddCommand(newResolveCmd(c))
	root.AddCommand(newDIDDocCmd(c))
	root.AddCommand(newPDSCmd(c))
	root.AddCommand(newVersionCmd())

	return root
}

// loadConfig reads the config file, if any, and BRANCHES_* environment variables.
// Flags win over both.
func (c *cli) loadConfig(cmd *cobra.Command) error {
	if c.cfgFile != "" {
		c.cfg.SetConfigFile(c.cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		c.cfg.AddConfigPath(filepath.Join(home, ".branches"))
		c.cfg.SetConfigName("config")
		c.cfg.SetConfigType("yaml")
	}
	c.cfg.SetEnvPrefix("branches")
	c.cfg.AutomaticEnv()

	// A missing default config file is fine; an explicit one must exist.
	if err := c.cfg.ReadInConfig(); err != nil {
		if _, missing := err.(viper.ConfigFileNotFoundError); c.cfgFile != "" || !missing {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// settings merges defaults with config, env and flags
func (c *cli) settings() bootstrap.Settings {
	s := bootstrap.DefaultSettings()
	if v := c.cfg.GetString("plc_url"); v != "" {
		s.PLCURL = v
	}
	if v := c.cfg.GetString("discovery_host"); v != "" {
		s.DiscoveryHost = v
	}
	if v := c.cfg.GetString("handle_resolution"); v != "" {
		s.HandleResolution = v
	}
	if v := c.cfg.GetDuration("http_timeout"); v > 0 {
		s.HTTPTimeout = v
	}
	if v := c.cfg.GetDuration("pass_timeout"); v > 0 {
		s.PassTimeout = v
	}
	s.ListPageSize = c.cfg.GetInt("list_page_size")
	s.AllowPrivate = c.cfg.GetBool("allow_private_hosts")
	s.UserAgent = "branches-cli/" + version
	return s
}

func (c *cli) service() (browse.Service, error) {
	return newService(c.settings())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the branches CLI version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "branches %s\n", version)
		},
	}
}
