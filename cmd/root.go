package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
	"github.com/Mohsinsiddi/pactwallet/internal/config"
	"github.com/Mohsinsiddi/pactwallet/internal/pact"
	"github.com/Mohsinsiddi/pactwallet/internal/ui"
	"github.com/Mohsinsiddi/pactwallet/internal/wallet"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/pactwallet/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir      string
	cfg         *config.Config
	env         *config.Env
	verbose     bool
	storageFlag string
	logger      *log.Logger
	store       *wallet.Store
	ring        keyring.Keyring
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "pactwallet",
	Short: "Kadena wallets from the terminal",
	Long: `pactwallet keeps named Kadena wallets (signing key, account, network and
gas settings), lets you switch between them and submits signed test
transactions to the chainweb Pact API.

The wallet state is stored in ~/.pactwallet/pactWallet7.json, or in the OS
keychain with --storage keyring. Secret keys always live in the keychain.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Banner())
		return cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return setup()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default: ~/.pactwallet, or $PACTWALLET_CONFIG_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&storageFlag, "storage", "", "wallet state storage: file or keyring")

	rootCmd.AddCommand(
		walletCmd,
		keysCmd,
		configCmd,
		txsCmd,
		hostCmd,
	)
}

// setup loads configuration and hydrates the wallet store.
func setup() error {
	var err error
	env, err = config.LoadEnv()
	if err != nil {
		return err
	}
	dir := cfgDir
	if dir == "" {
		dir = env.ConfigDir
	}
	cfg, err = config.Load(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnv(env)
	if storageFlag != "" {
		cfg.Storage = storageFlag
	}

	logger = newLogger(verbose)
	ring = nil

	snap, err := openSnapshotter()
	if err != nil {
		return err
	}
	store = wallet.NewStore(wallet.WithSnapshotter(snap), wallet.WithLogger(logger))
	if err := store.Load(); err != nil {
		return fmt.Errorf("loading wallet state: %w", err)
	}
	return store.Mount(cfg.GlobalConfig, cfg.ContractConfigs)
}

func newLogger(debug bool) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "pactwallet",
		Level:  log.WarnLevel,
	})
	if debug {
		l.SetLevel(log.DebugLevel)
		l.SetReportTimestamp(true)
	}
	return l
}

func openSnapshotter() (wallet.Snapshotter, error) {
	switch cfg.Storage {
	case config.StorageFile:
		return wallet.NewJSONSnapshot(cfg.SnapshotPath()), nil
	case config.StorageKeyring:
		r, err := openRing()
		if err != nil {
			return nil, err
		}
		return wallet.NewKeyringSnapshot(r, config.StorageKey), nil
	}
	return nil, fmt.Errorf("unknown storage %q (want %s or %s)", cfg.Storage, config.StorageFile, config.StorageKeyring)
}

// openRing opens the keychain once per invocation.
func openRing() (keyring.Keyring, error) {
	if ring != nil {
		return ring, nil
	}
	r, err := wallet.OpenKeyring(cfg.Dir(), wallet.KeyringOptions{
		Backend:  env.KeyringBackend,
		Password: env.KeyringPassword,
	})
	if err != nil {
		return nil, err
	}
	ring = r
	return ring, nil
}

func newSigner() (*wallet.Signer, error) {
	r, err := openRing()
	if err != nil {
		return nil, err
	}
	return wallet.NewSigner(wallet.NewKeystore(r)), nil
}

func newTracker(signer pact.Signer) *pact.Tracker {
	return pact.NewTracker(signer, store,
		pact.WithHosts(pact.OverrideHosts(cfg.HostOverride)),
		pact.WithPolling(cfg.PollEvery(), cfg.PollFor()),
		pact.WithTTL(config.DefaultTTL),
		pact.WithClientOptions(pact.WithTimeout(config.HTTPTimeout)),
		pact.WithTrackerLogger(logger),
	)
}

// dispatch applies a to the store. A failed save is reported but does not
// fail the command: the change is already in effect for this run.
func dispatch(cmd *cobra.Command, a wallet.Action) error {
	_, err := store.Dispatch(a)
	if errors.Is(err, wallet.ErrPersist) {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Warn(err.Error()))
		return nil
	}
	return err
}
