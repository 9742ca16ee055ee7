package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/feeleurope/luxeagent/ai/lexicon"
	"github.com/feeleurope/luxeagent/ai/observability/logging"
	"github.com/feeleurope/luxeagent/internal/profile"
	"github.com/feeleurope/luxeagent/internal/version"
	"github.com/feeleurope/luxeagent/server"
	"github.com/feeleurope/luxeagent/store"
	"github.com/feeleurope/luxeagent/store/db"
	"github.com/feeleurope/luxeagent/store/db/jsonfile"
)

var (
	rootCmd = &cobra.Command{
		Use:   "luxeagent",
		Short: `Conversational luxury product lookup: prices, references and brand site search.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Systemd units pass configuration through EnvironmentFile instead.
			if !isRunningAsSystemdService() {
				_ = godotenv.Load()
			}
			return nil
		},
		Run: func(_ *cobra.Command, _ []string) {
			instanceProfile, err := loadProfile()
			if err != nil {
				slog.Error("invalid configuration", "error", err)
				os.Exit(1)
			}

			lex, err := loadLexicon(instanceProfile)
			if err != nil {
				slog.Error("failed to load lexicon", "error", err)
				os.Exit(1)
			}

			ctx, cancel := context.WithCancel(context.Background())
			dbDriver, err := db.NewDBDriver(instanceProfile)
			if err != nil {
				cancel()
				printCatalogError(err, instanceProfile)
				slog.Error("failed to create db driver", "error", err)
				return
			}

			storeInstance := store.New(dbDriver, instanceProfile, lex)
			stats, err := storeInstance.Reload(ctx)
			if err != nil {
				cancel()
				printCatalogError(err, instanceProfile)
				slog.Error("failed to load catalog", "error", err)
				return
			}

			s, err := server.NewServer(ctx, instanceProfile, storeInstance, lex)
			if err != nil {
				cancel()
				slog.Error("failed to create server", "error", err)
				return
			}
			s.Metrics.RecordCatalogLoad(stats)

			c := make(chan os.Signal, 1)
			signal.Notify(c, terminationSignals...)
			hup := make(chan os.Signal, 1)
			if len(reloadSignals) > 0 {
				signal.Notify(hup, reloadSignals...)
			}

			if err := s.Start(ctx); err != nil {
				if !errors.Is(err, http.ErrServerClosed) {
					slog.Error("failed to start server", "error", err)
					cancel()
					return
				}
			}

			printGreetings(instanceProfile, stats)

			go func() {
				for {
					select {
					case <-hup:
						stats, err := storeInstance.Reload(ctx)
						if err != nil {
							slog.Error("catalog reload failed, keeping previous snapshot", "error", err)
							continue
						}
						s.Metrics.RecordCatalogLoad(stats)
					case <-c:
						s.Shutdown(ctx)
						cancel()
						return
					}
				}
			}()

			// Wait for CTRL-C.
			<-ctx.Done()
		},
	}

	importCmd = &cobra.Command{
		Use:   "import <products.json>",
		Short: "Copy a JSON catalog into the configured sqlite or postgres database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			instanceProfile, err := loadProfile()
			if err != nil {
				return err
			}
			return importCatalog(cmd.Context(), instanceProfile, args[0])
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(version.StringFull(viper.GetString("mode")))
		},
	}
)

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "json")
	viper.SetDefault("port", 5000)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 5000, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "json", "catalog driver (json, sqlite, postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name(aka. DSN)")
	rootCmd.PersistentFlags().String("catalog", "", "path of the JSON catalog, defaults to <data>/products.json")
	rootCmd.PersistentFlags().String("catalog-url", "", "download the JSON catalog from this URL when the file is missing")
	rootCmd.PersistentFlags().String("lexicon", "", "YAML file with extra brand aliases, websites, families and product types")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Float64("rate-limit", 0, "agent requests per second per client, 0 disables")
	rootCmd.PersistentFlags().Int("max-query-length", profile.DefaultMaxQueryLength, "longest accepted query in characters")

	for _, name := range []string{
		"mode", "addr", "port", "data", "driver", "dsn", "catalog", "catalog-url",
		"lexicon", "log-level", "rate-limit", "max-query-length",
	} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("luxeagent")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(importCmd, versionCmd)
}

// loadProfile builds the profile from flags and environment, validates it and
// installs the process logger.
func loadProfile() (*profile.Profile, error) {
	instanceProfile := &profile.Profile{
		Mode:           viper.GetString("mode"),
		Addr:           viper.GetString("addr"),
		Port:           viper.GetInt("port"),
		Data:           viper.GetString("data"),
		Driver:         viper.GetString("driver"),
		DSN:            viper.GetString("dsn"),
		CatalogPath:    viper.GetString("catalog"),
		CatalogURL:     viper.GetString("catalog-url"),
		LexiconPath:    viper.GetString("lexicon"),
		LogLevel:       viper.GetString("log-level"),
		RateLimit:      viper.GetFloat64("rate-limit"),
		MaxQueryLength: viper.GetInt("max-query-length"),
		Version:        version.GetCurrentVersion(viper.GetString("mode")),
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return nil, err
	}

	logging.Setup(os.Stderr, logging.Options{
		Mode:  instanceProfile.Mode,
		Level: instanceProfile.LogLevel,
	})
	return instanceProfile, nil
}

// loadLexicon returns the built-in tables, extended by the --lexicon file when set.
func loadLexicon(p *profile.Profile) (*lexicon.Lexicon, error) {
	if p.LexiconPath == "" {
		return lexicon.Default(), nil
	}
	ext, err := lexicon.LoadExtension(p.LexiconPath)
	if err != nil {
		return nil, err
	}
	if ext.MinVersion != "" && !version.IsVersionGreaterOrEqualThan(p.Version, ext.MinVersion) {
		return nil, fmt.Errorf("lexicon %s requires version %s, running %s", p.LexiconPath, ext.MinVersion, p.Version)
	}
	slog.Info("lexicon extension loaded",
		"path", p.LexiconPath,
		"aliases", len(ext.BrandAliases),
		"websites", len(ext.BrandWebsites),
		"families", len(ext.Families),
		"product_types", len(ext.ProductTypes),
	)
	return lexicon.New(ext), nil
}

// importCatalog copies the records of a JSON file into the configured database.
func importCatalog(ctx context.Context, p *profile.Profile, path string) error {
	if p.Driver == "json" {
		return errors.New("import needs --driver sqlite or postgres")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	source, err := jsonfile.NewDB(&profile.Profile{CatalogPath: path})
	if err != nil {
		return err
	}
	records, err := source.LoadProducts(ctx)
	if err != nil {
		return err
	}

	target, err := db.NewDBDriver(p)
	if err != nil {
		return err
	}
	defer target.Close()

	importer, ok := target.(store.Importer)
	if !ok {
		return fmt.Errorf("driver %s cannot import", p.Driver)
	}
	n, err := importer.ImportProducts(ctx, records)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d products into %s\n", n, target.Source())
	return nil
}

func printGreetings(profile *profile.Profile, stats store.LoadStats) {
	fmt.Printf("LuxeAgent %s started successfully!\n", profile.Version)

	if profile.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
		if profile.DSN != "" {
			fmt.Fprintf(os.Stderr, "Database: %s\n", profile.DSN)
		}
	}

	fmt.Printf("Data directory: %s\n", profile.Data)
	fmt.Printf("Catalog: %s (%d products, %d unmapped families)\n", stats.Source, stats.Records, stats.UnmappedFamilies)
	fmt.Printf("Mode: %s\n", profile.Mode)
	fmt.Printf("AI replies: %t, web search: %t\n", profile.IsAIEnabled(), profile.IsSearchEnabled())

	if len(profile.Addr) == 0 {
		fmt.Printf("Server running on port %d\n", profile.Port)
	} else {
		fmt.Printf("Server running on %s:%d\n", profile.Addr, profile.Port)
	}
	fmt.Println()
}

// isRunningAsSystemdService detects if the process is running under systemd
func isRunningAsSystemdService() bool {
	return os.Getenv("INVOCATION_ID") != "" || os.Getenv("WATCHDOG_USEC") != ""
}

// printCatalogError gives a short hint for the most common startup failures.
func printCatalogError(err error, profile *profile.Profile) {
	fmt.Fprintln(os.Stderr, "\nCatalog unavailable")

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no such host"):
		fmt.Fprintf(os.Stderr, "\n   The %s database is not reachable. Check --dsn or LUXEAGENT_DSN.\n", profile.Driver)
		fmt.Fprintf(os.Stderr, "   Or serve the JSON file directly: --driver=json --catalog=./products.json\n")
	case strings.Contains(errMsg, "sslmode"):
		fmt.Fprintf(os.Stderr, "\n   Add ?sslmode=disable to your DSN.\n")
	case strings.Contains(errMsg, "JSON array") || strings.Contains(errMsg, "decode"):
		fmt.Fprintf(os.Stderr, "\n   %s is not a JSON array of products.\n", profile.CatalogPath)
	default:
		fmt.Fprintln(os.Stderr, "\n   Error:", errMsg)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
