package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alpkeskin/gotoon"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pders01/catalog-delta/internal/config"
	cerrors "github.com/pders01/catalog-delta/internal/errors"
	"github.com/pders01/catalog-delta/internal/logging"
	"github.com/pders01/catalog-delta/internal/models"
	"github.com/pders01/catalog-delta/internal/source"
)

var (
	cfgFile     string
	dataDir     string
	variantFlag string
	logLevel    string
)

// Swapped out by tests
var (
	out    io.Writer = os.Stdout
	dataFS afero.Fs  = afero.NewOsFs()
	loader *source.Loader
)

var rootCmd = &cobra.Command{
	Use:   "catdelta",
	Short: "Compare yearly ICD-10-GM and OPS catalog releases",
	Long: `catdelta parses the yearly ICD-10-GM and OPS catalog files and reports
what changed between two releases:
  - codes added, removed and changed, down to single attributes
  - removed codes redirected to their successors via the crosswalk
  - changes rolled up by chapter and group

Catalog files are read from the data directory:
  <data_dir>/<icd|ops>/<year>/{codes,groups,chapters,threedigit}.txt
  <data_dir>/<icd|ops>/migrations/<old>_<new>.txt`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var ce *cerrors.CatalogError
		if errors.As(err, &ce) && ce.Action != "" {
			fmt.Fprintln(os.Stderr, "Hint: ", ce.Action)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/catdelta/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "catalog data directory")
	rootCmd.PersistentFlags().StringVar(&variantFlag, "variant", "", "catalog variant: icd or ops")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	viper.BindPFlag("data.dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// A missing .env is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(dir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	config.SetDefaults()

	readErr := viper.ReadInConfig()
	logging.Setup(config.GetLogLevel(), config.GetLogFormat())
	if readErr == nil {
		logging.WithFields(context.Background(), "path", viper.ConfigFileUsed()).Debug("using config file")
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "catdelta"), nil
}

// catalogLoader returns the loader shared by all commands of one process
func catalogLoader() *source.Loader {
	if loader == nil {
		fs := source.NewFS(dataFS, config.GetDataDir())
		loader = source.NewLoader(fs, fs, source.NewSnapshotCache(config.GetCacheSize()))
	}
	return loader
}

func currentVariant() (models.Variant, error) {
	if variantFlag == "" {
		return config.GetDefaultVariant(), nil
	}
	v, err := models.ParseVariant(variantFlag)
	if err != nil {
		return "", cerrors.New(cerrors.InvalidVariant, fmt.Sprintf("unknown variant %q", variantFlag), nil)
	}
	return v, nil
}

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || year < 1900 || year > 2999 {
		return 0, cerrors.Newf(cerrors.YearNotFound, "invalid year %q", s).
			WithAction("pass a four-digit year such as 2024")
	}
	return year, nil
}

// yearPair resolves the compared years: both given, or the two latest
// available ones
func yearPair(variant models.Variant, args []string) (int, int, error) {
	switch len(args) {
	case 2:
		oldYear, err := parseYear(args[0])
		if err != nil {
			return 0, 0, err
		}
		newYear, err := parseYear(args[1])
		if err != nil {
			return 0, 0, err
		}
		return oldYear, newYear, nil
	case 0:
		years, err := catalogLoader().Years(variant)
		if err != nil {
			return 0, 0, err
		}
		if len(years) < 2 {
			return 0, 0, cerrors.Newf(cerrors.YearNotFound, "need two %s years, found %d", variant.Label(), len(years))
		}
		return years[len(years)-2], years[len(years)-1], nil
	default:
		return 0, 0, fmt.Errorf("expected zero or two years, got %d", len(args))
	}
}

// singleYear resolves one year: the argument, or the latest available
func singleYear(variant models.Variant, args []string) (int, error) {
	if len(args) > 0 && args[0] != "" {
		return parseYear(args[0])
	}
	years, err := catalogLoader().Years(variant)
	if err != nil {
		return 0, err
	}
	if len(years) == 0 {
		return 0, cerrors.Newf(cerrors.YearNotFound, "no %s catalog found in %s", variant.Label(), config.GetDataDir())
	}
	return years[len(years)-1], nil
}

// writeStructured prints v as JSON or toon when requested and reports
// whether it did
func writeStructured(v any, asJSON, asToon bool) (bool, error) {
	if asJSON {
		output, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(output))
		return true, nil
	}

	if asToon {
		output, err := gotoon.Encode(v)
		if err != nil {
			return true, fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Fprintln(out, output)
		return true, nil
	}

	return false, nil
}

func printHeader(title string) {
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, strings.Repeat("━", len([]rune(title))))
	fmt.Fprintln(out)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
