package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const secsInDay int64 = 60 * 60 * 24

func setDefaults() {
	viper.SetDefault("db.path", "vimmad.sqlite")
	viper.SetDefault("log.path", "vimmad.log")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.host", "")
	viper.SetDefault("metrics.port", 2224)
	viper.SetDefault("tasks.workers", 4)
	viper.SetDefault("tasks.retrybasemillis", 100)
	viper.SetDefault("tasks.retrymaxattempts", 5)
	viper.SetDefault("vm.defaultexpirysecs", 90*secsInDay)
	viper.SetDefault("vm.graceintervalsecs", 14*secsInDay)
	viper.SetDefault("vm.creationoverridesecs", 3600)
	viper.SetDefault("vm.notificationintervalssecs", []int64{
		-14 * secsInDay, -7 * secsInDay, -3 * secsInDay, -2 * secsInDay,
		-1 * secsInDay, 0, secsInDay, 2 * secsInDay,
	})
	viper.SetDefault("firewall.normalruleexpirysecs", 90*secsInDay)
	viper.SetDefault("firewall.specialruleexpirysecs", 7*secsInDay)
	viper.SetDefault("firewall.trustednetworks", []string{})
	viper.SetDefault("sweeps.statuspollintervalsecs", 300)
	viper.SetDefault("sweeps.expirationsweepintervalsecs", 3600)
	viper.SetDefault("seed.path", "")
}

func validateConfig() error {
	if Config.Tasks.Workers < 1 {
		return fmt.Errorf("%w: tasks.workers must be at least 1", errConfigInvalid)
	}

	intervals := Config.VM.NotificationIntervalsSecs
	for i := 1; i < len(intervals); i++ {
		if intervals[i-1] >= intervals[i] {
			return fmt.Errorf("%w: vm.notificationintervalssecs must be strictly ascending",
				errConfigInvalid)
		}
	}

	for _, network := range Config.Firewall.TrustedNetworks {
		_, err := netip.ParsePrefix(network)
		if err != nil {
			return fmt.Errorf("%w: bad trusted network %s: %w", errConfigInvalid, network, err)
		}
	}

	return nil
}

// Init loads the config file (if present), applies VIMMAD_* environment
// overrides and validates the result into Config.
func Init(cfgFile string) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vimmad")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/usr/local/etc/vimmad")
	}

	viper.SetEnvPrefix("VIMMAD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Printf("error reading config file: %s\n", err)
			os.Exit(1)
		}
	}

	if err := viper.Unmarshal(&Config); err != nil {
		fmt.Printf("error parsing config: %s\n", err)
		os.Exit(1)
	}

	// viper leaves list-valued env overrides as strings
	Config.VM.NotificationIntervalsSecs = castInt64Slice(
		viper.Get("vm.notificationintervalssecs"))
	Config.Firewall.TrustedNetworks = cast.ToStringSlice(
		viper.Get("firewall.trustednetworks"))

	if err := validateConfig(); err != nil {
		fmt.Printf("invalid config: %s\n", err)
		os.Exit(1)
	}
}

func castInt64Slice(val any) []int64 {
	// env overrides arrive as a single comma separated string
	if s, ok := val.(string); ok {
		val = strings.Split(s, ",")
	}
	ints := cast.ToIntSlice(val)
	out := make([]int64, len(ints))
	for i, v := range ints {
		out[i] = int64(v)
	}
	return out
}
