package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/goinglive/internal/flagx"
)

func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-f", "-m"})

	fs := flag.NewFlagSet("editor", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.StateDBPath, "f", cfg.StateDBPath, "local state database file")
	maxUploadMB := fs.Int64("m", cfg.MaxUploadSize>>20, "max upload size (in megabytes)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.MaxUploadSize = *maxUploadMB << 20
	return nil
}
