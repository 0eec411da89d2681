// Package config provides configuration management for rxplay.
//
// Configuration is loaded from environment variables using the env package.
// All configuration values have sensible defaults for development use. The
// hello-world server port is fixed and not configurable.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("demos will call %s\n", cfg.ServerURL)
package config
