// Package config provides configuration management for the sync daemon.
//
// Environment configuration (engine tunables, paths, logging, optional
// database/mirror/status settings) loads through Viper with defaults taken
// from 'default' struct tags, optionally overlaid by a .env file.
//
// Two declarative JSON files complete the picture: the router list
// (addresses, credentials, per-access-kind enables and limits, manual parent
// pools) and the static device list. The router list is read at startup;
// the static device list is re-read every reconciliation cycle.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	routers, err := config.LoadRouters(cfg.Paths.RoutersPath)
package config
