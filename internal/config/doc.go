// Package config loads, normalizes, and validates saveshelf configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SAVESHELF_ACCOUNT_ID. The Config type centralizes the save roots, metadata
// database locations, remote catalog settings and mount profiles the CLI needs.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
