// Package config loads typed configuration structs from environment
// variables using caarlos0/env struct tags, with optional .env file
// support via godotenv.
//
// Each configuration type is parsed once per process and cached, so
// packages can call Load for their own config without coordinating
// initialization order.
package config
