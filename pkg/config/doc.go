// Package config loads env-tagged structs from the environment and optional
// dotenv files using caarlos0/env and joho/godotenv.
package config
