package main

import (
	"flag"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/albadr/lighting-pos/internal/config"
	"github.com/albadr/lighting-pos/internal/model"
	"github.com/albadr/lighting-pos/pkg/database"
)

// Emergency password reset. Requires RESET_SECRET from the environment
// to match the -secret flag so a stray shell cannot reset accounts.
func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	email := flag.String("email", "", "account email to reset")
	password := flag.String("password", "", "new password (min 6 characters)")
	secret := flag.String("secret", "", "must match RESET_SECRET")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.ResetSecret == "" {
		log.Fatal().Msg("RESET_SECRET is not set, refusing to run")
	}
	if *secret != cfg.ResetSecret {
		log.Fatal().Msg("secret mismatch")
	}
	if *email == "" || len(*password) < 6 {
		log.Fatal().Msg("usage: reset-password -email <email> -password <min 6 chars> -secret <RESET_SECRET>")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	var user model.User
	if err := db.Where("email = ?", *email).First(&user).Error; err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("user not found")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	// Rotate the token version too so open sessions die with the old
	// password.
	updates := map[string]interface{}{
		"password":      string(hashed),
		"token_version": uuid.New().String(),
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to update password")
	}

	log.Info().Str("email", *email).Msg("password reset, sessions invalidated")
}
