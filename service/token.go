package service

import (
	"flag"
	"fmt"
	"os"
	"time"

	"modboard/app/identity"
	"modboard/app/models"
)

// RunTokenCommand mints a development bearer token.
func RunTokenCommand(cfg Config, args []string) int {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)
	clerkID := fs.String("clerk-id", "", "subject of the token (required)")
	role := fs.String("role", "", "user, moderator or admin; empty uses the stored role")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *clerkID == "" {
		fmt.Println("Error: --clerk-id is required")
		return 1
	}
	var r models.Role
	if *role != "" {
		parsed, ok := models.ParseRole(*role)
		if !ok {
			fmt.Printf("Error: unknown role %q\n", *role)
			return 1
		}
		r = parsed
	}
	if cfg.JWTSecret == "" {
		fmt.Println("Error: MODBOARD_JWT_SECRET is not set")
		return 1
	}

	token, err := identity.Sign([]byte(cfg.JWTSecret), *clerkID, r, *ttl)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	fmt.Println(token)
	return 0
}
