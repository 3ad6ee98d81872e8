// Package main mints development access tokens for the a2admin API.
// Tokens are signed with the dev JWT secret and will NOT verify in production.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	jwttoken "a2admin/internal/jwt_token"
	"a2admin/internal/seeder"
	id "a2admin/pkg/domain"
)

const (
	// devSigningKey matches the SUPABASE_JWT_SECRET default in config.
	devSigningKey   = "dev-secret-key-change-in-production"
	defaultTokenTTL = time.Hour
)

type tokenOutput struct {
	Token     string            `json:"token"`
	ExpiresIn string            `json:"expires_in"`
	Subject   string            `json:"sub"`
	Email     string            `json:"email,omitempty"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	principal := flag.String("principal-id", "", "Principal ID (UUID). Derived from -email like the demo seed, or random.")
	email := flag.String("email", "", "Email claim")
	secret := flag.String("secret", devSigningKey, "HS256 signing secret")
	ttl := flag.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	jsonOutput := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	pid := parseOrGenerateUUID(*principal)
	if *principal == "" && *email != "" {
		pid = uuid.UUID(seeder.PrincipalFor(*email))
	}
	svc := jwttoken.NewJWTService(*secret, jwttoken.DefaultAudience, *ttl)

	token, err := svc.GenerateAccessToken(context.Background(), id.PrincipalID(pid), *email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if *jsonOutput {
		printJSON(tokenOutput{
			Token:     token,
			ExpiresIn: ttl.String(),
			Subject:   pid.String(),
			Email:     *email,
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
				"note":   "the principal needs an app_users row to pass the admin guards",
			},
		})
		return
	}

	fmt.Println("Access Token (JWT)")
	fmt.Println("==================")
	fmt.Printf("Expires In:   %s\n", ttl)
	fmt.Printf("Principal ID: %s\n", pid)
	if *email != "" {
		fmt.Printf("Email:        %s\n", *email)
	}
	fmt.Println()
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" -H \"X-Device-ID: dev\" http://localhost:8080/api/tenant-context")
}

func parseOrGenerateUUID(input string) uuid.UUID {
	if input == "" {
		return uuid.New()
	}
	parsed, err := uuid.Parse(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid principal-id UUID: %s\n", input)
		os.Exit(1)
	}
	return parsed
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
