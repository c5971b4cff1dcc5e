// Command token mints an access token for an operator, signed with JWT_SECRET_KEY.
//
//	go run ./cmd/token -user ops-1 -name "Payroll Desk"
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/factory-erp-go/internal/config"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "user id placed in the user_id claim")
	name := flag.String("name", "", "display name recorded as the importer")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	svc, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Invalid JWT configuration:", err)
		os.Exit(1)
	}

	token, expiresAt, err := svc.GenerateAccessToken(*userID, *name)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
