// Command issue_token mints a bearer token for the credit API using the
// server's JWT_SECRET and JWT_ISSUER. Accounts and login live outside this
// service, so operators use it to hand out admin and student tokens.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/middleware"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/platform/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	subject := flag.String("sub", "", "user id placed in the sub claim (student id for students)")
	role := flag.String("role", string(middleware.RoleStudent), "role claim: admin or student")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *role != string(middleware.RoleAdmin) && *role != string(middleware.RoleStudent) {
		logger.Error("Unknown role", slog.String("role", *role))
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	token, err := middleware.IssueToken(*subject, middleware.Role(*role), cfg.JWTSecret, *ttl, cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to issue token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(token)
}
