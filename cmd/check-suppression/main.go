// check-suppression looks up one email address on the SES suppression list
// and optionally removes it.
//
//	check-suppression user@example.com           check only
//	check-suppression -remove user@example.com   check, then remove if present
//
// Credentials come from AWS_SES_ACCESS_KEY / AWS_SES_SECRET_KEY /
// AWS_SES_REGION (or a .env file).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ignite/suppression-api/internal/config"
	"github.com/ignite/suppression-api/internal/logging"
	"github.com/ignite/suppression-api/internal/suppression"
)

func main() {
	remove := flag.Bool("remove", false, "remove the address if it is suppressed")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-remove] <email-address>\n", os.Args[0])
		os.Exit(1)
	}

	email := strings.TrimSpace(flag.Arg(0))
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		fmt.Fprintf(os.Stderr, "Invalid email address: %q\n", email)
		os.Exit(1)
	}

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	// Text logs for an interactive tool
	logging.Setup(logging.Config{Level: "warning", Format: "text"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := suppression.NewClient(ctx, cfg.AWS)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create SES client: %v\n", err)
		os.Exit(1)
	}

	status, err := client.Check(ctx, email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error checking suppression: %v\n", err)
		os.Exit(1)
	}

	if !status.Suppressed {
		fmt.Printf("Email %q is NOT in the suppression list.\n", email)
		return
	}

	fmt.Println("Found suppression:")
	fmt.Printf(" - Reason: %s\n", status.Reason)
	fmt.Printf(" - Last update: %s\n", status.LastUpdateTime.UTC().Format(time.RFC3339))

	if !*remove {
		return
	}

	if _, err := client.Remove(ctx, email); err != nil {
		if errors.Is(err, suppression.ErrNotSuppressed) {
			fmt.Printf("Email %q is NOT in the suppression list.\n", email)
			return
		}
		fmt.Fprintf(os.Stderr, "Error removing suppression: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Email %q has been removed from the suppression list.\n", email)
}
