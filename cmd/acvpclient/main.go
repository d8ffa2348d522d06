// A vector-set processing client for NIST's Automated Cryptographic
// Validation Protocol, currently wired for the Triple-DES symmetric-cipher
// algorithms.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/nist-labs/acvp-client/internal/action"
	"github.com/nist-labs/acvp-client/internal/acvplog"
	"github.com/nist-labs/acvp-client/internal/dispatch"
	"github.com/nist-labs/acvp-client/internal/dutstub"
	"github.com/nist-labs/acvp-client/internal/session"
	"github.com/nist-labs/acvp-client/internal/symmetric"
	"github.com/nist-labs/acvp-client/internal/transport"
)

const version = "dev"

func main() {
	getVersion := flag.Bool("version", false, "Print the version and exit.")
	server := flag.String("server", "https://demo.acvts.nist.gov", "ACVP server base URL.")
	vsID := flag.Int("vs", 0, "Vector set ID to fetch and process.")
	envFile := flag.String("env", ".env", "Optional .env file with ACVP_TOTP_SEED / ACVP_PASSWORD.")

	flag.Parse()
	logger := log.New(os.Stdout, "acvpclient: ", log.Ltime)
	acvplog.SetLogger(logger)

	if *getVersion {
		logger.Printf("acvpclient %s\n", version)
		os.Exit(0)
	}

	if err := godotenv.Load(*envFile); err != nil {
		logger.Printf("no .env file loaded from %q: %v", *envFile, err)
	}

	if *vsID == 0 {
		logger.Fatal("missing -vs <vector set id>")
	}

	creds := session.Credentials{
		Password: os.Getenv("ACVP_PASSWORD"),
		TotpSeed: os.Getenv("ACVP_TOTP_SEED"),
	}

	client := transport.New(transport.Config{
		BaseURL:   *server,
		UserAgent: userAgentString(),
	})
	ctrl := session.New(client, creds)
	coord := action.New(client, ctrl)

	dut := dutstub.New()
	handler := symmetric.NewHandler(dut)
	router := dispatch.New()
	router.RegisterSymmetric(handler)

	if err := run(context.Background(), coord, router, *vsID); err != nil {
		logger.Fatal(err)
	}
}

func run(ctx context.Context, coord *action.Coordinator, router *dispatch.Dispatcher, vsID int) error {
	vsJSON, err := coord.FetchVectorSet(ctx, vsID)
	if err != nil {
		return fmt.Errorf("fetching vector set %d: %w", vsID, err)
	}

	algorithm, err := algorithmName(vsJSON)
	if err != nil {
		return fmt.Errorf("reading vector set %d: %w", vsID, err)
	}

	doc, err := router.Dispatch(algorithm, vsJSON)
	if err != nil {
		return fmt.Errorf("processing vector set %d: %w", vsID, err)
	}

	resultJSON, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("encoding result for vector set %d: %w", vsID, err)
	}

	if err := coord.SubmitVectorSetResult(ctx, vsID, resultJSON); err != nil {
		return fmt.Errorf("submitting result for vector set %d: %w", vsID, err)
	}

	acvplog.Printf("session[%s]: vector set %d (%s): submitted", coord.SessionID(), vsID, algorithm)
	return nil
}
