// cmd/preflight/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	admin := strings.TrimSpace(os.Getenv("ADMIN_API_KEYS"))
	pub := strings.TrimSpace(os.Getenv("PUBLIC_API_KEYS"))
	apiAddr := strings.TrimSpace(os.Getenv("API_ADDR"))
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	allowed := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS"))
	ref := strings.TrimSpace(os.Getenv("REPORT_REFERENCE_TIME"))

	if admin == "" {
		fail("ADMIN_API_KEYS is empty (report trigger will 403).")
	}
	if pub == "" {
		fail("PUBLIC_API_KEYS is empty (report fetch will 401).")
	}

	// Normalize and sanity-check lists (no spaces around commas).
	for name, v := range map[string]string{"ADMIN_API_KEYS": admin, "PUBLIC_API_KEYS": pub} {
		if strings.Contains(v, " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}

	if apiAddr == "" {
		warn("API_ADDR is empty; default in your app may be used.")
	} else {
		ok("API_ADDR=" + apiAddr)
	}

	if db == "" {
		warn("DATABASE_URL empty — API will use in-memory stores unless overridden at runtime.")
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pool, err := pgxpool.New(ctx, db)
		if err != nil {
			fail("DATABASE_URL invalid: " + err.Error())
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			fail("database unreachable: " + err.Error())
		}
		pool.Close()
		ok("DATABASE_URL present and reachable")
	}

	if allowed == "" {
		warn("ALLOWED_ORIGINS empty — browser will be blocked by CORS for cross-origin requests.")
	} else {
		ok("ALLOWED_ORIGINS=" + allowed)
	}

	if ref != "" {
		if _, err := time.Parse(time.RFC3339, ref); err != nil {
			fail("REPORT_REFERENCE_TIME is not RFC3339: " + ref)
		}
		ok("REPORT_REFERENCE_TIME=" + ref)
	}

	ok("preflight passed")
}
