package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"

	"opshell/internal/config"
	"opshell/internal/registry"
	"opshell/internal/repository"
	"opshell/internal/shell"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Diagnostic tool: prints a tenant's configuration as the shell would see it,
// either straight from the database or through the HTTP API.
func main() {
	var tenantID = flag.String("tenant", "", "Tenant ID to inspect")
	var viaAPI = flag.Bool("api", false, "Fetch through the HTTP API instead of the database")
	var showNav = flag.Bool("nav", false, "Print the navigation the shell would build")
	flag.Parse()

	if *tenantID == "" {
		log.Fatal("usage: check-tenant-config -tenant <id> [-api] [-nav]")
	}

	cfg := config.Load()
	ctx := context.Background()
	reg := registry.Default()

	if *viaAPI {
		logger := zap.NewNop()
		client := shell.NewAPIClient(cfg.Tenant.APIBase, logger)
		conf, err := client.FetchConfig(ctx, *tenantID)
		if err != nil {
			log.Fatalf("Failed to fetch tenant config via API: %v", err)
		}
		printConfig(conf.TenantName, conf.Industry, conf.EnabledModules, conf)
		if *showNav {
			printNavigation(reg, conf.EnabledModules)
		}
		return
	}

	db, err := sql.Open("postgres", cfg.Database.GetDSN())
	if err != nil {
		log.Fatalf("Cannot open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}

	repo := repository.NewPostgresTenantConfigsRepo(db)
	conf, err := repo.GetConfig(ctx, *tenantID)
	if err != nil {
		log.Fatalf("Failed to load tenant config: %v", err)
	}
	printConfig(conf.TenantName, conf.Industry, conf.EnabledModules, conf)
	if unknown := reg.UnknownKeys(conf.EnabledModules); len(unknown) > 0 {
		fmt.Printf("WARNING: unknown module keys: %s\n", strings.Join(unknown, ", "))
	}
	if *showNav {
		printNavigation(reg, conf.EnabledModules)
	}
}

func printConfig(name, industry string, modules []string, full any) {
	fmt.Printf("Tenant:   %s\n", name)
	fmt.Printf("Industry: %s\n", industry)
	fmt.Printf("Modules:  %s\n\n", strings.Join(modules, ", "))
	raw, _ := json.MarshalIndent(full, "", "  ")
	fmt.Println(string(raw))
}

func printNavigation(reg *registry.Registry, modules []string) {
	fmt.Println("\nNavigation:")
	for _, item := range reg.BuildNavigation(modules) {
		fmt.Printf("  %-14s %s\n", item.Label, item.Path)
	}
}
