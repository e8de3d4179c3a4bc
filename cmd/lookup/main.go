package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zatekoja/Medicarecoveragechecker/internal/adapters/sources/datacatalog"
	"github.com/zatekoja/Medicarecoveragechecker/internal/adapters/sources/datastore"
	"github.com/zatekoja/Medicarecoveragechecker/internal/adapters/sources/pfssearch"
	"github.com/zatekoja/Medicarecoveragechecker/internal/application/services"
	"github.com/zatekoja/Medicarecoveragechecker/internal/domain/entities"
	"github.com/zatekoja/Medicarecoveragechecker/internal/infrastructure/clients/cms"
	"github.com/zatekoja/Medicarecoveragechecker/internal/infrastructure/observability"
	"github.com/zatekoja/Medicarecoveragechecker/internal/tools"
	"github.com/zatekoja/Medicarecoveragechecker/pkg/config"
	apperrors "github.com/zatekoja/Medicarecoveragechecker/pkg/errors"
)

func main() {
	var code string
	var locality string
	var timeoutSeconds int
	flag.StringVar(&code, "code", "", "HCPCS or CPT code to look up (e.g. 99213)")
	flag.StringVar(&locality, "locality", entities.DefaultLocality, "geographic locality for pricing")
	flag.IntVar(&timeoutSeconds, "timeout", 0, "per-source query timeout in seconds (overrides CMS_QUERY_TIMEOUT_SECONDS)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if timeoutSeconds > 0 {
		cfg.CMS.QueryTimeoutSeconds = timeoutSeconds
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "production"
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-lookup", env)
	observability.SetLevel(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := cms.NewClient(time.Duration(cfg.CMS.QueryTimeoutSeconds) * time.Second)

	service := services.NewLookupService(
		pfssearch.NewWithOptions(client, cfg.CMS.PFSSearchURL),
		datacatalog.NewWithOptions(client, cfg.CMS.DataAPIBaseURL),
		datastore.NewWithOptions(client, cfg.CMS.DataAPIBaseURL),
	)

	info, err := service.Lookup(ctx, code, locality)
	if err != nil {
		if apperrors.IsValidation(err) {
			fmt.Fprintln(os.Stderr, "Error: Please provide a valid HCPCS or CPT code (-code)")
			flag.Usage()
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rendered, err := tools.RenderLookupResponse(info)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(rendered)
}
