package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/skudd/internal/demo"
	"github.com/okian/skudd/pkg/logger"
)

const defaultTimeout = 10 * time.Second

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx := context.Background()
	if err := demo.NewRunner(*baseURL, *timeout).Run(ctx); err != nil {
		logger.Get().Error(ctx, "demo match failed", logger.Error(err))
		os.Exit(1)
	}
}
