package observe_test

import (
	"context"
	"fmt"
	"os"

	"github.com/jonwraymond/kubeinsights/observe"
)

func ExampleNewObserver() {
	cfg := observe.Config{
		ServiceName: "kubeinsights",
		Version:     "1.0.0",
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}

	obs, err := observe.NewObserver(context.Background(), cfg)
	if err != nil {
		fmt.Println("setup failed:", err)
		return
	}
	defer obs.Shutdown(context.Background())

	fmt.Println("observer ready:", obs.Logger() != nil)
	// Output:
	// observer ready: true
}

func ExampleNewLoggerWithWriter() {
	logger := observe.NewLoggerWithWriter("debug", os.Stdout)

	// Query text is redacted automatically; coordinates are not.
	scoped := logger.WithComponent("cache")
	_ = scoped

	fmt.Println("logger ready")
	// Output:
	// logger ready
}

func ExampleMiddleware_WrapCompute() {
	obs, err := observe.NewObserver(context.Background(), observe.Config{
		ServiceName: "kubeinsights",
	})
	if err != nil {
		fmt.Println("setup failed:", err)
		return
	}

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		fmt.Println("middleware failed:", err)
		return
	}

	meta := observe.ComputeMeta{Namespace: "response", Category: "deployments"}
	compute := mw.WrapCompute(meta, func(ctx context.Context) (any, error) {
		// Normally this calls the AI provider.
		return "rollout is healthy", nil
	})

	insight, _ := compute(context.Background())
	fmt.Println(insight)
	// Output:
	// rollout is healthy
}
