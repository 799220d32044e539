package resilience_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/kubeinsights/resilience"
)

func ExampleCircuitBreaker() {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		MaxFailures:  2,
		ResetTimeout: time.Minute,
	})

	providerDown := errors.New("provider unavailable")
	call := func(ctx context.Context) error { return providerDown }

	for i := 0; i < 3; i++ {
		err := cb.Execute(context.Background(), call)
		fmt.Println(err)
	}

	// Output:
	// provider unavailable
	// provider unavailable
	// resilience: circuit open
}

func ExampleRetry() {
	r := resilience.NewRetry(resilience.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
	})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	fmt.Println(err, attempts)
	// Output: <nil> 3
}

func ExampleRateLimiter() {
	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{
		Rate:  1,
		Burst: 2,
	})

	for i := 0; i < 3; i++ {
		fmt.Println(rl.Allow())
	}

	// Output:
	// true
	// true
	// false
}

func ExampleExecutor() {
	guard := resilience.NewExecutor(
		resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:  10,
			Burst: 5,
		})),
		resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			MaxFailures: 5,
		})),
		resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 10 * time.Millisecond,
		})),
		resilience.WithTimeout(15*time.Second),
	)

	err := guard.Execute(context.Background(), func(ctx context.Context) error {
		// Call the AI provider here.
		return nil
	})
	fmt.Println(err)
	// Output: <nil>
}
