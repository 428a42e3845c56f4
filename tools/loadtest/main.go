package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/devaloi/postboard/internal/api"
)

func main() {
	base := flag.String("api", "http://localhost:8000/api/v1", "Posts API base URL")
	liveURL := flag.String("live", "", "Optional live socket URL, e.g. ws://localhost:5173/live")
	clients := flag.Int("clients", 10, "Number of concurrent clients")
	posts := flag.Int("posts", 10, "Posts per client")
	viewers := flag.Int("viewers", 5, "Live viewers to connect when -live is set")
	flag.Parse()

	slog.Info("load test", "clients", *clients, "posts", *posts, "api", *base)

	c, err := api.New(*base, api.WithTimeout(10*time.Second))
	if err != nil {
		slog.Error("client", "err", err)
		os.Exit(1)
	}

	var (
		created   int64
		frames    int64
		errors    int64
		latencies []time.Duration
		latencyMu sync.Mutex
		wg        sync.WaitGroup
	)

	var conns []*websocket.Conn
	var readers sync.WaitGroup
	if *liveURL != "" {
		for i := 0; i < *viewers; i++ {
			conn, _, err := websocket.DefaultDialer.Dial(*liveURL, nil)
			if err != nil {
				atomic.AddInt64(&errors, 1)
				slog.Warn("viewer dial error", "viewer", i, "err", err)
				continue
			}
			conns = append(conns, conn)
			readers.Add(1)
			go func() {
				defer readers.Done()
				for {
					if _, _, err := conn.ReadMessage(); err != nil {
						return
					}
					atomic.AddInt64(&frames, 1)
				}
			}()
		}
	}

	ctx := context.Background()
	start := time.Now()

	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < *posts; j++ {
				sendTime := time.Now()
				if _, err := c.Create(ctx, fmt.Sprintf("post %d from client %d", j, id)); err != nil {
					atomic.AddInt64(&errors, 1)
					slog.Warn("create failed", "client", id, "err", err)
					continue
				}
				atomic.AddInt64(&created, 1)
				lat := time.Since(sendTime)
				latencyMu.Lock()
				latencies = append(latencies, lat)
				latencyMu.Unlock()
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	listStart := time.Now()
	all, err := c.ListAll(ctx)
	listLatency := time.Since(listStart)
	if err != nil {
		atomic.AddInt64(&errors, 1)
	}

	if len(conns) > 0 {
		// Give the frontend time to push the last frames.
		time.Sleep(500 * time.Millisecond)
		for _, conn := range conns {
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		}
		readers.Wait()
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fmt.Println("\n=== Load Test Results ===")
	fmt.Printf("Duration:    %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("Created:     %d posts\n", created)
	fmt.Printf("Listed:      %d posts in %s\n", len(all), listLatency.Round(time.Millisecond))
	if len(conns) > 0 {
		fmt.Printf("Frames:      %d across %d viewers\n", frames, len(conns))
	}
	fmt.Printf("Errors:      %d\n", errors)
	if len(latencies) > 0 {
		fmt.Printf("Latency p50: %s\n", percentile(latencies, 50))
		fmt.Printf("Latency p95: %s\n", percentile(latencies, 95))
		fmt.Printf("Latency p99: %s\n", percentile(latencies, 99))
	}
	fmt.Printf("Throughput:  %.0f posts/sec\n", float64(created)/elapsed.Seconds())
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
