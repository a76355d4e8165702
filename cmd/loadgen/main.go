package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"sort"
	"sync"
	"time"

	"github.com/atharv3903/itsroute/internal/cache"
	"github.com/atharv3903/itsroute/internal/model"
)

type result struct {
	latencies []time.Duration
	total     int64
	errors    int64
	hits      int64
	outcomes  map[string]int64
}

func main() {
	server := flag.String("server", "http://127.0.0.1:8080", "server base URL")
	duration := flag.Duration("duration", 30*time.Second, "test duration")
	clients := flag.Int("clients", 1, "concurrent closed-loop clients, each with its own session")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	nodes, err := loadNodes(client, *server)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Loaded %d nodes", len(nodes))

	// clear cache before test to avoid cumulative stats
	resp, err := client.Post(*server+"/debug/clear_cache", "text/plain", nil)
	if err != nil {
		log.Fatalf("failed to clear cache: %v", err)
	}
	resp.Body.Close()
	log.Println("Cache cleared")

	log.Printf("Running loadgen for %v with %d clients…", *duration, *clients)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		agg = result{outcomes: map[string]int64{}}
	)

	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r := runClient(ctx, *server, nodes, seed)

			mu.Lock()
			agg.latencies = append(agg.latencies, r.latencies...)
			agg.total += r.total
			agg.errors += r.errors
			agg.hits += r.hits
			for k, v := range r.outcomes {
				agg.outcomes[k] += v
			}
			mu.Unlock()
		}(time.Now().UnixNano() + int64(i))
	}
	wg.Wait()

	var stats cache.Stats
	if resp, err := client.Get(*server + "/debug/routecache_stats"); err == nil {
		json.NewDecoder(resp.Body).Decode(&stats)
		resp.Body.Close()
	}

	printSummary(agg, stats, *duration)
}

// runClient issues requests back to back until ctx ends. Each client keeps a
// cookie jar so it behaves like one browser session.
func runClient(ctx context.Context, server string, nodes []string, seed int64) result {
	jar, _ := cookiejar.New(nil)
	client := &http.Client{Timeout: 5 * time.Second, Jar: jar}
	rnd := rand.New(rand.NewSource(seed))
	res := result{outcomes: map[string]int64{}}

	for ctx.Err() == nil {
		body, _ := json.Marshal(model.RouteRequest{
			Start: nodes[rnd.Intn(len(nodes))],
			End:   nodes[rnd.Intn(len(nodes))],
		})

		start := time.Now()
		resp, err := client.Post(server+"/api/route", "application/json", bytes.NewReader(body))
		lat := time.Since(start)

		res.total++
		if err != nil {
			res.errors++
			continue
		}

		var rr model.RouteResponse
		err = json.NewDecoder(resp.Body).Decode(&rr)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK {
			res.errors++
			continue
		}

		res.latencies = append(res.latencies, lat)
		res.outcomes[rr.Outcome]++
		if rr.CacheHit {
			res.hits++
		}
	}
	return res
}

func loadNodes(client *http.Client, server string) ([]string, error) {
	resp, err := client.Get(server + "/api/nodes")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var nr model.NodesResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return nil, err
	}
	if len(nr.Nodes) == 0 {
		return nil, fmt.Errorf("server returned no nodes")
	}

	ids := make([]string, 0, len(nr.Nodes))
	for _, n := range nr.Nodes {
		ids = append(ids, n.ID)
	}
	return ids, nil
}

func printSummary(r result, stats cache.Stats, dur time.Duration) {
	fmt.Println("\n========== LOADGEN SUMMARY ==========")
	fmt.Printf("Total Requests: %d\n", r.total)
	fmt.Printf("Errors: %d\n", r.errors)
	fmt.Printf("Throughput: %.2f req/s\n", float64(r.total)/dur.Seconds())
	for k, v := range r.outcomes {
		fmt.Printf("Outcome %s: %d\n", k, v)
	}

	if found := r.outcomes["found"]; found > 0 {
		fmt.Printf("RouteCache Hit Rate: %.1f%%\n", float64(r.hits)/float64(found)*100)
	}
	fmt.Printf("RouteCache (server): gets=%d hits=%d puts=%d evictions=%d size=%d\n",
		stats.Gets, stats.Hits, stats.Puts, stats.Evictions, stats.Size)

	if len(r.latencies) > 0 {
		sort.Slice(r.latencies, func(i, j int) bool { return r.latencies[i] < r.latencies[j] })
		var sum time.Duration
		for _, l := range r.latencies {
			sum += l
		}
		pct := func(p float64) time.Duration {
			i := int(float64(len(r.latencies)) * p)
			if i >= len(r.latencies) {
				i = len(r.latencies) - 1
			}
			return r.latencies[i]
		}

		fmt.Printf("Avg Latency: %v\n", sum/time.Duration(len(r.latencies)))
		fmt.Printf("P50: %v  P95: %v  P99: %v\n", pct(0.50), pct(0.95), pct(0.99))
		fmt.Printf("Fastest: %v\n", r.latencies[0])
		fmt.Printf("Slowest: %v\n", r.latencies[len(r.latencies)-1])
	}

	fmt.Println("=====================================")
}
