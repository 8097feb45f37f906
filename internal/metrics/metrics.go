package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Simple Prometheus-style metrics for HTTP requests and trivia
// generation. This is intentionally minimal and in-memory only.

var (
	mu             sync.RWMutex
	requestsTotal  = make(map[reqKey]int64)
	latencyMsSum   = make(map[latKey]int64)
	latencyMsCount = make(map[latKey]int64)

	movieSearchesTotal      int64
	movieSearchResultsTotal int64

	factGenerations = make(map[genKey]int64)
	factsReturned   = make(map[string]int64)
)

type reqKey struct {
	Method string
	Path   string
	Status int
}

type latKey struct {
	Method string
	Path   string
}

type genKey struct {
	Provider string
	Model    string
	Outcome  string
}

// RecordRequest increments request counter and records latency.
func RecordRequest(method, path string, status int, latencyMs int64) {
	mu.Lock()
	defer mu.Unlock()

	rk := reqKey{Method: method, Path: path, Status: status}
	requestsTotal[rk]++

	lk := latKey{Method: method, Path: path}
	latencyMsSum[lk] += latencyMs
	latencyMsCount[lk]++
}

// RecordMovieSearch records one search request and how many results it
// returned.
func RecordMovieSearch(results int) {
	mu.Lock()
	defer mu.Unlock()

	movieSearchesTotal++
	if results > 0 {
		movieSearchResultsTotal += int64(results)
	}
}

// RecordFactGeneration records the outcome of one trivia generation
// attempt. Outcome is one of "success", "placeholder", "empty", or
// "error".
func RecordFactGeneration(provider, model, outcome string, factCount int) {
	mu.Lock()
	defer mu.Unlock()

	key := genKey{Provider: provider, Model: model, Outcome: outcome}
	factGenerations[key]++

	if factCount > 0 {
		factsReturned[provider] += int64(factCount)
	}
}

// Export returns Prometheus-style metrics text.
func Export() string {
	mu.RLock()
	defer mu.RUnlock()

	var b strings.Builder

	b.WriteString("# HELP filmtrivia_http_requests_total Total HTTP requests\n")
	b.WriteString("# TYPE filmtrivia_http_requests_total counter\n")

	// Sort keys for stable output
	var reqKeys []reqKey
	for k := range requestsTotal {
		reqKeys = append(reqKeys, k)
	}
	sort.Slice(reqKeys, func(i, j int) bool {
		if reqKeys[i].Method != reqKeys[j].Method {
			return reqKeys[i].Method < reqKeys[j].Method
		}
		if reqKeys[i].Path != reqKeys[j].Path {
			return reqKeys[i].Path < reqKeys[j].Path
		}
		return reqKeys[i].Status < reqKeys[j].Status
	})

	for _, k := range reqKeys {
		v := requestsTotal[k]
		fmt.Fprintf(&b, "filmtrivia_http_requests_total{method=\"%s\",path=\"%s\",status=\"%d\"} %d\n",
			k.Method, k.Path, k.Status, v)
	}

	b.WriteString("# HELP filmtrivia_http_request_duration_ms_sum Total request duration in milliseconds\n")
	b.WriteString("# TYPE filmtrivia_http_request_duration_ms_sum counter\n")
	b.WriteString("# HELP filmtrivia_http_request_duration_ms_count Request count for latency metric\n")
	b.WriteString("# TYPE filmtrivia_http_request_duration_ms_count counter\n")

	var latKeys []latKey
	for k := range latencyMsSum {
		latKeys = append(latKeys, k)
	}
	sort.Slice(latKeys, func(i, j int) bool {
		if latKeys[i].Method != latKeys[j].Method {
			return latKeys[i].Method < latKeys[j].Method
		}
		return latKeys[i].Path < latKeys[j].Path
	})

	for _, k := range latKeys {
		sum := latencyMsSum[k]
		cnt := latencyMsCount[k]
		fmt.Fprintf(&b, "filmtrivia_http_request_duration_ms_sum{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, sum)
		fmt.Fprintf(&b, "filmtrivia_http_request_duration_ms_count{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, cnt)
	}

	// Movie search metrics
	b.WriteString("# HELP filmtrivia_movie_searches_total Total movie search requests\n")
	b.WriteString("# TYPE filmtrivia_movie_searches_total counter\n")
	fmt.Fprintf(&b, "filmtrivia_movie_searches_total %d\n", movieSearchesTotal)

	b.WriteString("# HELP filmtrivia_movie_search_results_total Total movie search results returned\n")
	b.WriteString("# TYPE filmtrivia_movie_search_results_total counter\n")
	fmt.Fprintf(&b, "filmtrivia_movie_search_results_total %d\n", movieSearchResultsTotal)

	// Fact generation metrics
	b.WriteString("# HELP filmtrivia_fact_generations_total Total trivia generation attempts\n")
	b.WriteString("# TYPE filmtrivia_fact_generations_total counter\n")

	var genKeys []genKey
	for k := range factGenerations {
		genKeys = append(genKeys, k)
	}
	sort.Slice(genKeys, func(i, j int) bool {
		if genKeys[i].Provider != genKeys[j].Provider {
			return genKeys[i].Provider < genKeys[j].Provider
		}
		if genKeys[i].Model != genKeys[j].Model {
			return genKeys[i].Model < genKeys[j].Model
		}
		return genKeys[i].Outcome < genKeys[j].Outcome
	})

	for _, k := range genKeys {
		v := factGenerations[k]
		fmt.Fprintf(&b, "filmtrivia_fact_generations_total{provider=\"%s\",model=\"%s\",outcome=\"%s\"} %d\n",
			k.Provider, k.Model, k.Outcome, v)
	}

	b.WriteString("# HELP filmtrivia_facts_returned_total Total facts returned by provider\n")
	b.WriteString("# TYPE filmtrivia_facts_returned_total counter\n")

	var providers []string
	for p := range factsReturned {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	for _, p := range providers {
		v := factsReturned[p]
		fmt.Fprintf(&b, "filmtrivia_facts_returned_total{provider=\"%s\"} %d\n", p, v)
	}

	return b.String()
}
