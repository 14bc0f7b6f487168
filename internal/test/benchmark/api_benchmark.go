// Package benchmark load-tests a running server.
package benchmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"
)

// APIBenchmark fires Requests calls at BaseURL with at most Concurrency in flight.
type APIBenchmark struct {
	BaseURL     string
	Concurrency int
	Requests    int
	AuthToken   string
	Client      *http.Client
}

// BenchmarkResult summarizes one run.
type BenchmarkResult struct {
	URL            string        `json:"url"`
	Method         string        `json:"method"`
	Concurrency    int           `json:"concurrency"`
	TotalRequests  int           `json:"total_requests"`
	SuccessCount   int           `json:"success_count"`
	ThrottledCount int           `json:"throttled_count"`
	FailureCount   int           `json:"failure_count"`
	TotalTime      time.Duration `json:"total_time"`
	AverageTime    time.Duration `json:"average_time"`
	P95Time        time.Duration `json:"p95_time"`
	MaxTime        time.Duration `json:"max_time"`
	RequestsPerSec float64       `json:"requests_per_sec"`
	StatusCodes    map[int]int   `json:"status_codes"`
	Errors         []string      `json:"errors"`
}

type requestResult struct {
	duration   time.Duration
	statusCode int
	err        error
}

func NewAPIBenchmark(baseURL string, concurrency, requests int, authToken string) *APIBenchmark {
	return &APIBenchmark{
		BaseURL:     baseURL,
		Concurrency: concurrency,
		Requests:    requests,
		AuthToken:   authToken,
		Client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (b *APIBenchmark) RunGET(path string) *BenchmarkResult {
	return b.run(http.MethodGet, b.BaseURL+path, nil)
}

// Do sends a single request and decodes the response envelope into out.
func (b *APIBenchmark) Do(method, path string, payload, out interface{}) (int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(data)
	}
	req, err := b.newRequest(method, b.BaseURL+path, body)
	if err != nil {
		return 0, err
	}
	resp, err := b.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, err
	}
	return resp.StatusCode, json.NewDecoder(resp.Body).Decode(out)
}

func (b *APIBenchmark) newRequest(method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if b.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+b.AuthToken)
	}
	return req, nil
}

func (b *APIBenchmark) run(method, url string, payload []byte) *BenchmarkResult {
	results := make(chan requestResult, b.Requests)
	limiter := make(chan struct{}, b.Concurrency)
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < b.Requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter <- struct{}{}
			defer func() { <-limiter }()

			begin := time.Now()
			req, err := b.newRequest(method, url, bytes.NewReader(payload))
			if err != nil {
				results <- requestResult{err: err}
				return
			}
			resp, err := b.Client.Do(req)
			if err != nil {
				results <- requestResult{err: err}
				return
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			results <- requestResult{duration: time.Since(begin), statusCode: resp.StatusCode}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	res := &BenchmarkResult{
		URL:           url,
		Method:        method,
		Concurrency:   b.Concurrency,
		TotalRequests: b.Requests,
		StatusCodes:   make(map[int]int),
	}
	var durations []time.Duration
	var total time.Duration
	for r := range results {
		if r.err != nil {
			res.FailureCount++
			res.Errors = append(res.Errors, r.err.Error())
			continue
		}
		durations = append(durations, r.duration)
		total += r.duration
		res.StatusCodes[r.statusCode]++
		switch {
		case r.statusCode >= 200 && r.statusCode < 300:
			res.SuccessCount++
		case r.statusCode == http.StatusTooManyRequests:
			res.ThrottledCount++
		default:
			res.FailureCount++
		}
	}

	res.TotalTime = time.Since(start)
	res.RequestsPerSec = float64(b.Requests) / res.TotalTime.Seconds()
	if len(durations) > 0 {
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		res.AverageTime = total / time.Duration(len(durations))
		res.P95Time = durations[(len(durations)*95+99)/100-1]
		res.MaxTime = durations[len(durations)-1]
	}
	return res
}

func (r *BenchmarkResult) PrintResult() {
	fmt.Printf("%s %s\n", r.Method, r.URL)
	fmt.Printf("  concurrency=%d requests=%d ok=%d throttled=%d failed=%d\n",
		r.Concurrency, r.TotalRequests, r.SuccessCount, r.ThrottledCount, r.FailureCount)
	fmt.Printf("  total=%s avg=%s p95=%s max=%s rps=%.2f\n",
		r.TotalTime, r.AverageTime, r.P95Time, r.MaxTime, r.RequestsPerSec)
	for status, count := range r.StatusCodes {
		fmt.Printf("  %d: %d\n", status, count)
	}
	for i, err := range r.Errors {
		if i >= 5 {
			fmt.Printf("  ... %d more errors\n", len(r.Errors)-5)
			break
		}
		fmt.Printf("  %s\n", err)
	}
}
