package main

import (
	_ "embed"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

//go:embed data.json
var jsonData []byte

type contentItem struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

func main() {
	// Index the dataset by kind/id for lookups
	var items []json.RawMessage
	if err := json.Unmarshal(jsonData, &items); err != nil {
		log.Fatalf("[Catalog] Bad data.json: %v", err)
	}

	index := make(map[string]json.RawMessage, len(items))
	for _, raw := range items {
		var item contentItem
		if err := json.Unmarshal(raw, &item); err != nil {
			log.Fatalf("[Catalog] Bad content record: %v", err)
		}
		index[item.Kind+"/"+item.ID] = raw
	}

	http.HandleFunc("/api/v1/catalog/", func(w http.ResponseWriter, r *http.Request) {
		// Simulate network latency (50-200ms)
		time.Sleep(time.Duration(50+time.Now().UnixNano()%150) * time.Millisecond)

		key := strings.TrimPrefix(r.URL.Path, "/api/v1/catalog/")
		raw, ok := index[key]

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			if r.Method != http.MethodHead {
				_, _ = w.Write([]byte(`{"error":"content not found"}`))
			}
			log.Printf("[Catalog] %s %s - 404 Not Found", r.Method, r.URL.Path)

			return
		}

		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			if _, err := w.Write(raw); err != nil {
				log.Printf("[Catalog] Write error: %v", err)
			}
		}

		log.Printf("[Catalog] %s %s - 200 OK", r.Method, r.URL.Path)
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			log.Printf("[Catalog] Health write error: %v", err)
		}
	})

	log.Println("Mock Catalog running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
