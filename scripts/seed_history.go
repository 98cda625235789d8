// seed_history.go seeds saved decisions from a YAML file through the Worthit API.
//
// Usage:
//
//	go run scripts/seed_history.go -file items.yaml -api http://localhost:8700 -client seed
//
// The file is a list of {name, inputs} objects. inputs is a partial ItemInputs
// object using the API's snake_case keys; omitted fields take the server
// defaults.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"
)

type seedItem struct {
	Name   string                 `yaml:"name" json:"name"`
	Inputs map[string]interface{} `yaml:"inputs" json:"inputs,omitempty"`
}

func main() {
	path := flag.String("file", "items.yaml", "path to YAML item list")
	apiURL := flag.String("api", "http://localhost:8700", "Worthit API base URL")
	clientID := flag.String("client", "seed", "X-Client-ID header value")
	dryRun := flag.Bool("dry-run", false, "print items without posting")
	flag.Parse()

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("read %s: %v", *path, err)
	}

	var items []seedItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		log.Fatalf("parse %s: %v", *path, err)
	}
	log.Printf("parsed %d items from %s", len(items), *path)

	if *dryRun {
		for i, item := range items {
			fmt.Printf("[%d] %s (%d input overrides)\n", i+1, item.Name, len(item.Inputs))
		}
		return
	}

	client := &http.Client{}
	created, skipped := 0, 0
	for _, item := range items {
		body, err := json.Marshal(item)
		if err != nil {
			log.Printf("skip %q: %v", item.Name, err)
			skipped++
			continue
		}
		req, err := http.NewRequest("POST", *apiURL+"/api/v1/history", bytes.NewReader(body))
		if err != nil {
			log.Printf("skip %q: %v", item.Name, err)
			skipped++
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-ID", *clientID)

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("skip %q: %v", item.Name, err)
			skipped++
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			created++
		} else {
			log.Printf("skip %q: status %d", item.Name, resp.StatusCode)
			skipped++
		}
	}

	log.Printf("done: %d created, %d skipped", created, skipped)
}
