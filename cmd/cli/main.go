package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Triggers a report against a running API and polls until the CSV arrives,
// then writes it next to the working directory.
func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}
	key := os.Getenv("API_KEY")

	id, err := trigger(api, key)
	if err != nil {
		fmt.Println("Error triggering report:", err)
		return
	}
	fmt.Println("Report started:", id)

	for {
		done, err := poll(api, key, id)
		if err != nil {
			fmt.Println("Error polling report:", err)
			return
		}
		if done {
			return
		}
		fmt.Println("Still running...")
		time.Sleep(2 * time.Second)
	}
}

func trigger(api, key string) (string, error) {
	req, _ := http.NewRequest(http.MethodPost, api+"/api/reports", nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %s", resp.Status)
	}
	var out struct {
		ReportID string `json:"report_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.ReportID, nil
}

func poll(api, key, id string) (bool, error) {
	req, _ := http.NewRequest(http.MethodGet, api+"/api/reports/"+id, nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API returned status %s", resp.Status)
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv") {
		name := "report_" + id + ".csv"
		f, err := os.Create(name)
		if err != nil {
			return false, err
		}
		if _, err := io.Copy(f, resp.Body); err != nil {
			f.Close()
			return false, err
		}
		if err := f.Close(); err != nil {
			return false, err
		}
		fmt.Println("Saved", name)
		return true, nil
	}
	return false, nil // still running
}
