package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	RepoOwner = "toolscout"
	RepoName  = "toolscout-mcp"
	UpdateURL = "https://api.github.com/repos/" + RepoOwner + "/" + RepoName + "/releases/latest"
)

var checkMu sync.Mutex

// GitHubRelease is the subset of the GitHub release API response we read.
type GitHubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// UpdateCache stores update check state between runs.
type UpdateCache struct {
	LastUpdateCheck  time.Time `json:"lastUpdateCheck"`
	LastKnownVersion string    `json:"lastKnownVersion"`
}

// CheckUpdate returns the latest released version if it differs from the
// running one. Results are cached for 24h so the check stays cheap.
func CheckUpdate(ctx context.Context) (string, error) {
	checkMu.Lock()
	defer checkMu.Unlock()

	cache, err := loadUpdateCache()
	if err == nil && time.Since(cache.LastUpdateCheck) < 24*time.Hour {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", UpdateURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to check for updates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var release GitHubRelease
	if err := json.Unmarshal(body, &release); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	latestVersion := strings.TrimPrefix(release.TagName, "v")

	cache.LastUpdateCheck = time.Now()
	cache.LastKnownVersion = latestVersion
	if err := saveUpdateCache(cache); err != nil {
		log.Printf("Warning: failed to save update cache: %v", err)
	}

	if latestVersion != Version {
		return latestVersion, nil
	}
	return "", nil
}

func getCachePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".toolscout-mcp-cache.json"), nil
}

func loadUpdateCache() (*UpdateCache, error) {
	cachePath, err := getCachePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &UpdateCache{}, nil
		}
		return nil, err
	}

	var cache UpdateCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return &UpdateCache{}, nil
	}
	return &cache, nil
}

func saveUpdateCache(cache *UpdateCache) error {
	cachePath, err := getCachePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(cachePath, data, 0644)
}
