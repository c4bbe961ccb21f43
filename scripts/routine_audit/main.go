// Command routine_audit scans a running routine API for slot clashes that
// bypassed the placement pipeline, typically rows loaded straight into the
// database during migration from the legacy system.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

type entry struct {
	ID           string `json:"id"`
	SemesterName string `json:"semester_name"`
	Day          string `json:"day"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	CourseID     string `json:"course_id"`
	TeacherID    string `json:"teacher_id"`
	RoomNo       string `json:"room_no"`
	Section      string `json:"section"`
}

type envelope struct {
	Data       []entry `json:"data"`
	Pagination *struct {
		Page       int `json:"page"`
		PageSize   int `json:"page_size"`
		TotalCount int `json:"total_count"`
	} `json:"pagination"`
}

type clash struct {
	Kind  string
	Left  entry
	Right entry
}

func main() {
	var (
		baseURL  string
		prefix   string
		semester string
		timeout  time.Duration
	)

	flag.StringVar(&baseURL, "base", "http://localhost:8080", "routine API base URL")
	flag.StringVar(&prefix, "prefix", "/api/v1", "API route prefix")
	flag.StringVar(&semester, "semester", "", "limit the audit to one semester")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}
	entries, err := fetchAll(client, baseURL, prefix, semester)
	if err != nil {
		log.Fatalf("failed to fetch routine entries: %v", err)
	}

	clashes := audit(entries)
	printReport(len(entries), clashes)
	if len(clashes) > 0 {
		os.Exit(1)
	}
}

func fetchAll(client *http.Client, base, prefix, semester string) ([]entry, error) {
	var all []entry
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", fmt.Sprint(page))
		query.Set("limit", "100")
		if semester != "" {
			query.Set("semester", semester)
		}
		endpoint := strings.TrimRight(base, "/") + prefix + "/routine?" + query.Encode()

		resp, err := client.Get(endpoint)
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
		}

		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		all = append(all, env.Data...)

		if env.Pagination == nil || len(all) >= env.Pagination.TotalCount || len(env.Data) == 0 {
			return all, nil
		}
	}
}

// audit groups entries by semester and day, then flags every pair that
// occupies the same room, the same teacher or the same section during
// overlapping times.
func audit(entries []entry) []clash {
	buckets := map[string][]entry{}
	for _, e := range entries {
		key := e.SemesterName + "|" + e.Day
		buckets[key] = append(buckets[key], e)
	}

	var clashes []clash
	for _, scope := range buckets {
		for i := 0; i < len(scope); i++ {
			for j := i + 1; j < len(scope); j++ {
				a, b := scope[i], scope[j]
				if !(a.StartTime < b.EndTime && b.StartTime < a.EndTime) {
					continue
				}
				if a.RoomNo == b.RoomNo {
					clashes = append(clashes, clash{Kind: "ROOM", Left: a, Right: b})
				}
				if a.TeacherID == b.TeacherID {
					clashes = append(clashes, clash{Kind: "TEACHER", Left: a, Right: b})
				}
				if a.Section == b.Section {
					clashes = append(clashes, clash{Kind: "SECTION", Left: a, Right: b})
				}
			}
		}
	}
	return clashes
}

func printReport(scanned int, clashes []clash) {
	fmt.Println("Routine Audit Report")
	fmt.Println("=====================")
	fmt.Printf("Entries scanned: %d\n", scanned)
	for _, c := range clashes {
		fmt.Printf("[%s] %s %s %s-%s\n", c.Kind, c.Left.SemesterName, c.Left.Day, overlapStart(c), overlapEnd(c))
		fmt.Printf("  %s: %s / %s / room %s / section %s\n", c.Left.ID, c.Left.CourseID, c.Left.TeacherID, c.Left.RoomNo, c.Left.Section)
		fmt.Printf("  %s: %s / %s / room %s / section %s\n", c.Right.ID, c.Right.CourseID, c.Right.TeacherID, c.Right.RoomNo, c.Right.Section)
	}
	fmt.Printf("Clashes found: %d\n", len(clashes))
}

func overlapStart(c clash) string {
	if c.Left.StartTime > c.Right.StartTime {
		return c.Left.StartTime
	}
	return c.Right.StartTime
}

func overlapEnd(c clash) string {
	if c.Left.EndTime < c.Right.EndTime {
		return c.Left.EndTime
	}
	return c.Right.EndTime
}
