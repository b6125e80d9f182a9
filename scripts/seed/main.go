// Seed adds sample tasks and notes to the configured backend. Run from
// project root: go run ./scripts/seed [count]
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"pocketdesk/internal/config"
	"pocketdesk/internal/kv"
	"pocketdesk/internal/store"
)

func main() {
	ctx := context.Background()
	cfg := config.Get()

	count := 20
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil && n > 0 {
			count = n
		}
	}

	backend, closeBackend, err := kv.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Storage backend not available:", err)
		os.Exit(1)
	}
	defer closeBackend()

	st := store.New(backend)
	st.Load(ctx)
	start := time.Now()

	day := time.Now()
	for i := 1; i <= count; i++ {
		date := day.AddDate(0, 0, i%14).Format("02/01/2006")
		if _, err := st.CreateTask(ctx, fmt.Sprintf("Task %d", i), fmt.Sprintf("Description for task %d", i), date, i%5 == 0); err != nil {
			fmt.Fprintln(os.Stderr, "Create task failed:", err)
			os.Exit(1)
		}
		if _, err := st.CreateNote(ctx, fmt.Sprintf("Note %d", i), fmt.Sprintf("Body of note %d", i), false); err != nil {
			fmt.Fprintln(os.Stderr, "Create note failed:", err)
			os.Exit(1)
		}
	}

	if err := st.Save(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Save failed:", err)
		os.Exit(1)
	}
	fmt.Printf("Done: %d tasks and %d notes in %v\n", len(st.Tasks()), len(st.Notes()), time.Since(start))
}
