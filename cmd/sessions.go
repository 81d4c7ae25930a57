package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/voxhire/voxhire/internal/store"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored interview sessions",
	Run: func(_ *cobra.Command, _ []string) {
		listSessions()
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func listSessions() {
	config, err := getConfig()
	if err != nil {
		log.Fatalf("getting a config: %s", err)
	}

	db, err := store.Open(config.Store.Path)
	if err != nil {
		log.Fatalf("opening the session store: %s", err)
	}
	defer db.Close()

	records, err := db.Sessions(context.Background())
	if err != nil {
		log.Fatalf("listing sessions: %s", err)
	}

	if len(records) == 0 {
		fmt.Println("no stored sessions")
		return
	}

	for _, rec := range records {
		state := "in progress"
		if rec.Snapshot.Finished {
			state = "finished"
		}

		fmt.Printf("%s  %s  %s / %s  %s  [%s]\n",
			rec.ID,
			rec.CreatedAt.Format("2006-01-02 15:04"),
			rec.Candidate.Name,
			rec.Candidate.RoleTitle,
			rec.Candidate.Company,
			state,
		)
	}
}
