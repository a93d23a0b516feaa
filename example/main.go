package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/studyplan"
	"github.com/meikuraledutech/studyplan/postgres"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	var store studyplan.Store = postgres.New(pool)

	if err := store.CreateSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}
	fmt.Println("schema created")

	// ── Save a catalogue ──────────────────────────────────────────────
	informatics := &studyplan.Catalogue{
		ID: "informatics-bsc",
		Records: []studyplan.Record{
			{Name: "AD2", Prerequisites: []string{"AD1", "Prog2"}},
			{Name: "AD1", Prerequisites: []string{"Prog1"}},
			{Name: "Prog2", Prerequisites: []string{"Prog1"}},
			{Name: "Prog1"},
			{Name: "DMI"},
		},
	}

	saved, err := store.SaveCatalogue(ctx, informatics)
	if err != nil {
		log.Fatalf("save catalogue: %v", err)
	}
	fmt.Println("catalogue saved")
	printJSON(saved)

	// ── Calculate and store the schedule ──────────────────────────────
	sched, err := saved.Schedule()
	if err != nil {
		log.Fatalf("schedule: %v", err)
	}
	fmt.Printf("\n%s", sched)

	if err := store.SaveSchedule(ctx, saved.ID, sched); err != nil {
		log.Fatalf("save schedule: %v", err)
	}

	// ── Add a prerequisite ────────────────────────────────────────────
	if err := store.AddPrerequisite(ctx, saved.ID, "AD2", "DMI"); err != nil {
		log.Fatalf("add prerequisite: %v", err)
	}
	fmt.Println("\nadded prerequisite AD2 <- DMI")

	// A back edge would make the catalogue unschedulable and is rejected.
	err = store.AddPrerequisite(ctx, saved.ID, "Prog1", "AD2")
	if !errors.Is(err, studyplan.ErrCycleDetected) {
		log.Fatalf("expected cycle, got: %v", err)
	}
	fmt.Printf("rejected: %v\n", err)

	// ── Recalculate after the edit ────────────────────────────────────
	current, err := store.GetCatalogue(ctx, saved.ID)
	if err != nil {
		log.Fatalf("get catalogue: %v", err)
	}
	sched, err = current.Schedule()
	if err != nil {
		log.Fatalf("schedule: %v", err)
	}
	if err := store.SaveSchedule(ctx, current.ID, sched); err != nil {
		log.Fatalf("save schedule: %v", err)
	}

	stored, err := store.GetSchedule(ctx, current.ID)
	if err != nil {
		log.Fatalf("get schedule: %v", err)
	}
	fmt.Println("\nstored schedule:")
	printJSON(stored)

	// ── Cleanup ───────────────────────────────────────────────────────
	if err := store.DeleteCatalogue(ctx, saved.ID); err != nil {
		log.Fatalf("delete: %v", err)
	}
	fmt.Println("\ncatalogue deleted")
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
