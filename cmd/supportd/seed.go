package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/scootcare/support-platform/internal/config"
	"github.com/scootcare/support-platform/internal/database"
	"github.com/scootcare/support-platform/internal/model"
	"github.com/scootcare/support-platform/internal/responder"
	"github.com/scootcare/support-platform/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the default knowledge base",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		db, err := database.Open(cfg.DSN())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}

		knowledge := store.NewKnowledgeStore(db)
		ctx := context.Background()

		existing, err := knowledge.List(ctx)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}
		if len(existing) > 0 {
			fmt.Println("knowledge base already seeded, skipping")
			return nil
		}

		for i, entry := range defaultEntries() {
			entry.ID = uuid.Must(uuid.NewV7()).String()
			entry.Position = i
			entry.CreatedAt = time.Now()
			entry.UpdatedAt = time.Now()
			if err := knowledge.Add(ctx, &entry); err != nil {
				return fmt.Errorf("seed entry %q: %w", entry.Question, err)
			}
		}

		fmt.Println("knowledge base seeded")
		return nil
	},
}

func defaultEntries() []model.KnowledgeEntry {
	return []model.KnowledgeEntry{
		{
			Question: "battery charging problems",
			Kind:     model.EntryStatic,
			Body:     "If your scooter won't charge, first check that the charging port is free of dirt and debris, then try a different outlet. The LED on the charger should glow red while charging and green when full. If it stays dark, the charger may need replacement.",
		},
		{
			Question: "maximum speed limit settings",
			Kind:     model.EntryStatic,
			Body:     "Your scooter's top speed can be adjusted in the ScootCare app under Settings > Ride Modes. Eco mode limits you to 15 km/h, Standard to 20 km/h, and Sport to 25 km/h where local regulations allow.",
		},
		{
			Question: "brakes squeaking adjustment",
			Kind:     model.EntryStatic,
			Body:     "Squeaking brakes usually mean the brake pads need adjustment. Loosen the cable clamp bolt, pull the cable taut, and retighten. If squeaking persists after adjustment, the pads may be worn and should be replaced.",
		},
		{
			Question: "app bluetooth connection pairing",
			Kind:     model.EntryStatic,
			Body:     "To pair your scooter, enable Bluetooth on your phone, open the ScootCare app, and hold the power button on the scooter for 3 seconds until the dashboard flashes. Then select your scooter from the list in the app.",
		},
		{
			Question:    "where is my order delivery status",
			Kind:        model.EntryDynamic,
			ResolverKey: responder.ResolverOrderTracking,
		},
	}
}
