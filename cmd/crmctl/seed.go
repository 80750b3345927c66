package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"imobcrm/internal/database"
	"imobcrm/internal/domain/lead"
)

var seedReset bool

type demoLead struct {
	name   string
	email  string
	phone  string
	source lead.Source
	score  int
	budget float64
	want   lead.InterestType
	hoods  []string
	path   []lead.Status
}

var demoLeads = []demoLead{
	{"Ana Beatriz Costa", "ana.costa@example.com", "11 91234-0001", lead.SourceSite, 50, 650000, lead.InterestPurchase, []string{"Moema", "Vila Mariana"}, nil},
	{"Bruno Almeida", "", "11 91234-0002", lead.SourceWhatsApp, 60, 3500, lead.InterestRental, []string{"Pinheiros"}, []lead.Status{lead.StatusContacted}},
	{"Carla Nogueira", "carla.n@example.com", "", lead.SourcePortalZap, 70, 980000, lead.InterestPurchase, nil, []lead.Status{lead.StatusContacted, lead.StatusQualified}},
	{"Diego Ferraz", "diego@example.com", "21 99876-1000", lead.SourcePortalVivaReal, 75, 1200000, lead.InterestPurchase, []string{"Leblon", "Ipanema"}, []lead.Status{lead.StatusQualified, lead.StatusVisitScheduled}},
	{"Elaine Prado", "", "11 97777-2000", lead.SourceReferral, 85, 2400000, lead.InterestPurchase, []string{"Jardins"}, []lead.Status{lead.StatusQualified, lead.StatusProposalSent}},
	{"Fernando Lopes", "f.lopes@example.com", "", lead.SourcePortalOLX, 90, 4800, lead.InterestRental, nil, []lead.Status{lead.StatusQualified, lead.StatusProposalSent, lead.StatusNegotiation}},
	{"Gabriela Teixeira", "gabi@example.com", "31 98888-3000", lead.SourceSocialMedia, 95, 720000, lead.InterestPurchase, []string{"Savassi"}, []lead.Status{lead.StatusNegotiation, lead.StatusWon}},
	{"Henrique Matos", "", "11 96666-4000", lead.SourcePhone, 20, 0, "", nil, []lead.Status{lead.StatusContacted, lead.StatusLost}},
	{"Isabela Rocha", "isa.rocha@example.com", "", lead.SourceOfficeVisit, 65, 5200, lead.InterestRental, []string{"Centro"}, []lead.Status{lead.StatusQualified, lead.StatusNew}},
	{"João Pedro Santos", "jp@example.com", "", lead.SourceOther, 50, 0, "", nil, nil},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo leads through the lead engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.IsProduction() {
			return fmt.Errorf("refusing to seed a %s environment", cfg.AppEnv)
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		svc := lead.NewService(db, nil)

		if seedReset {
			deleted, err := clearLeads(ctx, svc)
			if err != nil {
				return err
			}
			logrus.WithField("deleted", deleted).Info("seed: cleared leads")
		}

		n, err := seedLeads(ctx, svc)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d leads\n", n)
		return nil
	},
}

var seedOperator = &lead.Operator{ID: 1, Name: "Seed", Role: "admin"}

func clearLeads(ctx context.Context, svc *lead.Service) (int, error) {
	deleted := 0
	for {
		page, err := svc.ListLeads(ctx, lead.ListFilter{Limit: lead.MaxPageSize})
		if err != nil {
			return deleted, err
		}
		if len(page.Leads) == 0 {
			return deleted, nil
		}
		for _, l := range page.Leads {
			if err := svc.DeleteLead(ctx, l.ID, seedOperator); err != nil {
				return deleted, err
			}
			deleted++
		}
	}
}

func seedLeads(ctx context.Context, svc *lead.Service) (int, error) {
	for i, d := range demoLeads {
		score := d.score
		req := &lead.CreateLeadRequest{
			Name:                   d.name,
			Source:                 d.source,
			Score:                  &score,
			PreferredNeighborhoods: d.hoods,
		}
		if d.email != "" {
			req.Email = &d.email
		}
		if d.phone != "" {
			req.Phone = &d.phone
		}
		if d.budget > 0 {
			budget := d.budget
			req.Budget = &budget
		}
		if d.want != "" {
			want := d.want
			req.InterestType = &want
		}

		var op *lead.Operator
		if i%2 == 0 {
			op = seedOperator
		}
		l, err := svc.CreateLead(ctx, req, op)
		if err != nil {
			return i, fmt.Errorf("seed %s: %w", d.name, err)
		}

		for _, st := range d.path {
			if st == lead.StatusVisitScheduled {
				_, err = svc.ScheduleVisit(ctx, l.ID, &lead.ScheduleVisitRequest{
					ScheduledAt: time.Now().Add(72 * time.Hour).Truncate(time.Hour),
					Notes:       "Visita de demonstração",
				}, seedOperator)
			} else {
				_, err = svc.Transition(ctx, l.ID, st, seedOperator)
			}
			if err != nil {
				return i, fmt.Errorf("seed %s -> %s: %w", d.name, st, err)
			}
		}
	}
	return len(demoLeads), nil
}

func init() {
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "delete existing leads first")
	rootCmd.AddCommand(seedCmd)
}
