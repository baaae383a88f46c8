package service

import (
	"context"
	"fmt"
	"log"
)

// RappelService sends periodic late dues reminders. It is driven by a
// ticker in the server main, the same way expired data cleanup runs.
type RappelService struct {
	cotisations *CotisationService
	email       *EmailService
}

// NewRappelService creates a reminder service
func NewRappelService(cotisations *CotisationService, email *EmailService) *RappelService {
	return &RappelService{cotisations: cotisations, email: email}
}

// EnvoyerRappels emails every member with overdue dues and an email
// address on file. Returns the number of reminders sent. A failed send
// is logged and does not stop the run.
func (s *RappelService) EnvoyerRappels(ctx context.Context) (int, error) {
	if s.email == nil || !s.email.IsEnabled() {
		return 0, nil
	}

	retards, err := s.cotisations.MembresEnRetard(0)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue members: %w", err)
	}

	sent := 0
	for _, retard := range retards {
		if retard.Email == "" {
			continue
		}
		if err := s.email.SendRappelCotisation(ctx, retard); err != nil {
			log.Printf("Failed to send reminder to membre %d: %v", retard.MembreID, err)
			continue
		}
		sent++
	}
	return sent, nil
}
