// internal/errors/errors.go
package appErrors

import "fmt"

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrCampaignRunning is returned when a start request races an active
// dispatch loop for the same campaign.
type ErrCampaignRunning struct {
	CampaignID int
}

func (e *ErrCampaignRunning) Error() string {
	return fmt.Sprintf("campaign with ID %d is already running", e.CampaignID)
}

func NewCampaignRunning(id int) error {
	return &ErrCampaignRunning{CampaignID: id}
}
