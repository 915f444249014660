package handlers

import "github.com/rgoodwin/leaguelotto/internal/repository"

// RunListResponse is the response for the run listing endpoint
type RunListResponse struct {
	Runs []repository.RunSummary `json:"runs"`
}
